package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

type CookieConfig struct {
	// Exclude lists browser cookies that stay with the console, such as its
	// own session cookie.
	Exclude []string
	Secure  bool
}

// ForwardCookies attaches the browser's cookies to the request context so
// backend calls carry them, and relays every cookie the backend sets back to
// the browser before the response is written.
func ForwardCookies(cfg CookieConfig) echo.MiddlewareFunc {
	excluded := make(map[string]bool, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		excluded[name] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var inbound []*http.Cookie
			for _, ck := range c.Cookies() {
				if !excluded[ck.Name] {
					inbound = append(inbound, ck)
				}
			}
			creds := apiclient.NewCredentials(inbound)

			req := c.Request()
			c.SetRequest(req.WithContext(apiclient.WithCredentials(req.Context(), creds)))

			resp := c.Response()
			resp.Before(func() {
				for _, ck := range creds.ResponseCookies() {
					http.SetCookie(resp, relayed(ck, cfg.Secure))
				}
			})
			return next(c)
		}
	}
}

// relayed rewrites a backend cookie for the console's own origin.
func relayed(ck *http.Cookie, secure bool) *http.Cookie {
	out := &http.Cookie{
		Name:     ck.Name,
		Value:    ck.Value,
		Path:     "/",
		Expires:  ck.Expires,
		MaxAge:   ck.MaxAge,
		HttpOnly: ck.HttpOnly,
		Secure:   ck.Secure || secure,
		SameSite: ck.SameSite,
	}
	if out.SameSite == http.SameSiteDefaultMode || out.SameSite == http.SameSiteNoneMode && !out.Secure {
		out.SameSite = http.SameSiteLaxMode
	}
	return out
}
