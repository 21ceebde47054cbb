package web

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFField is the form field every state-changing form carries.
	CSRFField = "_csrf"
	// CSRFCookieName holds the token on the browser. It never reaches the
	// backend.
	CSRFCookieName = "genosentinel_csrf"

	csrfContextKey = "csrf"
)

// CSRF rejects unsafe requests whose CSRFField does not match the CSRF
// cookie. Requests to the skip paths are not checked.
func CSRF(secure bool, skip ...string) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			for _, p := range skip {
				if c.Path() == p {
					return true
				}
			}
			return false
		},
		TokenLookup:    "form:" + CSRFField,
		ContextKey:     csrfContextKey,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteStrictMode,
		ErrorHandler: func(error, echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "El formulario expiró. Recarga la página e inténtalo de nuevo.")
		},
	})
}

func csrfToken(c echo.Context) string {
	if c == nil {
		return ""
	}
	tok, _ := c.Get(csrfContextKey).(string)
	return tok
}

func csrfInput(token string) template.HTML {
	if token == "" {
		return ""
	}
	return template.HTML(`<input type="hidden" name="` + CSRFField + `" value="` + template.HTMLEscapeString(token) + `">`)
}
