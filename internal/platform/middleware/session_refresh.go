package middleware

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

// Refresher asks the backend for a new access token using the refresh
// cookie carried by ctx.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

type SessionRefreshConfig struct {
	AccessCookie  string
	RefreshCookie string
	Refresher     Refresher
	// Leeway refreshes tokens this close to expiry.
	Leeway time.Duration
	Logger zerolog.Logger
	Now    func() time.Time
}

// SessionRefresh renews the access cookie before the handler runs when it is
// missing or about to expire and a refresh cookie is present. The token is
// only inspected for its expiry, never verified; the backend remains the
// authority. Must run after ForwardCookies.
func SessionRefresh(cfg SessionRefreshConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	parser := jwt.NewParser()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			creds := apiclient.CredentialsFrom(ctx)
			if creds == nil || cfg.Refresher == nil {
				return next(c)
			}
			if _, ok := creds.Cookie(cfg.RefreshCookie); !ok {
				return next(c)
			}

			access, ok := creds.Cookie(cfg.AccessCookie)
			if ok && !expiring(parser, access, cfg.Now().Add(cfg.Leeway)) {
				return next(c)
			}

			if err := cfg.Refresher.Refresh(ctx); err != nil {
				rid, _ := c.Get("request_id").(string)
				cfg.Logger.Warn().Err(err).Str("request_id", rid).Msg("token refresh failed")
			}
			return next(c)
		}
	}
}

// expiring reports whether token's exp claim is before at. Tokens that cannot
// be parsed or carry no exp are left alone.
func expiring(parser *jwt.Parser, token string, at time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(at)
}
