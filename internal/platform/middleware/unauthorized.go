package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

// IsAuthPath reports whether path belongs to the login or registration
// screens.
func IsAuthPath(path string) bool {
	return path == "/" || strings.HasPrefix(path, "/login") || strings.HasPrefix(path, "/register")
}

// RedirectUnauthorized sends the browser to the login screen whenever a
// backend call fails with 401, except on the auth screens themselves.
func RedirectUnauthorized(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || !apiclient.IsUnauthorized(err) {
				return err
			}
			path := c.Request().URL.Path
			if IsAuthPath(path) || c.Response().Committed {
				return err
			}
			rid, _ := c.Get("request_id").(string)
			logger.Warn().Str("request_id", rid).Str("path", path).Msg("backend rejected credentials, redirecting to login")
			return c.Redirect(http.StatusSeeOther, "/")
		}
	}
}
