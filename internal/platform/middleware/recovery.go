package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into the console's error page. The page
// shows the request id so a user can quote it; the stack only goes to the
// log. A panic after the response was committed is logged and dropped.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				var stack [4096]byte
				n := runtime.Stack(stack[:], false)
				rid, _ := c.Get("request_id").(string)
				committed := c.Response().Committed

				logger.Error().
					Str("request_id", rid).
					Str("method", c.Request().Method).
					Str("route", c.Path()).
					Bool("committed", committed).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", stack[:n]).
					Msg("panic recovered")

				if committed {
					err = nil
					return
				}
				msg := "Ocurrió un error inesperado."
				if rid != "" {
					msg += " Referencia: " + rid
				}
				err = echo.NewHTTPError(http.StatusInternalServerError, msg).SetInternal(fmt.Errorf("panic: %v", r))
			}()
			return next(c)
		}
	}
}
