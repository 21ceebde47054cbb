package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

// ErrorHandler renders failed requests as the "error" page. Backend errors
// keep their status and message; everything else is hidden behind a generic
// message.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Ocurrió un error inesperado."

		var he *echo.HTTPError
		var apiErr *apiclient.APIError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		case errors.As(err, &apiErr):
			code = http.StatusBadGateway
			if apiErr.Status >= 400 && apiErr.Status < 500 {
				code = apiErr.Status
			}
			msg = apiErr.Message
		}

		if code >= 500 {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).Str("request_id", rid).Int("status", code).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		page := ErrorPage{Title: "Error", Status: code, Message: msg}
		if rerr := c.Render(code, "error", page); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}
