package auth

import (
	"context"
	"strings"

	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
)

type LoginField string

const (
	LoginEmail    LoginField = "email"
	LoginPassword LoginField = "password"
)

const msgLoginFailed = "No pudimos iniciar sesión. Intenta de nuevo."

var loginErrors = map[string]string{
	"INVALID_CREDENTIALS":  "Credenciales inválidas.",
	"ACCOUNT_NOT_VERIFIED": "Cuenta no verificada. Revisa tu correo.",
}

func NewLoginForm() *form.Form[LoginField] {
	return form.New(map[LoginField]string{LoginEmail: "", LoginPassword: ""})
}

// Login submits f and reports whether the backend accepted the credentials.
// On success the backend has set the session cookies on the response.
func Login(ctx context.Context, api API, f *form.Form[LoginField]) (bool, error) {
	var ok bool
	submit := f.HandleSubmit(func(ctx context.Context, v map[LoginField]string) error {
		resp, err := api.Login(ctx, LoginDTO{Email: strings.TrimSpace(v[LoginEmail]), Password: v[LoginPassword]})
		if err != nil {
			return &submitFailure{msg: msgLoginFailed, cause: err}
		}
		if resp.ErrorCode != "" {
			return &submitFailure{msg: lookup(loginErrors, resp.ErrorCode, msgLoginFailed)}
		}
		ok = true
		return nil
	})
	err := submit(ctx)
	f.SetFieldValue(LoginPassword, "")
	if err != nil {
		return false, unwrapCause(err)
	}
	return ok, nil
}

func unwrapCause(err error) error {
	if sf, isFailure := err.(*submitFailure); isFailure {
		return sf.cause
	}
	return err
}
