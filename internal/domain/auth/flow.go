package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
)

// Step is a state of the registration flow.
type Step string

const (
	StepCollectingCredentials Step = "collecting_credentials"
	StepAwaitingCode          Step = "awaiting_code"
)

type Event string

const (
	EventRegistered Event = "registered"
	EventResent     Event = "resent"
	EventRestart    Event = "restart"
)

var transitions = map[Step]map[Event]Step{
	StepCollectingCredentials: {
		EventRegistered: StepAwaitingCode,
		EventRestart:    StepCollectingCredentials,
	},
	StepAwaitingCode: {
		EventResent:  StepAwaitingCode,
		EventRestart: StepCollectingCredentials,
	},
}

var ErrInvalidTransition = errors.New("invalid registration transition")

type RegisterField string

const (
	FieldName     RegisterField = "name"
	FieldEmail    RegisterField = "email"
	FieldPassword RegisterField = "password"
)

const (
	msgAlreadyVerified = "Cuenta ya verificada. Inicia sesión."
	msgRegisterFailed  = "No pudimos crear la cuenta. Intenta de nuevo."
	msgCodeRequired    = "Ingresa el código."
	msgVerifyRejected  = "No pudimos verificar el código."
	msgVerifyFailed    = "No pudimos verificar el código. Intenta de nuevo."
	msgResendFailed    = "No pudimos reenviar el código."
)

var verifyErrors = map[string]string{
	"CODE_COOKIE_MISSING": "Sesión de verificación expirada. Repite el registro.",
	"CODE_COOKIE_INVALID": "Sesión de verificación inválida. Repite el registro.",
	"CODE_MISMATCH":       "Código incorrecto.",
	"CODE_RECORD_MISSING": "No hay un registro de código vigente.",
	"CODE_EXPIRED":        "Código expirado. Solicita uno nuevo.",
}

var resendErrors = map[string]string{
	"CODE_REFRESH_MISSING":        "Sesión de verificación expirada. Repite el registro.",
	"CODE_REFRESH_INVALID":        "Sesión de verificación inválida. Repite el registro.",
	"CODE_REFRESH_USER_NOT_FOUND": "No encontramos tu registro. Repite el registro.",
}

func lookup(table map[string]string, code, fallback string) string {
	if msg, ok := table[code]; ok {
		return msg
	}
	return fallback
}

// State is the part of the flow kept between requests. The password is
// never part of it.
type State struct {
	Step      Step       `json:"step"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Countdown *Countdown `json:"countdown,omitempty"`
}

// Flow drives registration: credentials are submitted, then the emailed
// code is verified, resent or the whole thing restarted.
type Flow struct {
	state     State
	Form      *form.Form[RegisterField]
	Code      string
	CodeError string
	now       func() time.Time
}

// NewFlow resumes the flow from st and brings its countdown up to now.
func NewFlow(st State, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}
	if st.Step == "" {
		st.Step = StepCollectingCredentials
	}
	f := &Flow{state: st, now: now, Form: NewRegisterForm()}
	f.Form.SetValues(map[RegisterField]string{FieldName: st.Name, FieldEmail: st.Email})
	if f.state.Countdown != nil {
		f.state.Countdown.Sync(now())
	}
	return f
}

func NewRegisterForm() *form.Form[RegisterField] {
	return form.New(map[RegisterField]string{FieldName: "", FieldEmail: "", FieldPassword: ""})
}

func (f *Flow) Step() Step { return f.state.Step }

func (f *Flow) State() State { return f.state }

// Countdown is nil until the backend reports an expiry.
func (f *Flow) Countdown() *Countdown { return f.state.Countdown }

func (f *Flow) fire(ev Event) error {
	next, ok := transitions[f.state.Step][ev]
	if !ok {
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, ev, f.state.Step)
	}
	f.state.Step = next
	return nil
}

func (f *Flow) can(ev Event) error {
	if _, ok := transitions[f.state.Step][ev]; !ok {
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, ev, f.state.Step)
	}
	return nil
}

// submitFailure carries a user-facing message for the form's submit slot
// and the cause behind it.
type submitFailure struct {
	msg   string
	cause error
}

func (e *submitFailure) Error() string { return e.msg }
func (e *submitFailure) Unwrap() error { return e.cause }

// Register submits the credentials in Form. Business failures end up in the
// form; the returned error is the transport failure behind them, if any.
func (f *Flow) Register(ctx context.Context, api API) error {
	if err := f.can(EventRegistered); err != nil {
		return err
	}
	f.CodeError = ""

	submit := f.Form.HandleSubmit(func(ctx context.Context, v map[RegisterField]string) error {
		resp, err := api.Register(ctx, RegisterDTO{
			Name:     strings.TrimSpace(v[FieldName]),
			Email:    strings.TrimSpace(v[FieldEmail]),
			Password: v[FieldPassword],
		})
		if err != nil {
			return &submitFailure{msg: msgRegisterFailed, cause: err}
		}
		// Any other code still means a code was issued.
		switch resp.ErrorCode {
		case "VALIDATION_ERROR":
			f.applyValidation(resp.Errors)
			return nil
		case "ACCOUNT_ALREADY_VERIFIED":
			return &submitFailure{msg: msgAlreadyVerified}
		}

		f.state.Name = strings.TrimSpace(v[FieldName])
		f.state.Email = strings.TrimSpace(v[FieldEmail])
		f.state.Countdown = nil
		if ttl, ok := resp.ExpiresIn(); ok {
			f.state.Countdown = NewCountdown(ttl, f.now())
		}
		return f.fire(EventRegistered)
	})

	err := submit(ctx)
	f.Form.SetFieldValue(FieldPassword, "")
	return unwrapCause(err)
}

// applyValidation maps the backend's per-field messages onto the form,
// joining several messages with ", ". Messages for fields the form does not
// have go to the submit slot.
func (f *Flow) applyValidation(errs map[string][]string) {
	fields := make(map[RegisterField]string)
	var other []string
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg := strings.Join(errs[k], ", ")
		switch field := RegisterField(k); field {
		case FieldName, FieldEmail, FieldPassword:
			fields[field] = msg
		default:
			other = append(other, msg)
		}
	}
	f.Form.SetErrors(fields)
	if len(other) > 0 {
		f.Form.SetSubmitError(strings.Join(other, ", "))
	}
}

// Verify submits code. It reports whether the backend accepted it; the step
// does not change either way.
func (f *Flow) Verify(ctx context.Context, api API, code string) (bool, error) {
	if f.state.Step != StepAwaitingCode {
		return false, fmt.Errorf("%w: verify while %s", ErrInvalidTransition, f.state.Step)
	}
	f.Code = strings.TrimSpace(code)
	f.CodeError = ""
	if f.Code == "" {
		f.CodeError = msgCodeRequired
		return false, nil
	}

	resp, err := api.VerifyCode(ctx, VerifyCodeDTO{Code: f.Code})
	if err != nil {
		f.CodeError = msgVerifyFailed
		return false, err
	}
	if resp.ErrorCode != "" {
		f.CodeError = lookup(verifyErrors, resp.ErrorCode, msgVerifyRejected)
		return false, nil
	}
	return true, nil
}

// Resend asks for a new code, clearing the code input and reseeding the
// countdown.
func (f *Flow) Resend(ctx context.Context, api API) error {
	if err := f.can(EventResent); err != nil {
		return err
	}
	f.CodeError = ""

	resp, err := api.ResendCode(ctx)
	if err != nil {
		f.CodeError = msgResendFailed
		return err
	}
	if resp.ErrorCode != "" {
		f.CodeError = lookup(resendErrors, resp.ErrorCode, msgResendFailed)
		return nil
	}

	f.Code = ""
	f.state.Countdown = nil
	if ttl, ok := resp.ExpiresIn(); ok {
		f.state.Countdown = NewCountdown(ttl, f.now())
	}
	return f.fire(EventResent)
}

// Restart drops everything and returns to the credentials form.
func (f *Flow) Restart() error {
	if err := f.fire(EventRestart); err != nil {
		return err
	}
	f.Form.Reset()
	f.state = State{Step: StepCollectingCredentials}
	f.Code = ""
	f.CodeError = ""
	return nil
}
