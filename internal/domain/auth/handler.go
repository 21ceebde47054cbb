package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
	"github.com/ReyXerxezz/genosentinel/internal/platform/session"
	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

// flowKey names the registration state in the UI session store.
const flowKey = "register"

type Handler struct {
	api      API
	sessions *session.Manager
	logger   zerolog.Logger
	home     string
	now      func() time.Time
}

// NewHandler serves the login and registration screens. home is where an
// authenticated browser is sent.
func NewHandler(api API, sessions *session.Manager, logger zerolog.Logger, home string) *Handler {
	return &Handler{api: api, sessions: sessions, logger: logger, home: home, now: time.Now}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/", h.LoginPage)
	g.GET("/login", h.LoginPage)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	g.GET("/register", h.RegisterPage)
	g.POST("/register", h.Register)
	g.POST("/register/verify", h.Verify)
	g.POST("/register/resend", h.Resend)
	g.POST("/register/restart", h.Restart)
}

// authenticated asks the backend whether the browser's cookies still hold a
// valid session. Failures, 401 included, mean no.
func (h *Handler) authenticated(c echo.Context) bool {
	resp, err := h.api.ValidateToken(c.Request().Context())
	if err != nil {
		h.logger.Debug().Err(err).Msg("token validation failed")
		return false
	}
	return resp.Detail() == Authenticated
}

func (h *Handler) LoginPage(c echo.Context) error {
	if h.authenticated(c) {
		return c.Redirect(http.StatusSeeOther, h.home)
	}
	return c.Render(http.StatusOK, "login", loginPage(NewLoginForm()))
}

func (h *Handler) Login(c echo.Context) error {
	vals, err := c.FormParams()
	if err != nil {
		return formError(err)
	}
	f := NewLoginForm()
	f.Bind(vals)

	ok, err := Login(c.Request().Context(), h.api, f)
	if err != nil {
		h.logger.Warn().Err(err).Msg("login request failed")
	}
	if ok {
		return c.Redirect(http.StatusSeeOther, h.home)
	}
	return c.Render(http.StatusOK, "login", loginPage(f))
}

func (h *Handler) Logout(c echo.Context) error {
	if _, err := h.api.Logout(c.Request().Context()); err != nil {
		h.logger.Warn().Err(err).Msg("logout request failed")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// loadFlow resumes the browser's registration. Unreadable state starts
// over.
func (h *Handler) loadFlow(c echo.Context) *Flow {
	var st State
	if _, err := h.sessions.Load(c, flowKey, &st); err != nil {
		h.logger.Warn().Err(err).Msg("discarding unreadable registration state")
		st = State{}
	}
	return NewFlow(st, h.now)
}

func (h *Handler) saveFlow(c echo.Context, f *Flow) error {
	return h.sessions.Save(c, flowKey, f.State())
}

func (h *Handler) renderFlow(c echo.Context, status int, f *Flow) error {
	if f.Step() == StepAwaitingCode {
		p := web.RegisterPage{Title: "Verifica tu correo", Code: f.Code, CodeError: f.CodeError}
		if cd := f.Countdown(); cd != nil {
			p.Remaining = cd.Remaining
			p.Countdown = cd.Label()
		}
		return c.Render(status, "verify", p)
	}
	return c.Render(status, "register", web.RegisterPage{
		Title:       "Crear cuenta",
		Fields:      registerFields(f),
		SubmitError: f.Form.SubmitError(),
	})
}

func (h *Handler) RegisterPage(c echo.Context) error {
	if h.authenticated(c) {
		return c.Redirect(http.StatusSeeOther, h.home)
	}
	f := h.loadFlow(c)
	return h.renderFlow(c, http.StatusOK, f)
}

func (h *Handler) Register(c echo.Context) error {
	vals, err := c.FormParams()
	if err != nil {
		return formError(err)
	}
	f := h.loadFlow(c)
	f.Form.Bind(vals)

	if err := f.Register(c.Request().Context(), h.api); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return c.Redirect(http.StatusSeeOther, "/register")
		}
		h.logger.Warn().Err(err).Msg("register request failed")
	}
	if err := h.saveFlow(c, f); err != nil {
		return err
	}

	status := http.StatusOK
	if f.Step() == StepCollectingCredentials && len(f.Form.Errors()) > 0 {
		status = http.StatusUnprocessableEntity
	}
	return h.renderFlow(c, status, f)
}

func (h *Handler) Verify(c echo.Context) error {
	f := h.loadFlow(c)

	ok, err := f.Verify(c.Request().Context(), h.api, c.FormValue("code"))
	if errors.Is(err, ErrInvalidTransition) {
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	if err != nil {
		h.logger.Warn().Err(err).Msg("verify request failed")
	}
	if ok {
		if err := h.sessions.Clear(c, flowKey); err != nil {
			h.logger.Warn().Err(err).Msg("clearing registration state failed")
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err := h.saveFlow(c, f); err != nil {
		return err
	}
	return h.renderFlow(c, http.StatusOK, f)
}

func (h *Handler) Resend(c echo.Context) error {
	f := h.loadFlow(c)

	if err := f.Resend(c.Request().Context(), h.api); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return c.Redirect(http.StatusSeeOther, "/register")
		}
		h.logger.Warn().Err(err).Msg("resend request failed")
	}
	if err := h.saveFlow(c, f); err != nil {
		return err
	}
	return h.renderFlow(c, http.StatusOK, f)
}

func (h *Handler) Restart(c echo.Context) error {
	f := h.loadFlow(c)
	if err := f.Restart(); err != nil {
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	if err := h.sessions.Clear(c, flowKey); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/register")
}

func formError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido")
}

func loginPage(f *form.Form[LoginField]) web.LoginPage {
	return web.LoginPage{
		Title: "Iniciar sesión",
		Fields: []web.FieldView{
			{Name: string(LoginEmail), Label: "Correo", Type: "email", Placeholder: "tu@correo.com", Value: f.Value(LoginEmail), Error: f.Error(LoginEmail)},
			{Name: string(LoginPassword), Label: "Contraseña", Type: "password", Placeholder: "••••••••", Error: f.Error(LoginPassword)},
		},
		SubmitError: f.SubmitError(),
	}
}

func registerFields(f *Flow) []web.FieldView {
	return []web.FieldView{
		{Name: string(FieldName), Label: "Nombre", Type: "text", Placeholder: "Tu nombre", Required: true,
			Value: f.Form.Value(FieldName), Error: f.Form.Error(FieldName)},
		{Name: string(FieldEmail), Label: "Correo", Type: "email", Placeholder: "tu@correo.com", Required: true,
			Value: f.Form.Value(FieldEmail), Error: f.Form.Error(FieldEmail)},
		{Name: string(FieldPassword), Label: "Contraseña", Type: "password", Placeholder: "••••••••", Required: true,
			Error: f.Form.Error(FieldPassword)},
	}
}
