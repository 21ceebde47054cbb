package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ManagerConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds a Store to the browser through an opaque session cookie.
type Manager struct {
	store Store
	cfg   ManagerConfig
}

func NewManager(store Store, cfg ManagerConfig) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = "genosentinel_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &Manager{store: store, cfg: cfg}
}

const idContextKey = "session_id"

// ID returns the browser's session id, issuing a new cookie when the request
// has none or a malformed one.
func (m *Manager) ID(c echo.Context) string {
	if id, ok := c.Get(idContextKey).(string); ok && id != "" {
		return id
	}
	if ck, err := c.Cookie(m.cfg.CookieName); err == nil {
		if _, perr := uuid.Parse(ck.Value); perr == nil {
			c.Set(idContextKey, ck.Value)
			return ck.Value
		}
	}

	id := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(idContextKey, id)
	return id
}

func (m *Manager) storeKey(c echo.Context, name string) string {
	return m.ID(c) + ":" + name
}

// Load decodes the value stored under name into v. It reports false when
// nothing is stored.
func (m *Manager) Load(c echo.Context, name string, v any) (bool, error) {
	raw, err := m.store.Get(c.Request().Context(), m.storeKey(c, name))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode session %s: %w", name, err)
	}
	return true, nil
}

// Save stores v under name for the configured TTL.
func (m *Manager) Save(c echo.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", name, err)
	}
	return m.store.Set(c.Request().Context(), m.storeKey(c, name), raw, m.cfg.TTL)
}

func (m *Manager) Clear(c echo.Context, name string) error {
	return m.store.Delete(c.Request().Context(), m.storeKey(c, name))
}
