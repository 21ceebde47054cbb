package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/config"
	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
	"github.com/ReyXerxezz/genosentinel/internal/platform/session"
	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

// fakeBackend answers the clinical endpoints and records the cookies it
// received.
type fakeBackend struct {
	mu           sync.Mutex
	unauthorized bool
	cookies      []string
	deleted      []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	for _, ck := range r.Cookies() {
		b.cookies = append(b.cookies, ck.Name)
	}
	unauthorized := b.unauthorized
	b.mu.Unlock()

	if unauthorized {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"INVALID_ACCESS"}`))
		return
	}
	if r.Method == http.MethodDelete {
		b.mu.Lock()
		b.deleted = append(b.deleted, r.URL.Path)
		b.mu.Unlock()
		w.Write([]byte(`{"message":"deleted"}`))
		return
	}
	switch r.URL.Path {
	case "/clinica/patients":
		w.Write([]byte(`{"message":"ok","data":[{"id":"p-1","firstName":"Ana","lastName":"Ruiz","birthDate":"1990-01-01","gender":"FEMENINO","status":"Activo"}]}`))
	case "/clinica/clinical-records":
		w.Write([]byte(`{"message":"ok","data":[],"pagination":{"page":1,"limit":10,"total":12,"totalPages":2}}`))
	case "/clinica/tumor-types":
		w.Write([]byte(`{"message":"ok","data":[{"id":1,"name":"Glioma","systemAffected":"Cerebro"}]}`))
	default:
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_code":"MISSING_COOKIES"}`))
	}
}

func (b *fakeBackend) sawCookie(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.cookies {
		if n == name {
			return true
		}
	}
	return false
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Port:              "0",
		Env:               "test",
		APIBaseURL:        apiURL,
		APITimeout:        5 * time.Second,
		RequestTimeout:    5 * time.Second,
		SessionStore:      "memory",
		SessionTTL:        time.Minute,
		SessionCookieName: "genosentinel_session",
		AccessCookieName:  "access_token",
		RefreshCookieName: "refresh_token",
		RateLimitRPS:      100,
		RateLimitBurst:    100,
		MetricsEnabled:    true,
	}
}

func newTestConsole(t *testing.T) (*echo.Echo, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	e, err := newServer(testConfig(srv.URL), zerolog.Nop(), session.NewMemoryStore(), reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return e, backend
}

func TestServer_Health(t *testing.T) {
	e, _ := newTestConsole(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestServer_PatientsPage(t *testing.T) {
	e, backend := newTestConsole(t)

	req := httptest.NewRequest(http.MethodGet, "/app/patients", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "opaque"})
	req.AddCookie(&http.Cookie{Name: "genosentinel_session", Value: "local"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Gestión de Pacientes", "Ana", "Registros Clínicos", "12"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
	if !backend.sawCookie("access_token") {
		t.Error("expected the access cookie forwarded to the backend")
	}
	if backend.sawCookie("genosentinel_session") {
		t.Error("the console's own session cookie must stay local")
	}
}

func TestServer_UnauthorizedRedirectsToLogin(t *testing.T) {
	e, backend := newTestConsole(t)
	backend.mu.Lock()
	backend.unauthorized = true
	backend.mu.Unlock()

	for _, path := range []string{"/app/patients", "/app/clinical-records", "/app/tumor-types"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
			t.Errorf("%s: expected redirect to /, got %d %q", path, rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
	}

	// The login screen itself renders even though validation fails.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected login page, got %d", rec.Code)
	}
}

func TestServer_UnknownPathsRedirect(t *testing.T) {
	e, _ := newTestConsole(t)

	for _, path := range []string{"/nope", "/app/unknown", "/app"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: expected redirect, got %d", path, rec.Code)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	e, _ := newTestConsole(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/tumor-types", nil))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "genosentinel_api_requests_total") {
		t.Errorf("expected api metrics exposed, got %d", rec.Code)
	}
}

func TestRunList(t *testing.T) {
	srv := httptest.NewServer(&fakeBackend{})
	defer srv.Close()

	var out bytes.Buffer
	if err := runList(context.Background(), &out, apiclient.New(srv.URL), "tumor-types"); err != nil {
		t.Fatalf("runList: %v", err)
	}
	var items []map[string]any
	if err := json.Unmarshal(out.Bytes(), &items); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if len(items) != 1 || items[0]["name"] != "Glioma" {
		t.Errorf("unexpected output %s", out.String())
	}

	if err := runList(context.Background(), &out, apiclient.New(srv.URL), "genes"); err == nil {
		t.Error("expected unknown resource error")
	}
}

func TestParseCookies(t *testing.T) {
	creds, err := parseCookies([]string{"access_token=abc", "refresh_token=a=b"})
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := creds.Cookie("refresh_token"); !ok || v != "a=b" {
		t.Errorf("expected value split on the first '=', got %q", v)
	}

	if _, err := parseCookies([]string{"novalue"}); err == nil {
		t.Error("expected error for a pair without '='")
	}
}

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func TestServer_CSRF(t *testing.T) {
	e, backend := newTestConsole(t)
	form := url.Values{"confirm": {"yes"}}

	post := func(cookies []*http.Cookie, vals url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/app/patients/p-1/delete", strings.NewReader(vals.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(nil, form); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a token, got %d", rec.Code)
	}

	page := httptest.NewRecorder()
	e.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/app/patients", nil))
	m := csrfInput.FindStringSubmatch(page.Body.String())
	if m == nil {
		t.Fatal("expected the page forms to carry a token")
	}
	var cookies []*http.Cookie
	for _, ck := range page.Result().Cookies() {
		if ck.Name == web.CSRFCookieName {
			cookies = append(cookies, ck)
		}
	}
	if len(cookies) != 1 {
		t.Fatalf("expected the csrf cookie set, got %v", page.Result().Cookies())
	}

	forged := url.Values{"confirm": {"yes"}, web.CSRFField: {"forged"}}
	if rec := post(cookies, forged); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a wrong token, got %d", rec.Code)
	}

	form.Set(web.CSRFField, m[1])
	rec := post(cookies, form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/app/patients" {
		t.Fatalf("expected redirect to the list, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	backend.mu.Lock()
	deleted := append([]string(nil), backend.deleted...)
	backend.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != "/clinica/patients/p-1" {
		t.Errorf("expected one backend delete, got %v", deleted)
	}
	if backend.sawCookie(web.CSRFCookieName) {
		t.Error("the csrf cookie must stay local")
	}
}
