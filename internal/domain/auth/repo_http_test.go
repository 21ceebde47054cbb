package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

func TestHTTPAPI_Endpoints(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"message":"ok","data":{"detail":"Autenticado","expires_in_seconds":300}}`))
	}))
	defer srv.Close()
	api := NewHTTPAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	_, _ = api.Login(ctx, LoginDTO{Email: "a@b.c", Password: "x"})
	_, _ = api.Register(ctx, RegisterDTO{Name: "A", Email: "a@b.c", Password: "x"})
	_, _ = api.VerifyCode(ctx, VerifyCodeDTO{Code: "1"})
	_, _ = api.ResendCode(ctx)
	_, _ = api.Refresh(ctx)
	resp, err := api.ValidateToken(ctx)
	_, _ = api.Logout(ctx)

	if err != nil || resp.Detail() != Authenticated {
		t.Fatalf("expected authenticated, got %+v %v", resp, err)
	}
	if ttl, ok := resp.ExpiresIn(); !ok || ttl != 300 {
		t.Errorf("expected ttl from data, got %d %v", ttl, ok)
	}

	want := []string{
		"POST /auth/login/",
		"POST /auth/register/",
		"POST /auth/verify-code/",
		"POST /auth/resend-code/",
		"POST /auth/refresh/",
		"GET /auth/validate-token/",
		"POST /auth/logout/",
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], calls[i])
		}
	}
}

func TestHTTPAPI_BusinessErrorIsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid","error_code":"VALIDATION_ERROR","errors":{"email":["invalid"]}}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPAPI(apiclient.New(srv.URL)).Register(context.Background(), RegisterDTO{Email: "x"})
	if err != nil {
		t.Fatalf("expected envelope, got error %v", err)
	}
	if resp.ErrorCode != "VALIDATION_ERROR" || resp.Errors["email"][0] != "invalid" {
		t.Errorf("unexpected envelope %+v", resp)
	}
}

func TestHTTPAPI_OtherFailuresAreErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		status int
		body   string
	}{
		"4xx without code": {http.StatusUnauthorized, `{"detail":"no cookies"}`},
		"5xx with code":    {http.StatusInternalServerError, `{"error_code":"BOOM"}`},
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHTTPAPI(apiclient.New(srv.URL)).ValidateToken(context.Background())
			if apiclient.StatusCode(err) != tc.status {
				t.Errorf("expected API error %d, got %v", tc.status, err)
			}
		})
	}
}

func TestResponse_TopLevelWins(t *testing.T) {
	ttl := 60
	r := &Response{DetailText: "top", ExpiresInSeconds: &ttl, Data: []byte(`{"detail":"nested","expires_in_seconds":5}`)}
	if r.Detail() != "top" {
		t.Errorf("expected top-level detail, got %q", r.Detail())
	}
	if got, _ := r.ExpiresIn(); got != 60 {
		t.Errorf("expected 60, got %d", got)
	}

	empty := &Response{Data: []byte(`[]`)}
	if _, ok := empty.ExpiresIn(); ok {
		t.Error("expected no ttl")
	}
}

func TestRefresher(t *testing.T) {
	refresh := Refresher(&mockAPI{refresh: func() (*Response, error) { return coded("REFRESH_INVALID") }})
	if err := refresh(context.Background()); err == nil {
		t.Error("expected rejected refresh to fail")
	}
	if err := Refresher(&mockAPI{})(context.Background()); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
