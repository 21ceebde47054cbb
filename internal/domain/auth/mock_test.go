package auth

import (
	"context"
	"encoding/json"
)

// -- Mock API --

type mockAPI struct {
	login    func(LoginDTO) (*Response, error)
	register func(RegisterDTO) (*Response, error)
	verify   func(VerifyCodeDTO) (*Response, error)
	resend   func() (*Response, error)
	refresh  func() (*Response, error)
	validate func() (*Response, error)

	registered []RegisterDTO
	verified   []string
	loggedOut  int
}

func accepted() (*Response, error) { return &Response{Message: "ok"}, nil }

func coded(code string) (*Response, error) { return &Response{ErrorCode: code}, nil }

func expiring(seconds int) *Response {
	return &Response{Data: json.RawMessage(`{"expires_in_seconds":` + itoa(seconds) + `}`)}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func (m *mockAPI) Login(_ context.Context, dto LoginDTO) (*Response, error) {
	if m.login == nil {
		return accepted()
	}
	return m.login(dto)
}

func (m *mockAPI) Register(_ context.Context, dto RegisterDTO) (*Response, error) {
	m.registered = append(m.registered, dto)
	if m.register == nil {
		return expiring(300), nil
	}
	return m.register(dto)
}

func (m *mockAPI) VerifyCode(_ context.Context, dto VerifyCodeDTO) (*Response, error) {
	m.verified = append(m.verified, dto.Code)
	if m.verify == nil {
		return accepted()
	}
	return m.verify(dto)
}

func (m *mockAPI) ResendCode(context.Context) (*Response, error) {
	if m.resend == nil {
		return expiring(300), nil
	}
	return m.resend()
}

func (m *mockAPI) Refresh(context.Context) (*Response, error) {
	if m.refresh == nil {
		return accepted()
	}
	return m.refresh()
}

func (m *mockAPI) ValidateToken(context.Context) (*Response, error) {
	if m.validate == nil {
		return coded("MISSING_COOKIES")
	}
	return m.validate()
}

func (m *mockAPI) Logout(context.Context) (*Response, error) {
	m.loggedOut++
	return accepted()
}
