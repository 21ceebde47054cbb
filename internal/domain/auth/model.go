package auth

import (
	"encoding/json"
)

// Response is the envelope returned by every /auth endpoint. Business
// failures arrive as an ErrorCode, sometimes with per-field Errors.
type Response struct {
	Message          string              `json:"message,omitempty"`
	DetailText       string              `json:"detail,omitempty"`
	Data             json.RawMessage     `json:"data,omitempty"`
	ErrorCode        string              `json:"error_code,omitempty"`
	Errors           map[string][]string `json:"errors,omitempty"`
	ExpiresInSeconds *int                `json:"expires_in_seconds,omitempty"`
}

// dataFields are the members the console reads from data.
type dataFields struct {
	Detail           string `json:"detail"`
	ExpiresInSeconds *int   `json:"expires_in_seconds"`
}

func (r *Response) data() dataFields {
	var d dataFields
	if len(r.Data) > 0 {
		_ = json.Unmarshal(r.Data, &d)
	}
	return d
}

// ExpiresIn returns expires_in_seconds from the top level, falling back to
// data.
func (r *Response) ExpiresIn() (int, bool) {
	if r.ExpiresInSeconds != nil {
		return *r.ExpiresInSeconds, true
	}
	if d := r.data(); d.ExpiresInSeconds != nil {
		return *d.ExpiresInSeconds, true
	}
	return 0, false
}

// Detail returns detail from the top level, falling back to data.
func (r *Response) Detail() string {
	if r.DetailText != "" {
		return r.DetailText
	}
	return r.data().Detail
}

// Authenticated is the detail the backend answers to a valid session.
const Authenticated = "Autenticado"

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyCodeDTO struct {
	Code string `json:"code"`
}
