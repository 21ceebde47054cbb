package auth

import "context"

// API is the backend's authentication surface. Identity lives in the
// cookies the backend sets; callers only see the envelopes.
type API interface {
	Login(ctx context.Context, dto LoginDTO) (*Response, error)
	Register(ctx context.Context, dto RegisterDTO) (*Response, error)
	VerifyCode(ctx context.Context, dto VerifyCodeDTO) (*Response, error)
	ResendCode(ctx context.Context) (*Response, error)
	Refresh(ctx context.Context) (*Response, error)
	ValidateToken(ctx context.Context) (*Response, error)
	Logout(ctx context.Context) (*Response, error)
}
