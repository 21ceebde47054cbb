package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

// The backend requires the trailing slashes.
const (
	loginPath    = "/auth/login/"
	registerPath = "/auth/register/"
	verifyPath   = "/auth/verify-code/"
	resendPath   = "/auth/resend-code/"
	refreshPath  = "/auth/refresh/"
	validatePath = "/auth/validate-token/"
	logoutPath   = "/auth/logout/"
)

type httpAPI struct {
	client *apiclient.Client
}

func NewHTTPAPI(client *apiclient.Client) API {
	return &httpAPI{client: client}
}

// call issues the request and decodes the envelope. A 4xx whose body carries
// an error_code is a business outcome and comes back as the envelope; any
// other failure is returned as the error.
func (a *httpAPI) call(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	var resp Response
	err := a.client.Request(ctx, method, endpoint, body, &resp)
	if err == nil {
		return &resp, nil
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status < 400 || apiErr.Status > 499 || apiErr.ErrorCode() == "" {
		return nil, err
	}
	raw, merr := json.Marshal(apiErr.Body)
	if merr != nil {
		return nil, err
	}
	var env Response
	if uerr := json.Unmarshal(raw, &env); uerr != nil {
		return nil, fmt.Errorf("decode %s error body: %w", endpoint, uerr)
	}
	return &env, nil
}

func (a *httpAPI) Login(ctx context.Context, dto LoginDTO) (*Response, error) {
	return a.call(ctx, http.MethodPost, loginPath, dto)
}

func (a *httpAPI) Register(ctx context.Context, dto RegisterDTO) (*Response, error) {
	return a.call(ctx, http.MethodPost, registerPath, dto)
}

func (a *httpAPI) VerifyCode(ctx context.Context, dto VerifyCodeDTO) (*Response, error) {
	return a.call(ctx, http.MethodPost, verifyPath, dto)
}

func (a *httpAPI) ResendCode(ctx context.Context) (*Response, error) {
	return a.call(ctx, http.MethodPost, resendPath, struct{}{})
}

func (a *httpAPI) Refresh(ctx context.Context) (*Response, error) {
	return a.call(ctx, http.MethodPost, refreshPath, struct{}{})
}

func (a *httpAPI) ValidateToken(ctx context.Context) (*Response, error) {
	return a.call(ctx, http.MethodGet, validatePath, nil)
}

func (a *httpAPI) Logout(ctx context.Context) (*Response, error) {
	return a.call(ctx, http.MethodPost, logoutPath, struct{}{})
}

// Refresher adapts api to the session refresh middleware. A refresh answered
// with an error_code counts as a failure.
func Refresher(api API) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := api.Refresh(ctx)
		if err != nil {
			return err
		}
		if resp.ErrorCode != "" {
			return fmt.Errorf("refresh rejected: %s", resp.ErrorCode)
		}
		return nil
	}
}
