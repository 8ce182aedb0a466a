package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"mealtrack/cli/internal/apperrors"
)

// LoginResult is the body of a successful login. The account record is kept
// as raw JSON: the session layer persists it byte-for-byte and display code
// decodes only the fields it needs.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        json.RawMessage `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials to /auth/login and returns the issued token with
// the account record. Rejected credentials surface the server's detail
// message ("Incorrect email or password"); transport failures come back as
// network errors. No validation happens client-side.
func (h *HTTP) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req, err := h.newRequest(ctx, http.MethodPost, h.paths.Login, "", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResult
	if err := h.do(req, &out, "Login failed"); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || len(out.User) == 0 {
		return nil, apperrors.New(apperrors.Network, "malformed login response from server")
	}
	return &out, nil
}

// Register posts the new account to /auth/register. The service answers with
// the created account record, but no token; the body is discarded and the
// caller signs in with a regular Login.
func (h *HTTP) Register(ctx context.Context, fullName, email, password string) error {
	req, err := h.newRequest(ctx, http.MethodPost, h.paths.Register, "", registerRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	return h.do(req, nil, "Registration failed")
}
