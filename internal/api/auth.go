package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notegenius/notegenius/internal/errs"
	"github.com/notegenius/notegenius/internal/model"
)

// MaxAvatarSize is the client-side cap on avatar uploads.
const MaxAvatarSize = 2 << 20

// authResponse is the login/signup payload.
type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates with email/password and returns the issued credential
// and user. The credential is not installed on the client; the session owns that.
func (c *Client) Login(ctx context.Context, email, password string) (model.Tokens, model.User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return tokensFrom(resp.Token), resp.User, nil
}

// Signup registers a new account. A duplicate email maps to ErrAlreadyExists.
func (c *Client) Signup(ctx context.Context, name, email, password string) (model.Tokens, model.User, error) {
	var resp authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, body, &resp); err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return tokensFrom(resp.Token), resp.User, nil
}

// Me returns the user owning the current credential. 401 means the credential
// is invalid or expired.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UploadAvatar sends an image as multipart form data and returns the stored
// avatar URL. Non-image content and files over MaxAvatarSize are rejected
// before anything goes on the wire.
func (c *Client) UploadAvatar(ctx context.Context, filename, contentType string, content []byte) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: avatar must be an image, got %q", errs.ErrValidation, contentType)
	}
	if len(content) > MaxAvatarSize {
		return "", fmt.Errorf("%w: avatar exceeds %d bytes", errs.ErrValidation, MaxAvatarSize)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/upload-avatar", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: upload avatar: %v", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", errs.ErrNetwork, err)
	}
	if resp.StatusCode >= 400 {
		return "", c.mapStatus(resp.StatusCode, respBody)
	}

	var out struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := unmarshalResponse(respBody, &out); err != nil {
		return "", err
	}
	return out.AvatarURL, nil
}

// tokensFrom extracts expiry from the JWT's registered claims without
// verifying the signature; verification is the server's job. A token with no
// exp claim is given a conservative short lifetime.
func tokensFrom(tok string) model.Tokens {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	exp := time.Now().Add(15 * time.Minute)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return model.Tokens{AccessToken: tok, ExpiresAt: exp}
}
