package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mehmetcc/moviedesk/internal/form"
	"github.com/mehmetcc/moviedesk/internal/httpx"
	"github.com/mehmetcc/moviedesk/internal/token"
	"go.uber.org/zap"
)

const (
	tokenPath    = "/api/Token"
	registerPath = "/api/auth/register"
)

type AuthService interface {
	// Login exchanges a username and password for a normalized credential.
	Login(ctx context.Context, userName, password string) (string, error)
	Register(ctx context.Context, f RegisterForm) error
}

type authService struct {
	client httpx.Client
	logger *zap.Logger
}

func NewAuthenticationService(client httpx.Client, logger *zap.Logger) AuthService {
	return &authService{
		client: client,
		logger: logger,
	}
}

func (a *authService) Login(ctx context.Context, userName, password string) (string, error) {
	// the password is checked trimmed but sent as typed
	if err := form.Validate(loginRequest{UserName: userName, Password: strings.TrimSpace(password)}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	raw, err := a.client.Fetch(ctx, tokenPath, &httpx.Request{
		Method: http.MethodPost,
		Body:   loginRequest{UserName: userName, Password: password},
	})
	if errors.Is(err, httpx.ErrDecode) {
		// a 2xx that is not JSON counts as an empty object
		raw, err = nil, nil
	}
	if err != nil {
		a.logger.Warn("login failed", zap.String("username", userName), zap.String("code", string(httpx.Code(err))))
		return "", httpx.WithFallback(err, "Login failed")
	}

	var resp loginResponse
	if raw != nil {
		if err := json.Unmarshal(raw, &resp); err != nil {
			a.logger.Debug("login response is not an object", zap.Error(err))
		}
	}
	clean := token.Normalize(resp.Token)
	if clean == "" {
		a.logger.Warn("login response carried no token", zap.String("username", userName))
		return "", ErrMissingToken
	}

	a.logger.Info("logged in", zap.String("username", userName))
	return clean, nil
}

func (a *authService) Register(ctx context.Context, f RegisterForm) error {
	if err := form.Validate(f); err != nil {
		return err
	}

	_, err := a.client.Fetch(ctx, registerPath, &httpx.Request{
		Method: http.MethodPost,
		Body:   f,
	})
	if err != nil {
		a.logger.Warn("failed to register user", zap.String("username", f.UserName), zap.Error(err))
		return httpx.WithFallback(err, "Register failed")
	}

	a.logger.Info("account created", zap.String("username", f.UserName))
	return nil
}
