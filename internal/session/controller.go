package session

import (
	"context"
	"sync"

	"github.com/mehmetcc/moviedesk/internal/auth"
	"github.com/mehmetcc/moviedesk/internal/token"
	"go.uber.org/zap"
)

// Controller owns the credential and decides which screen is shown. It is
// the token source handed to the API client.
type Controller struct {
	mu         sync.RWMutex
	store      token.Store
	auth       auth.AuthService
	logger     *zap.Logger
	credential string
	role       token.Role
	// mode picks between the two unauthenticated screens
	mode   Screen
	notice string
}

// NewController restores the persisted credential, if any.
func NewController(store token.Store, authService auth.AuthService, logger *zap.Logger) (*Controller, error) {
	c := &Controller{
		store:  store,
		auth:   authService,
		logger: logger,
		mode:   LoginScreen,
	}

	stored, err := store.Load()
	if err != nil {
		logger.Error("failed to load stored credential", zap.Error(err))
		return nil, err
	}
	c.setCredential(stored)
	return c, nil
}

// setCredential must be called with mu held for writing (or before c is shared).
func (c *Controller) setCredential(raw string) {
	clean := token.Normalize(raw)
	if clean == c.credential {
		return
	}
	c.credential = clean
	c.role = token.RoleNone
	if clean != "" {
		c.role = token.RoleFromToken(clean)
		c.logger.Debug("session role derived", zap.String("role", string(c.role)))
	}
}

// Token returns the normalized credential, or "".
func (c *Controller) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// Role is RoleNone whenever there is no credential.
func (c *Controller) Role() token.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.credential == "" {
		return token.RoleNone
	}
	return c.role
}

func (c *Controller) Screen() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.screen()
}

func (c *Controller) screen() Screen {
	switch {
	case c.credential == "":
		return c.mode
	case c.role.IsAdmin():
		return AdminScreen
	default:
		return ConsumerScreen
	}
}

func (c *Controller) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Summary{
		Screen:        c.screen(),
		Authenticated: c.credential != "",
		Notice:        c.notice,
	}
	if s.Authenticated {
		s.Role = c.role
	}
	return s
}

// Authenticate persists raw and switches to the screen its role selects.
func (c *Controller) Authenticate(raw string) (Screen, error) {
	clean := token.Normalize(raw)
	if clean == "" {
		return c.Screen(), token.ErrNoToken
	}
	if err := c.store.Save(clean); err != nil {
		c.logger.Error("failed to persist credential", zap.Error(err))
		return c.Screen(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCredential(clean)
	c.notice = ""
	return c.screen(), nil
}

func (c *Controller) Login(ctx context.Context, userName, password string) (Screen, error) {
	tok, err := c.auth.Login(ctx, userName, password)
	if err != nil {
		return c.Screen(), err
	}
	return c.Authenticate(tok)
}

// Register creates the account and stays on the register screen with a
// notice; the user logs in afterwards.
func (c *Controller) Register(ctx context.Context, f auth.RegisterForm) error {
	c.mu.Lock()
	c.notice = ""
	c.mu.Unlock()

	if err := c.auth.Register(ctx, f); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = registeredNotice
	return nil
}

// RegisterAndLogin registers and then logs in with the same credentials.
func (c *Controller) RegisterAndLogin(ctx context.Context, f auth.RegisterForm) (Screen, error) {
	if err := c.Register(ctx, f); err != nil {
		return c.Screen(), err
	}
	return c.Login(ctx, f.UserName, f.Password)
}

// GoRegister and GoLogin only switch between the unauthenticated screens.
func (c *Controller) GoRegister() Screen {
	return c.navigate(RegisterScreen)
}

func (c *Controller) GoLogin() Screen {
	return c.navigate(LoginScreen)
}

func (c *Controller) navigate(to Screen) Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.credential == "" {
		c.mode = to
		c.notice = ""
	}
	return c.screen()
}

// Logout forgets the credential in memory even if the store fails to clear.
func (c *Controller) Logout() error {
	err := c.store.Clear()
	if err != nil {
		c.logger.Error("failed to clear stored credential", zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCredential("")
	c.mode = LoginScreen
	c.notice = ""
	c.logger.Info("logged out")
	return err
}
