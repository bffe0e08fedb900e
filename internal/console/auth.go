package console

import (
	"context"
	"fmt"

	"github.com/mehmetcc/moviedesk/internal/auth"
	"github.com/mehmetcc/moviedesk/internal/session"
)

func (c *Console) login(ctx context.Context, args []string) error {
	fs := c.flags("login")
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.deps.Session.GoLogin()
	screen, err := c.deps.Session.Login(ctx, *user, *pass)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s.\n", *user)
	return c.mount(ctx, screen)
}

func (c *Console) register(ctx context.Context, args []string) error {
	fs := c.flags("register")
	var f auth.RegisterForm
	fs.StringVar(&f.UserName, "u", "", "username")
	fs.StringVar(&f.Password, "p", "", "password")
	fs.StringVar(&f.FirstName, "first", "", "first name")
	fs.StringVar(&f.LastName, "last", "", "last name")
	fs.StringVar(&f.BirthDate, "birth", "", "birth date (YYYY-MM-DD)")
	fs.IntVar(&f.Gender, "gender", 0, "gender code")
	fs.StringVar(&f.Address, "address", "", "address")
	thenLogin := fs.Bool("login", false, "sign in right after registering")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if c.deps.Session.GoRegister() != session.RegisterScreen {
		fmt.Fprintln(c.out, "Already signed in; log out to register another account.")
		return nil
	}

	if *thenLogin {
		screen, err := c.deps.Session.RegisterAndLogin(ctx, f)
		if err != nil {
			return err
		}
		return c.mount(ctx, screen)
	}

	if err := c.deps.Session.Register(ctx, f); err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.deps.Session.Summary().Notice)
	return nil
}

func (c *Console) logout(ctx context.Context, args []string) error {
	if err := c.deps.Session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func (c *Console) whoami(ctx context.Context, args []string) error {
	sum := c.deps.Session.Summary()
	if !sum.Authenticated {
		fmt.Fprintln(c.out, "Not logged in.")
		return nil
	}
	role := string(sum.Role)
	if role == "" {
		role = "(none)"
	}
	fmt.Fprintf(c.out, "Screen: %s\nRole: %s\n", sum.Screen, role)
	return nil
}

// mount renders the landing view of screen.
func (c *Console) mount(ctx context.Context, screen session.Screen) error {
	switch screen {
	case session.AdminScreen:
		return c.renderAdminMovies(ctx)
	case session.ConsumerScreen:
		return c.renderMovies(ctx, defaultQuery())
	}
	return nil
}
