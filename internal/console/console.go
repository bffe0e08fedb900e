// Package console is the command-line shell over the session and catalog
// services. Each command mounts the screen the session selects and renders
// what the API returns.
package console

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/mehmetcc/moviedesk/internal/catalog"
	"github.com/mehmetcc/moviedesk/internal/httpx"
	"github.com/mehmetcc/moviedesk/internal/session"
	"go.uber.org/zap"
)

var (
	errUsage          = errors.New("usage")
	errNotLoggedIn    = errors.New("Not logged in. Run \"moviedesk login\" first.")
	errAdminOnly      = errors.New("This screen is for admins. You are signed in as a consumer.")
	errUnknownCommand = errors.New("unknown command")
)

type Deps struct {
	Session   *session.Controller
	Movies    catalog.MovieService
	Directors catalog.DirectorService
	Genres    catalog.GenreService
	Ratings   catalog.RatingService
}

type Console struct {
	deps   Deps
	out    io.Writer
	errOut io.Writer
	logger *zap.Logger
}

type command struct {
	summary string
	run     func(c *Console, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":    {"sign in and store the credential", (*Console).login},
		"register": {"create an account", (*Console).register},
		"logout":   {"forget the stored credential", (*Console).logout},
		"whoami":   {"show the current screen and role", (*Console).whoami},
		"movies":   {"browse movies (-q term, -sort name-asc|name-desc|date-desc|date-asc)", (*Console).movies},
		"rate":     {"rate a movie from 1 to 5", (*Console).rate},
		"movie":    {"admin: list|add|update|delete movies", (*Console).movie},
		"director": {"admin: list|add|update|delete directors", (*Console).director},
		"genre":    {"admin: list|add|update|delete genres", (*Console).genre},
	}
}

func New(deps Deps, out, errOut io.Writer, logger *zap.Logger) *Console {
	return &Console{
		deps:   deps,
		out:    out,
		errOut: errOut,
		logger: logger,
	}
}

// Run executes one command and returns the process exit code.
func (c *Console) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		c.usage(c.out)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(c.errOut, "%s: %q\n", errUnknownCommand, args[0])
		c.usage(c.errOut)
		return 2
	}

	err := cmd.run(c, ctx, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(c.errOut, err)
		return 2
	default:
		c.logger.Debug("command failed",
			zap.String("command", args[0]),
			zap.String("code", string(httpx.Code(err))),
			zap.Error(err),
		)
		fmt.Fprintln(c.errOut, "Error:", httpx.Message(err, "Request failed"))
		return 1
	}
}

func (c *Console) usage(w io.Writer) {
	fmt.Fprintln(w, "usage: moviedesk <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
}

func (c *Console) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// requireScreen fails unless the session mounts one of screens.
func (c *Console) requireScreen(screens ...session.Screen) error {
	current := c.deps.Session.Screen()
	for _, s := range screens {
		if current == s {
			return nil
		}
	}
	if !current.Authenticated() {
		return errNotLoggedIn
	}
	return errAdminOnly
}
