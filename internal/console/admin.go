package console

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mehmetcc/moviedesk/internal/browse"
	"github.com/mehmetcc/moviedesk/internal/catalog"
	"github.com/mehmetcc/moviedesk/internal/session"
)

var errActions = errors.New("want one of: list, add, update, delete")

// action splits "movie add -name X" into "add" and its flags.
func (c *Console) action(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: %w", errUsage, errActions)
	}
	if err := c.requireScreen(session.AdminScreen); err != nil {
		return "", nil, err
	}
	return args[0], args[1:], nil
}

func (c *Console) movie(ctx context.Context, args []string) error {
	act, rest, err := c.action(args)
	if err != nil {
		return err
	}

	fs := c.flags("movie " + act)
	id := fs.Int64("id", 0, "movie id")
	name := fs.String("name", "", "name")
	release := fs.String("release", "", "release date (YYYY-MM-DD)")
	revenue := fs.Float64("revenue", 0, "total revenue")
	director := fs.Int64("director", 0, "director id")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var date *catalog.Date
	if *release != "" {
		d, err := catalog.ParseDate(*release)
		if err != nil {
			return fmt.Errorf("%w: -release: %w", errUsage, err)
		}
		date = &d
	}

	switch act {
	case "list":
		return c.renderAdminMovies(ctx)

	case "add":
		err = c.deps.Movies.Create(ctx, catalog.MovieForm{
			Name:         *name,
			ReleaseDate:  date,
			TotalRevenue: *revenue,
			DirectorID:   *director,
		})

	case "update":
		var f catalog.MovieForm
		f, err = c.pickMovie(ctx, *id)
		if err != nil {
			return err
		}
		set := visited(fs)
		if set["name"] {
			f.Name = *name
		}
		if set["release"] {
			f.ReleaseDate = date
		}
		if set["revenue"] {
			f.TotalRevenue = *revenue
		}
		if set["director"] {
			f.DirectorID = *director
		}
		err = c.deps.Movies.Update(ctx, f)

	case "delete":
		err = c.deps.Movies.Delete(ctx, *id)

	default:
		return fmt.Errorf("%w: %w", errUsage, errActions)
	}

	if err != nil {
		return err
	}
	return c.renderAdminMovies(ctx)
}

// pickMovie loads the listed movie id into a form, the way selecting a row
// fills the editor.
func (c *Console) pickMovie(ctx context.Context, id int64) (catalog.MovieForm, error) {
	if id == 0 {
		return catalog.MovieForm{}, &catalog.SelectionError{Noun: "movie"}
	}
	list, err := c.deps.Movies.List(ctx)
	if err != nil {
		return catalog.MovieForm{}, err
	}
	for _, m := range list {
		if m.ID == id {
			return catalog.FormFor(m), nil
		}
	}
	return catalog.MovieForm{}, fmt.Errorf("Movie %d not found.", id)
}

// renderAdminMovies is the admin movie list.
func (c *Console) renderAdminMovies(ctx context.Context) error {
	list, err := c.deps.Movies.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Movies")
	if len(list) == 0 {
		fmt.Fprintln(c.out, emptyState)
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDIRECTOR ID")
	for _, m := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", m.ID, browse.DisplayName(m), browse.FormatDirector(m.DirectorID))
	}
	return tw.Flush()
}

func (c *Console) director(ctx context.Context, args []string) error {
	svc := c.deps.Directors
	return c.named(ctx, "director", "Directors", args, namedOps{
		list: func(ctx context.Context) ([]named, error) {
			ds, err := svc.List(ctx)
			out := make([]named, 0, len(ds))
			for _, d := range ds {
				out = append(out, named{ID: d.ID, Name: d.Name})
			}
			return out, err
		},
		create: func(ctx context.Context, n named) error { return svc.Create(ctx, catalog.Director{Name: n.Name}) },
		update: func(ctx context.Context, n named) error {
			return svc.Update(ctx, catalog.Director{ID: n.ID, Name: n.Name})
		},
		remove: svc.Delete,
	})
}

func (c *Console) genre(ctx context.Context, args []string) error {
	svc := c.deps.Genres
	return c.named(ctx, "genre", "Genres", args, namedOps{
		list: func(ctx context.Context) ([]named, error) {
			gs, err := svc.List(ctx)
			out := make([]named, 0, len(gs))
			for _, g := range gs {
				out = append(out, named{ID: g.ID, Name: g.Name})
			}
			return out, err
		},
		create: func(ctx context.Context, n named) error { return svc.Create(ctx, catalog.Genre{Name: n.Name}) },
		update: func(ctx context.Context, n named) error {
			return svc.Update(ctx, catalog.Genre{ID: n.ID, Name: n.Name})
		},
		remove: svc.Delete,
	})
}

// named covers directors and genres, which only carry a name.
type named struct {
	ID   int64
	Name string
}

type namedOps struct {
	list   func(context.Context) ([]named, error)
	create func(context.Context, named) error
	update func(context.Context, named) error
	remove func(context.Context, int64) error
}

func (c *Console) named(ctx context.Context, noun, title string, args []string, ops namedOps) error {
	act, rest, err := c.action(args)
	if err != nil {
		return err
	}

	fs := c.flags(noun + " " + act)
	id := fs.Int64("id", 0, noun+" id")
	name := fs.String("name", "", "name")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch act {
	case "list":
	case "add":
		err = ops.create(ctx, named{Name: *name})
	case "update":
		err = ops.update(ctx, named{ID: *id, Name: *name})
	case "delete":
		err = ops.remove(ctx, *id)
	default:
		return fmt.Errorf("%w: %w", errUsage, errActions)
	}
	if err != nil {
		return err
	}

	items, err := ops.list(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, title)
	if len(items) == 0 {
		fmt.Fprintf(c.out, "No %s found.\n", strings.ToLower(title))
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\n", it.ID, it.Name)
	}
	return tw.Flush()
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
