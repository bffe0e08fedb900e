package console

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mehmetcc/moviedesk/internal/browse"
	"github.com/mehmetcc/moviedesk/internal/session"
)

const emptyState = "No movies found."

func defaultQuery() browse.Query {
	return browse.Query{Sort: browse.NameAsc}
}

func (c *Console) movies(ctx context.Context, args []string) error {
	fs := c.flags("movies")
	term := fs.String("q", "", "filter by name")
	sortBy := fs.String("sort", string(browse.NameAsc), "name-asc|name-desc|date-desc|date-asc")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := browse.ParseSort(*sortBy)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if err := c.requireScreen(session.ConsumerScreen, session.AdminScreen); err != nil {
		return err
	}
	return c.renderMovies(ctx, browse.Query{Term: *term, Sort: s})
}

// renderMovies is the consumer movie list.
func (c *Console) renderMovies(ctx context.Context, q browse.Query) error {
	list, err := c.deps.Movies.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Movie List")
	shown := q.Apply(list)
	if len(shown) == 0 {
		fmt.Fprintln(c.out, emptyState)
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRELEASE\tDIRECTOR\tREVENUE")
	for _, m := range shown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			browse.DisplayName(m),
			browse.FormatRelease(m.ReleaseDate),
			browse.FormatDirector(m.DirectorID),
			browse.FormatMoney(m.TotalRevenue),
		)
	}
	return tw.Flush()
}

func (c *Console) rate(ctx context.Context, args []string) error {
	fs := c.flags("rate")
	id := fs.Int64("id", 0, "movie id")
	score := fs.Int("score", 0, "rating from 1 to 5")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.requireScreen(session.ConsumerScreen, session.AdminScreen); err != nil {
		return err
	}

	if err := c.deps.Ratings.Rate(ctx, *id, *score); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Rated movie %d with %d.\n", *id, *score)
	return nil
}
