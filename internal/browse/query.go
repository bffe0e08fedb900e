// Package browse shapes a movie list for the consumer screen.
package browse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mehmetcc/moviedesk/internal/catalog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Sort string

const (
	NameAsc  Sort = "name-asc"
	NameDesc Sort = "name-desc"
	DateDesc Sort = "date-desc"
	DateAsc  Sort = "date-asc"
)

var sorts = []Sort{NameAsc, NameDesc, DateDesc, DateAsc}

// ParseSort accepts the sort names above; "" means NameAsc.
func ParseSort(s string) (Sort, error) {
	if s == "" {
		return NameAsc, nil
	}
	for _, known := range sorts {
		if Sort(strings.ToLower(s)) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want one of %v)", s, sorts)
}

type Query struct {
	Term string
	Sort Sort
	Lang language.Tag
}

// Apply filters movies by name and orders them. movies is not modified.
func (q Query) Apply(movies []catalog.Movie) []catalog.Movie {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	out := make([]catalog.Movie, 0, len(movies))
	for _, m := range movies {
		if term == "" || strings.Contains(strings.ToLower(m.Name), term) {
			out = append(out, m)
		}
	}

	lang := q.Lang
	if lang.IsRoot() {
		lang = language.English
	}
	// collators are not safe for concurrent use; build one per call
	col := collate.New(lang, collate.IgnoreCase)

	byName := func(a, b catalog.Movie) int {
		return col.CompareString(a.Name, b.Name)
	}
	byDate := func(a, b catalog.Movie) int {
		da, db := releaseUnix(a), releaseUnix(b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	}

	var less func(i, j int) bool
	switch q.Sort {
	case NameDesc:
		less = func(i, j int) bool { return byName(out[j], out[i]) < 0 }
	case DateDesc:
		less = func(i, j int) bool { return byDate(out[j], out[i]) < 0 }
	case DateAsc:
		less = func(i, j int) bool { return byDate(out[i], out[j]) < 0 }
	default:
		less = func(i, j int) bool { return byName(out[i], out[j]) < 0 }
	}
	sort.SliceStable(out, less)
	return out
}

// missing dates count as the epoch
func releaseUnix(m catalog.Movie) int64 {
	if m.ReleaseDate == nil || m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Unix()
}
