package browse

import (
	"testing"
	"time"

	"github.com/mehmetcc/moviedesk/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *catalog.Date {
	v := catalog.NewDate(y, m, d)
	return &v
}

func names(ms []catalog.Movie) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

func fixtures() []catalog.Movie {
	return []catalog.Movie{
		{ID: 1, Name: "memento", ReleaseDate: date(2000, time.September, 5)},
		{ID: 2, Name: "Inception", ReleaseDate: date(2010, time.July, 16)},
		{ID: 3, Name: "Dunkirk"},
		{ID: 4, Name: "Interstellar", ReleaseDate: date(2014, time.November, 7)},
	}
}

func TestQuery_Sort(t *testing.T) {
	tests := []struct {
		sort Sort
		want []string
	}{
		{sort: "", want: []string{"Dunkirk", "Inception", "Interstellar", "memento"}},
		{sort: NameAsc, want: []string{"Dunkirk", "Inception", "Interstellar", "memento"}},
		{sort: NameDesc, want: []string{"memento", "Interstellar", "Inception", "Dunkirk"}},
		{sort: DateDesc, want: []string{"Interstellar", "Inception", "memento", "Dunkirk"}},
		{sort: DateAsc, want: []string{"Dunkirk", "memento", "Inception", "Interstellar"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			in := fixtures()
			got := Query{Sort: tt.sort}.Apply(in)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, fixtures(), in, "input must not be reordered")
		})
	}
}

func TestQuery_Filter(t *testing.T) {
	got := Query{Term: "  INTER "}.Apply(fixtures())
	assert.Equal(t, []string{"Interstellar"}, names(got))

	got = Query{Term: "e", Sort: DateDesc}.Apply(fixtures())
	assert.Equal(t, []string{"Interstellar", "Inception", "memento"}, names(got))

	got = Query{Term: "zzz"}.Apply(fixtures())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Query{}.Apply(nil))
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, NameAsc, s)

	s, err = ParseSort("DATE-DESC")
	require.NoError(t, err)
	assert.Equal(t, DateDesc, s)

	_, err = ParseSort("rating")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Release: —", FormatRelease(nil))
	assert.Equal(t, "Release: —", FormatRelease(&catalog.Date{}))
	assert.Equal(t, "Release: 2010-07-16", FormatRelease(date(2010, time.July, 16)))

	money := func(v float64) *float64 { return &v }
	assert.Equal(t, "—", FormatMoney(nil))
	assert.Equal(t, "836,800,000", FormatMoney(money(836800000)))
	assert.Equal(t, "1,234.5", FormatMoney(money(1234.5)))
	assert.Equal(t, "1,234,567.89", FormatMoney(money(1234567.891)))

	id := int64(2)
	assert.Equal(t, "-", FormatDirector(nil))
	assert.Equal(t, "2", FormatDirector(&id))

	assert.Equal(t, "Untitled", DisplayName(catalog.Movie{}))
	assert.Equal(t, "X", DisplayName(catalog.Movie{Name: "X"}))
}
