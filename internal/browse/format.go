package browse

import (
	"strconv"

	"github.com/mehmetcc/moviedesk/internal/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	placeholder = "—"
	untitled    = "Untitled"
)

func DisplayName(m catalog.Movie) string {
	if m.Name == "" {
		return untitled
	}
	return m.Name
}

func FormatRelease(d *catalog.Date) string {
	if d == nil || d.IsZero() {
		return "Release: " + placeholder
	}
	return "Release: " + d.String()
}

// FormatMoney groups thousands and keeps at most two fraction digits.
func FormatMoney(v *float64) string {
	if v == nil {
		return placeholder
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(*v, number.MaxFractionDigits(2)))
}

func FormatDirector(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
