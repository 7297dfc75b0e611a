package directory

import (
	"strings"

	"github.com/okian/campnav/internal/domain/model"
)

// FilterClubs keeps clubs in category, or all of them for AllCategories,
// whose name contains search case-insensitively. search is used as typed,
// spaces included. Category matching is exact. Order is preserved.
func FilterClubs(clubs []model.Club, category, search string) []model.Club {
	search = strings.ToLower(search)
	out := make([]model.Club, 0, len(clubs))
	for _, c := range clubs {
		if !inCategory(c.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterEvents keeps events in category, or all of them for AllCategories.
// Order is preserved.
func FilterEvents(events []model.Event, category string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if inCategory(e.Category, category) {
			out = append(out, e)
		}
	}
	return out
}

func inCategory(have, want string) bool {
	return want == AllCategories || have == want
}

// slug turns a display name into a stable id.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
