package catalog

import (
	"strconv"
	"strings"

	"github.com/alicanaksel/Cineseek/pkg/models"
)

// posterNA is OMDb's "no poster available" sentinel. Every shape in
// this package surfaces it as an absent poster, never as the literal.
const posterNA = "N/A"

// hasPoster reports whether an upstream poster value is a usable image
// URL rather than absent or the sentinel.
func hasPoster(p string) bool {
	return p != "" && p != posterNA
}

func cleanPoster(p string) *string {
	if !hasPoster(p) {
		return nil
	}
	return &p
}

func shapeItem(it models.SearchItem) models.Item {
	return models.Item{
		Title:  it.Title,
		Year:   it.Year,
		Type:   it.Type,
		ID:     it.ImdbID,
		Poster: cleanPoster(it.Poster),
	}
}

func shapeItems(raw []models.SearchItem) []models.Item {
	items := make([]models.Item, 0, len(raw))
	for _, it := range raw {
		items = append(items, shapeItem(it))
	}
	return items
}

// passFilter applies the post-fetch search filters. An unparseable year
// silently skips the year-range checks.
func passFilter(it models.SearchItem, f Filter) bool {
	if f.Type != "" && it.Type != f.Type {
		return false
	}
	if f.YearMin == 0 && f.YearMax == 0 {
		return true
	}
	y, ok := firstYear(it.Year)
	if !ok {
		return true
	}
	if f.YearMin != 0 && y < f.YearMin {
		return false
	}
	if f.YearMax != 0 && y > f.YearMax {
		return false
	}
	return true
}

// firstYear parses the leading year of a possibly-dashed range.
// OMDb emits an en dash ("2012–2014"); a plain hyphen is accepted too.
func firstYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if cut := strings.IndexAny(s, "–-"); cut >= 0 {
		s = s[:cut]
	}
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return y, true
}
