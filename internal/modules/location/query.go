package location

import (
	"sort"
	"strings"

	"github.com/ecoexplorer/core/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort orders accepted by Query.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
)

// Query selects a page of the projection.
type Query struct {
	Search string
	Tag    string
	Sort   string
	Page   int
	Size   int
}

// NormalizeSort maps unknown or empty values to SortNewest.
func NormalizeSort(raw string) string {
	switch s := strings.ToLower(strings.TrimSpace(raw)); s {
	case SortOldest, SortNameAsc, SortNameDesc:
		return s
	case "asc", "name-asc", "a-z":
		return SortNameAsc
	case "desc", "name-desc", "z-a":
		return SortNameDesc
	default:
		return SortNewest
	}
}

// Filter keeps records matching every whitespace-separated search token
// (in name, description, tags or credit) and containing tag in their tags.
// Matching is case-insensitive.
func Filter(items []models.Location, search, tag string) []models.Location {
	tokens := strings.Fields(strings.ToLower(search))
	tag = strings.ToLower(strings.TrimSpace(tag))

	out := make([]models.Location, 0, len(items))
	for _, loc := range items {
		if tag != "" && !strings.Contains(strings.ToLower(loc.Tags), tag) {
			continue
		}
		if matchesAll(loc, tokens) {
			out = append(out, loc)
		}
	}
	return out
}

func matchesAll(loc models.Location, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	fields := [...]string{
		strings.ToLower(loc.LocationName),
		strings.ToLower(loc.Description),
		strings.ToLower(loc.Tags),
		strings.ToLower(loc.Credit),
	}
	for _, tok := range tokens {
		found := false
		for _, f := range fields {
			if strings.Contains(f, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Sort orders items in place. Names compare with English collation;
// records without createdAt count as the oldest. Ties keep input order.
func Sort(items []models.Location, order string) {
	switch NormalizeSort(order) {
	case SortNameAsc, SortNameDesc:
		desc := NormalizeSort(order) == SortNameDesc
		// collators are not safe for concurrent use
		col := collate.New(language.English)
		sort.SliceStable(items, func(i, j int) bool {
			c := col.CompareString(items[i].LocationName, items[j].LocationName)
			if desc {
				return c > 0
			}
			return c < 0
		})
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool { return createdBefore(items[i], items[j]) })
	default:
		sort.SliceStable(items, func(i, j int) bool { return createdBefore(items[j], items[i]) })
	}
}

func createdBefore(a, b models.Location) bool {
	switch {
	case a.CreatedAt == nil:
		return b.CreatedAt != nil
	case b.CreatedAt == nil:
		return false
	default:
		return a.CreatedAt.Before(*b.CreatedAt)
	}
}

// related ranks candidates sharing base's district ahead of those sharing
// any of its tags, excluding base itself.
func related(base models.Location, candidates []models.Location, limit int) []models.Location {
	if limit <= 0 {
		limit = 4
	}
	seen := map[string]struct{}{base.ID: {}}
	out := make([]models.Location, 0, limit)
	add := func(loc models.Location) bool {
		if _, dup := seen[loc.ID]; dup {
			return len(out) < limit
		}
		seen[loc.ID] = struct{}{}
		out = append(out, loc)
		return len(out) < limit
	}

	district := strings.TrimSpace(base.District)
	if district != "" {
		for _, loc := range candidates {
			if strings.EqualFold(strings.TrimSpace(loc.District), district) && !add(loc) {
				return out
			}
		}
	}

	tags := base.TagList()
	for i := range tags {
		tags[i] = strings.ToLower(tags[i])
	}
	if len(tags) == 0 {
		return out
	}
	for _, loc := range candidates {
		lower := strings.ToLower(loc.Tags)
		if lower == "" {
			continue
		}
		for _, t := range tags {
			if strings.Contains(lower, t) {
				if !add(loc) {
					return out
				}
				break
			}
		}
	}
	return out
}
