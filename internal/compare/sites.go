package compare

import "strings"

// categorySites maps a lot category to the domains the researcher is allowed
// to draw comparables from.
var categorySites = map[string][]string{
	"watches": {"chrono24.com", "watchcharts.com"},
	"wine":    {"winesearcher.com", "winemarketplace.fr"},
	"coins":   {"ma-shops.com", "numisbids.com"},
	"stamps":  {"delcampe.net"},
}

// SitesForCategory returns the research domains for a category. Unknown or
// empty categories have none, which disables research for the lot.
func SitesForCategory(category string) []string {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return nil
	}
	return categorySites[key]
}
