package naming

import (
	"log/slog"
	"regexp"
	"strings"
)

// seasonCard matches card titles such as "Show Season 2", "Show Season2" or
// "Show Seasons 1-3". The title group is lazy so that the first "Season" word
// wins, which keeps NormalizeSeriesName idempotent.
var seasonCard = regexp.MustCompile(`(?i)^(.+?)\s+Seasons?(?:\d|\b)`)

// NormalizeSeriesName strips a trailing "Season ..." suffix from a card
// title. Titles without such a suffix are returned unchanged.
func NormalizeSeriesName(raw string) string {
	m := seasonCard.FindStringSubmatch(raw)
	if m == nil {
		slog.Debug("no season suffix in title, keeping original", slog.String("title", raw))
		return raw
	}

	name := strings.TrimSpace(m[1])
	if name == "" {
		return raw
	}
	return name
}
