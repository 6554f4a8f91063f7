// Package naming derives canonical filenames for uploaded media.
// It turns a raw upload name such as "[Group] Show III - 05 [1080p].mkv" into
// "Show - S3E5.mkv" and normalizes card titles like "Show Season 2" into "Show".
// All functions are pure; "cannot determine" is reported as a skip, never as an error.
package naming

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Container is the extension every stored file gets, regardless of the
// extension of the uploaded source.
const Container = "mkv"

// nonEpisodeMarkers identify extras that never map to an episode:
// creditless openings/endings, commentary tracks and OVAs.
var nonEpisodeMarkers = []string{"NCOP", "NCED", "OVA", "Commentary"}

// episodeMarker matches an optional season token (digits or an I/V roman
// numeral) with an optional " -", a separator, and the episode digits.
// The trailing class stands in for "digits not followed by x" so that
// resolution tokens such as 1920x1080 are not read as episode numbers.
var episodeMarker = regexp.MustCompile(`(?i)(\d+|[iv]+)?(?: -)?(?:[e _x\[]|^)(\d+)(?:[^\dx]|$)`)

// resolutionToken matches frame sizes such as 1920x1080 or 720x480. They are
// blanked out before scanning, otherwise the season group and the "x"
// separator read them as S1920E1080.
var resolutionToken = regexp.MustCompile(`(?i)\d{3,4}x\d{3,4}`)

// SeasonSource records which parse attempt produced a season number.
type SeasonSource int

const (
	// SeasonFromHint means no usable season token was found in the filename.
	SeasonFromHint SeasonSource = iota
	// SeasonFromDigits means the season token was a decimal number.
	SeasonFromDigits
	// SeasonFromRoman means the season token was a roman numeral.
	SeasonFromRoman
)

// String returns the source name used in logs.
func (s SeasonSource) String() string {
	switch s {
	case SeasonFromDigits:
		return "digits"
	case SeasonFromRoman:
		return "roman"
	default:
		return "hint"
	}
}

// ResolvedName is the naming result for a single episode file.
type ResolvedName struct {
	// Filename is the final basename, including the extension.
	Filename string
	// Season is the season the file was filed under.
	Season int
	// Episode is the episode number, always greater than zero.
	Episode int
	// SeasonSource tells whether Season came from the filename or the hint.
	SeasonSource SeasonSource
}

// ResolveEpisodeName derives an episode filename from a series name, the raw
// uploaded filename and the season the caller currently expects.
//
// The boolean is false when the upload should be skipped: the file is a
// recognized extra, no episode marker was found, or the episode number is
// zero or unparsable. Only the first episode marker in raw is considered.
func ResolveEpisodeName(series, raw string, seasonHint int) (ResolvedName, bool) {
	for _, marker := range nonEpisodeMarkers {
		if strings.Contains(raw, marker) {
			slog.Debug("skipping non-episode file",
				slog.String("filename", raw),
				slog.String("marker", marker),
			)
			return ResolvedName{}, false
		}
	}

	m := episodeMarker.FindStringSubmatch(maskResolutions(raw))
	if m == nil {
		return ResolvedName{}, false
	}

	season, source := parseSeason(m[1], seasonHint)

	episode, err := strconv.Atoi(m[2])
	if err != nil || episode <= 0 {
		slog.Debug("unable to determine episode number",
			slog.String("filename", raw),
			slog.String("token", m[2]),
		)
		return ResolvedName{}, false
	}

	return ResolvedName{
		Filename:     EpisodeFilename(series, season, episode),
		Season:       season,
		Episode:      episode,
		SeasonSource: source,
	}, true
}

// EpisodeFilename formats the stored filename for an episode. Season and
// episode are rendered without zero padding.
func EpisodeFilename(series string, season, episode int) string {
	return fmt.Sprintf("%s - S%dE%d.%s", series, season, episode, Container)
}

// MovieFilename formats the stored filename for a movie.
func MovieFilename(title string) string {
	return title + "." + Container
}

// maskResolutions replaces every resolution token in raw with '#' so that it
// can neither start nor end an episode marker.
func maskResolutions(raw string) string {
	return resolutionToken.ReplaceAllStringFunc(raw, func(tok string) string {
		return strings.Repeat("#", len(tok))
	})
}

// parseSeason tries, in order, a decimal parse and a roman numeral parse of
// token, falling back to hint when the token is absent or neither applies.
func parseSeason(token string, hint int) (int, SeasonSource) {
	if token == "" {
		return hint, SeasonFromHint
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n, SeasonFromDigits
	}
	if n, ok := ParseRoman(token); ok {
		return n, SeasonFromRoman
	}
	slog.Debug("failed to parse season token, using hint",
		slog.String("token", token),
		slog.Int("season", hint),
	)
	return hint, SeasonFromHint
}
