package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEpisodeName(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		hint        int
		wantSeason  int
		wantEpisode int
		wantSource  SeasonSource
	}{
		{"dash episode uses hint", "Show - 05.mkv", 1, 1, 5, SeasonFromHint},
		{"dash episode keeps larger hint", "Show - 05.mkv", 3, 3, 5, SeasonFromHint},
		{"sxxexx", "Show S01E12.mkv", 1, 1, 12, SeasonFromDigits},
		{"leading zeros ignored", "Show - 007.mkv", 1, 1, 7, SeasonFromHint},
		{"group tag and resolution", "[Group] Show - 07 [1920x1080].mkv", 1, 1, 7, SeasonFromHint},
		{"resolution before episode", "[Group] Show [1920x1080] - 05.mkv", 1, 1, 5, SeasonFromHint},
		{"upper case resolution before episode", "Show 1280X720 E03.mkv", 2, 2, 3, SeasonFromHint},
		{"episode followed by x is not an episode", "Show - 2x05.mkv", 1, 2, 5, SeasonFromDigits},
		{"start of string", "12.mkv", 4, 4, 12, SeasonFromHint},
		{"first match wins", "Show 03 - 04.mkv", 1, 1, 3, SeasonFromHint},
		{"roman numeral season", "Show III - 05.mkv", 1, 3, 5, SeasonFromRoman},
		{"lower case roman numeral", "Show ii 05.mkv", 1, 2, 5, SeasonFromRoman},
		{"non-canonical roman falls back to hint", "Show IIII 05.mkv", 2, 2, 5, SeasonFromHint},
		{"overflowing season falls back to hint", "Vol99999999999999999999 05.mkv", 2, 2, 5, SeasonFromHint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveEpisodeName("Show", tt.raw, tt.hint)
			require.True(t, ok, "expected %q to resolve", tt.raw)
			assert.Equal(t, tt.wantSeason, got.Season)
			assert.Equal(t, tt.wantEpisode, got.Episode)
			assert.Equal(t, tt.wantSource, got.SeasonSource)
			assert.Equal(t, EpisodeFilename("Show", tt.wantSeason, tt.wantEpisode), got.Filename)
		})
	}
}

func TestResolveEpisodeName_SeparatorsAgree(t *testing.T) {
	separators := []string{"E", "e", "_", " ", "x", "X", "["}

	for _, sep := range separators {
		t.Run(sep, func(t *testing.T) {
			got, ok := ResolveEpisodeName("Show", "Show S2"+sep+"05.mkv", 1)
			require.True(t, ok)
			assert.Equal(t, 2, got.Season)
			assert.Equal(t, 5, got.Episode)
			assert.Equal(t, "Show - S2E5.mkv", got.Filename)
		})
	}
}

func TestResolveEpisodeName_Skips(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"creditless opening", "Show - NCOP 01.mkv"},
		{"creditless ending", "Show NCED2 - 03.mkv"},
		{"ova", "Show OVA - 01.mkv"},
		{"commentary", "Show - 05 Commentary.mkv"},
		{"no episode marker", "Show.mkv"},
		{"resolution only", "Show 1920x1080.mkv"},
		{"episode zero", "Show - 00.mkv"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveEpisodeName("Show", tt.raw, 1)
			assert.False(t, ok)
			assert.Empty(t, got.Filename)
		})
	}
}

func TestEpisodeFilename(t *testing.T) {
	assert.Equal(t, "My Show - S1E5.mkv", EpisodeFilename("My Show", 1, 5))
	assert.Equal(t, "My Show - S10E105.mkv", EpisodeFilename("My Show", 10, 105))
}

func TestMovieFilename(t *testing.T) {
	assert.Equal(t, "Spirited Away.mkv", MovieFilename("Spirited Away"))
}

func TestSeasonSource_String(t *testing.T) {
	assert.Equal(t, "hint", SeasonFromHint.String())
	assert.Equal(t, "digits", SeasonFromDigits.String())
	assert.Equal(t, "roman", SeasonFromRoman.String())
}
