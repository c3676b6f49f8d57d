package favorites

import (
	"regexp"
	"sort"
	"strings"

	"rhythmbox/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllArtists is the sentinel meaning "no artist restriction".
const AllArtists = "all"

// artistSeparators matches the connectives vendors use to join several
// artist names into one display string: comma, ampersand, and the words
// "feat", "ft" and "with" (optionally followed by a period).
var artistSeparators = regexp.MustCompile(`(?i)[,&]|\sfeat\.?\s|\sft\.?\s|\swith\s`)

var foldCaser = cases.Fold()

// Fold normalizes a string for matching: trimmed and case-folded.
func Fold(s string) string {
	return foldCaser.String(strings.TrimSpace(s))
}

// SplitArtists breaks an artist display string into individual normalized
// artist names. Empty fragments are dropped.
func SplitArtists(display string) []string {
	fragments := artistSeparators.Split(display, -1)
	names := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if name := Fold(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// newCollator builds the collator used to order artist names. Portuguese
// collation keeps accented names next to their unaccented spellings.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.Loose)
}

// ExtractArtists derives the deduplicated, normalized, locale-sorted set
// of artist names from a track list. Running it twice on the same input
// yields the same output.
func ExtractArtists(tracks []model.Track) []string {
	seen := make(map[string]struct{})
	for _, t := range tracks {
		for _, name := range SplitArtists(t.Artist) {
			seen[name] = struct{}{}
		}
	}

	artists := make([]string, 0, len(seen))
	for name := range seen {
		artists = append(artists, name)
	}

	col := newCollator()
	sort.Slice(artists, func(i, j int) bool {
		return col.CompareString(artists[i], artists[j]) < 0
	})
	return artists
}

// MatchesArtist reports whether a track passes the artist filter. The
// match is substring containment over the folded artist display string,
// so filtering for "silva" matches "Silva & Gil".
func MatchesArtist(t model.Track, artist string) bool {
	if artist == AllArtists || artist == "" {
		return true
	}
	return strings.Contains(Fold(t.Artist), Fold(artist))
}

// MatchesSearch reports whether a track passes the free-text search. An
// empty term matches everything; otherwise the folded name or artist must
// contain the folded term.
func MatchesSearch(t model.Track, term string) bool {
	term = Fold(term)
	if term == "" {
		return true
	}
	return strings.Contains(Fold(t.Name), term) || strings.Contains(Fold(t.Artist), term)
}

// Visible reports whether a track passes both active filters combined
// with logical AND.
func Visible(t model.Track, term, artist string) bool {
	return MatchesSearch(t, term) && MatchesArtist(t, artist)
}

// ArtistCounts counts, for every known artist, how many tracks' artist
// strings contain that artist name as a substring. When one artist's name
// is a substring of another's this over-counts; that is the documented
// behavior of the filter and kept as is.
func ArtistCounts(tracks []model.Track, artists []string) map[string]int {
	counts := make(map[string]int, len(artists))
	folded := make([]string, len(tracks))
	for i, t := range tracks {
		folded[i] = Fold(t.Artist)
	}
	for _, artist := range artists {
		for _, fa := range folded {
			if strings.Contains(fa, artist) {
				counts[artist]++
			}
		}
	}
	return counts
}

// SortTracks orders tracks in place by the given sort key using folded
// comparisons. SortDefault leaves the vendor order untouched.
func SortTracks(tracks []model.Track, sortKey string) {
	var less func(a, b model.Track) bool
	switch sortKey {
	case SortNameAsc:
		less = func(a, b model.Track) bool { return Fold(a.Name) < Fold(b.Name) }
	case SortNameDesc:
		less = func(a, b model.Track) bool { return Fold(a.Name) > Fold(b.Name) }
	case SortArtistAsc:
		less = func(a, b model.Track) bool { return Fold(a.Artist) < Fold(b.Artist) }
	case SortArtistDesc:
		less = func(a, b model.Track) bool { return Fold(a.Artist) > Fold(b.Artist) }
	default:
		return
	}
	sort.SliceStable(tracks, func(i, j int) bool { return less(tracks[i], tracks[j]) })
}
