package favorites

import (
	"reflect"
	"testing"

	"rhythmbox/model"
)

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    []string
	}{
		{"single", "Gilberto Gil", []string{"gilberto gil"}},
		{"comma", "Caetano Veloso, Gal Costa", []string{"caetano veloso", "gal costa"}},
		{"ampersand", "Simon & Garfunkel", []string{"simon", "garfunkel"}},
		{"feat", "Beyoncé feat. Jay-Z", []string{"beyoncé", "jay-z"}},
		{"feat no period", "Beyoncé feat Jay-Z", []string{"beyoncé", "jay-z"}},
		{"ft", "Ariana Grande ft. Nicki Minaj", []string{"ariana grande", "nicki minaj"}},
		{"with", "Elton John with Dua Lipa", []string{"elton john", "dua lipa"}},
		{"uppercase connective", "A FEAT. B", []string{"a", "b"}},
		{"word containing ft", "Soft Cell", []string{"soft cell"}},
		{"empty fragments dropped", "A, , B", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitArtists(tt.display)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArtists(%q) = %v, want %v", tt.display, got, tt.want)
			}
		})
	}
}

func TestExtractArtists(t *testing.T) {
	tracks := []model.Track{
		{ID: "1", Name: "Song A", Artist: "Beyoncé feat. Jay-Z"},
		{ID: "2", Name: "Song B", Artist: "beyoncé"},
		{ID: "3", Name: "Song C", Artist: "Anitta, Jay-Z"},
	}

	got := ExtractArtists(tracks)
	want := []string{"anitta", "beyoncé", "jay-z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractArtists = %v, want %v", got, want)
	}

	// Re-deriving from the same input must not change the result.
	again := ExtractArtists(tracks)
	if !reflect.DeepEqual(again, got) {
		t.Errorf("second extraction differs: %v vs %v", again, got)
	}
}

func TestMatchesArtist(t *testing.T) {
	track := model.Track{Name: "Aquele Abraço", Artist: "Silva & Gil"}

	t.Run("all sentinel matches everything", func(t *testing.T) {
		if !MatchesArtist(track, AllArtists) {
			t.Error("AllArtists should match")
		}
	})
	t.Run("substring of display string", func(t *testing.T) {
		if !MatchesArtist(track, "silva") {
			t.Error("expected substring match")
		}
	})
	t.Run("case folded", func(t *testing.T) {
		if !MatchesArtist(track, "GIL") {
			t.Error("expected case-insensitive match")
		}
	})
	t.Run("no match", func(t *testing.T) {
		if MatchesArtist(track, "anitta") {
			t.Error("unexpected match")
		}
	})
}

func TestVisible(t *testing.T) {
	track := model.Track{Name: "Construção", Artist: "Chico Buarque"}

	t.Run("both filters must pass", func(t *testing.T) {
		if !Visible(track, "constru", "chico buarque") {
			t.Error("expected visible when both filters match")
		}
		if Visible(track, "constru", "anitta") {
			t.Error("artist filter should hide the track")
		}
		if Visible(track, "nope", "chico buarque") {
			t.Error("search filter should hide the track")
		}
	})
	t.Run("empty filters match everything", func(t *testing.T) {
		if !Visible(track, "", AllArtists) {
			t.Error("expected visible with no active filters")
		}
	})
	t.Run("search matches artist field too", func(t *testing.T) {
		if !Visible(track, "buarque", AllArtists) {
			t.Error("expected search to cover the artist field")
		}
	})
}

func TestArtistCounts(t *testing.T) {
	tracks := []model.Track{
		{ID: "1", Artist: "Gil"},
		{ID: "2", Artist: "Gilberto Gil"},
		{ID: "3", Artist: "Anitta"},
	}
	artists := ExtractArtists(tracks)
	counts := ArtistCounts(tracks, artists)

	// "gil" is a substring of "gilberto gil", so it counts both tracks.
	if counts["gil"] != 2 {
		t.Errorf("counts[gil] = %d, want 2", counts["gil"])
	}
	if counts["anitta"] != 1 {
		t.Errorf("counts[anitta] = %d, want 1", counts["anitta"])
	}
}

func TestSortTracks(t *testing.T) {
	base := []model.Track{
		{ID: "1", Name: "banana", Artist: "Zeca"},
		{ID: "2", Name: "Abacaxi", Artist: "anitta"},
		{ID: "3", Name: "Caju", Artist: "Bethânia"},
	}

	clone := func() []model.Track {
		out := make([]model.Track, len(base))
		copy(out, base)
		return out
	}

	t.Run("name ascending folds case", func(t *testing.T) {
		tracks := clone()
		SortTracks(tracks, SortNameAsc)
		if tracks[0].ID != "2" || tracks[1].ID != "1" || tracks[2].ID != "3" {
			t.Errorf("unexpected order: %v %v %v", tracks[0].ID, tracks[1].ID, tracks[2].ID)
		}
	})
	t.Run("artist descending", func(t *testing.T) {
		tracks := clone()
		SortTracks(tracks, SortArtistDesc)
		if tracks[0].ID != "1" {
			t.Errorf("expected Zeca first, got %s", tracks[0].Artist)
		}
	})
	t.Run("default keeps vendor order", func(t *testing.T) {
		tracks := clone()
		SortTracks(tracks, SortDefault)
		for i := range base {
			if tracks[i].ID != base[i].ID {
				t.Fatalf("default sort reordered tracks")
			}
		}
	})
}
