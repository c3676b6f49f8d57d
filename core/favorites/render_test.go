package favorites

import (
	"bytes"
	"strings"
	"testing"

	"rhythmbox/model"
)

func renderString(t *testing.T, tracks []model.Track) string {
	t.Helper()
	var buf bytes.Buffer
	if err := RenderTracks(&buf, tracks); err != nil {
		t.Fatalf("RenderTracks: %v", err)
	}
	return buf.String()
}

func TestRenderTracks(t *testing.T) {
	t.Run("escapes vendor supplied text", func(t *testing.T) {
		out := renderString(t, []model.Track{
			{ID: "abc", Name: `<script>alert("x")</script>`, Artist: "O'Brien & Sons"},
		})
		if strings.Contains(out, "<script>") {
			t.Error("track name reached the markup unescaped")
		}
		if !strings.Contains(out, "&lt;script&gt;") {
			t.Error("expected escaped name in output")
		}
	})

	t.Run("track id round trips verbatim", func(t *testing.T) {
		out := renderString(t, []model.Track{
			{ID: "6rqhFgbbKwnb9MLmUQDhG6", Name: "Song", Artist: "Artist"},
		})
		if !strings.Contains(out, `data-track-id="6rqhFgbbKwnb9MLmUQDhG6"`) {
			t.Error("missing data-track-id attribute")
		}
	})

	t.Run("filter attributes are folded", func(t *testing.T) {
		out := renderString(t, []model.Track{
			{ID: "a", Name: "Águas De Março", Artist: "Elis Regina"},
		})
		if !strings.Contains(out, `data-name="águas de março"`) {
			t.Errorf("missing folded name attribute in %q", out)
		}
		if !strings.Contains(out, `data-artist="elis regina"`) {
			t.Error("missing folded artist attribute")
		}
	})

	t.Run("missing cover uses placeholder", func(t *testing.T) {
		out := renderString(t, []model.Track{
			{ID: "a", Name: "Song", Artist: "Artist"},
		})
		if !strings.Contains(out, `src="`+PlaceholderCover+`"`) {
			t.Error("expected placeholder cover")
		}
	})

	t.Run("onerror swap is one shot", func(t *testing.T) {
		out := renderString(t, []model.Track{
			{ID: "a", Name: "Song", Artist: "Artist", ImageURL: "https://img.example/cover.jpg"},
		})
		if !strings.Contains(out, "this.onerror=null") {
			t.Error("onerror handler must clear itself before swapping")
		}
		if !strings.Contains(out, PlaceholderCover) {
			t.Error("onerror handler must point at the placeholder")
		}
	})

	t.Run("album line only when present", func(t *testing.T) {
		withAlbum := renderString(t, []model.Track{
			{ID: "a", Name: "Song", Artist: "Artist", Album: "Tropicália"},
		})
		if !strings.Contains(withAlbum, "track-album") {
			t.Error("expected album span")
		}

		withoutAlbum := renderString(t, []model.Track{
			{ID: "a", Name: "Song", Artist: "Artist"},
		})
		if strings.Contains(withoutAlbum, "track-album") {
			t.Error("unexpected album span")
		}
	})

	t.Run("empty list renders an empty grid", func(t *testing.T) {
		out := renderString(t, nil)
		if !strings.Contains(out, "track-grid") {
			t.Error("expected grid wrapper")
		}
		if strings.Contains(out, "track-card") {
			t.Error("unexpected card in empty render")
		}
	})
}
