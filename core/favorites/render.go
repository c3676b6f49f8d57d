package favorites

import (
	"html/template"
	"io"

	"rhythmbox/model"
)

// PlaceholderCover is served when a track has no cover image or its cover
// fails to load.
const PlaceholderCover = "/static/img/cover-placeholder.svg"

// cardData is one track prepared for rendering. ID round-trips verbatim to
// the remove action; name and artist are additionally folded for the
// filter attributes.
type cardData struct {
	ID           string
	Name         string
	Artist       string
	Album        string
	Cover        string
	FoldedName   string
	FoldedArtist string
}

// Interpolated values pass through html/template's contextual escaping, so
// vendor-supplied names cannot inject markup. The onerror handler clears
// itself before swapping in the placeholder, so a broken placeholder can
// not loop.
var cardTemplate = template.Must(template.New("cards").Parse(`<div class="track-grid">
{{- range . }}
<div class="track-card" data-track-id="{{ .ID }}" data-name="{{ .FoldedName }}" data-artist="{{ .FoldedArtist }}">
  <img class="track-cover" src="{{ .Cover }}" alt="{{ .Name }}" loading="lazy" onerror="this.onerror=null;this.src='` + PlaceholderCover + `'">
  <div class="track-info">
    <span class="track-name">{{ .Name }}</span>
    <span class="track-artist">{{ .Artist }}</span>
    {{- if .Album }}
    <span class="track-album">{{ .Album }}</span>
    {{- end }}
  </div>
  <button class="remove-btn" type="button" data-track-id="{{ .ID }}" aria-label="Remove {{ .Name }} from favorites">&times;</button>
</div>
{{- end }}
</div>
`))

// RenderTracks writes the card markup for a track list. The whole grid is
// replaced on every render; rendering is a pure projection of the track
// list and holds no state of its own.
func RenderTracks(w io.Writer, tracks []model.Track) error {
	cards := make([]cardData, 0, len(tracks))
	for _, t := range tracks {
		cover := t.ImageURL
		if cover == "" {
			cover = PlaceholderCover
		}
		cards = append(cards, cardData{
			ID:           t.ID,
			Name:         t.Name,
			Artist:       t.Artist,
			Album:        t.Album,
			Cover:        cover,
			FoldedName:   Fold(t.Name),
			FoldedArtist: Fold(t.Artist),
		})
	}
	return cardTemplate.Execute(w, cards)
}
