package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rhythmbox/logger"
	"rhythmbox/model"
)

// Page is one page of favorites as reported by the catalog. Page, Total
// and TotalPages come from the server and are authoritative.
type Page struct {
	Tracks     []model.Track
	Page       int
	Total      int
	TotalPages int
}

// Catalog is the capability the controller needs from the remote catalog:
// fetch one page of favorites and remove a track by identifier.
type Catalog interface {
	FetchPage(ctx context.Context, page, limit int, sortKey string) (*Page, error)
	RemoveTrack(ctx context.Context, trackID string) error
}

// PrefStore persists the selected artist filter across controller
// lifetimes under a fixed key. Implementations must treat an absent value
// as the AllArtists sentinel.
type PrefStore interface {
	SelectedArtist(ctx context.Context) (string, error)
	SetSelectedArtist(ctx context.Context, name string) error
}

// Removal states for a single track's remove flow.
type RemovalState int

const (
	RemovalIdle RemovalState = iota
	RemovalConfirming
	RemovalRemoving
)

var (
	// ErrRemovalState is returned when a removal transition is requested
	// from the wrong state.
	ErrRemovalState = errors.New("invalid removal state transition")

	// ErrTrackNotLoaded is returned when the referenced track is not in
	// the current track set.
	ErrTrackNotLoaded = errors.New("track not in current view")
)

// Controller owns the favorites view state: the in-memory track list,
// pagination, the derived artist set and the active filters. It is created
// per view and discarded afterwards; the rendered output is a pure
// projection of its state. Safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	catalog Catalog
	prefs   PrefStore

	pg      Pagination
	sortKey string

	tracks  []model.Track
	artists []string

	selectedArtist string
	searchTerm     string

	loading  bool
	removals map[string]RemovalState
}

// NewController creates a controller with the given catalog. prefs may be
// nil, in which case the artist selection is not persisted. The previously
// persisted artist selection, if any, is restored.
func NewController(ctx context.Context, catalog Catalog, prefs PrefStore) *Controller {
	c := &Controller{
		catalog:        catalog,
		prefs:          prefs,
		pg:             NewPagination(MinPageSize),
		sortKey:        SortDefault,
		selectedArtist: AllArtists,
		removals:       make(map[string]RemovalState),
	}

	if prefs != nil {
		if artist, err := prefs.SelectedArtist(ctx); err != nil {
			logger.Warn("failed to restore artist selection", logger.ErrorField(err))
		} else if artist != "" {
			c.selectedArtist = artist
		}
	}

	return c
}

// Seed installs an initial snapshot so the first render needs no network
// round trip. The snapshot plays the role of the page-scoped state the
// server injects at initial page render.
func (c *Controller) Seed(p *Page, itemsPerPage int, sortKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pg.ItemsPerPage = ClampPageSize(itemsPerPage)
	if ValidSort(sortKey) {
		c.sortKey = sortKey
	}
	c.apply(p)
}

// LoadPage fetches one page of favorites and replaces the view state with
// the result. The page number is validated against the currently known
// total before any network call, and only one load may be in flight.
func (c *Controller) LoadPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrLoadInFlight
	}
	if err := c.pg.CheckPage(page); err != nil {
		c.mu.Unlock()
		return err
	}
	c.loading = true
	limit, sortKey := c.pg.ItemsPerPage, c.sortKey
	c.mu.Unlock()

	result, err := c.catalog.FetchPage(ctx, page, limit, sortKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		// Pagination state stays as it was; the caller surfaces the error.
		return fmt.Errorf("failed to load favorites page %d: %w", page, err)
	}

	c.apply(result)

	// A fresh page invalidates the filters, except in "all" mode where
	// the full library is exactly what gets searched and filtered.
	if !c.pg.AllMode() {
		c.searchTerm = ""
		c.selectedArtist = AllArtists
	}

	return nil
}

// apply replaces the view state with a fetched page. Caller holds the lock.
func (c *Controller) apply(p *Page) {
	c.pg.CurrentPage = p.Page
	c.pg.TotalItems = p.Total
	c.pg.TotalPages = p.TotalPages
	c.tracks = p.Tracks
	c.artists = ExtractArtists(c.tracks)
	c.removals = make(map[string]RemovalState)
}

// SetPageSize changes the page size and reloads from page one. Exactly one
// load is issued.
func (c *Controller) SetPageSize(ctx context.Context, itemsPerPage int) error {
	c.mu.Lock()
	c.pg.ItemsPerPage = ClampPageSize(itemsPerPage)
	c.pg.CurrentPage = 1
	c.mu.Unlock()

	return c.LoadPage(ctx, 1)
}

// SetSort changes the sort key and reloads from page one, since reordering
// reshuffles the whole library across pages.
func (c *Controller) SetSort(ctx context.Context, sortKey string) error {
	if !ValidSort(sortKey) {
		return fmt.Errorf("%w: %q", ErrInvalidSort, sortKey)
	}

	c.mu.Lock()
	c.sortKey = sortKey
	c.pg.CurrentPage = 1
	c.mu.Unlock()

	return c.LoadPage(ctx, 1)
}

// SelectArtist activates the artist filter and clears the free-text search
// box; search and artist filter are mutually exclusive inputs. The
// selection is persisted when a preference store is configured.
func (c *Controller) SelectArtist(ctx context.Context, name string) {
	if name != AllArtists {
		name = Fold(name)
	}

	c.mu.Lock()
	c.selectedArtist = name
	c.searchTerm = ""
	c.mu.Unlock()

	if c.prefs != nil {
		// The sentinel is stored as an absent preference, not the literal
		// string, matching the server's preference endpoint.
		persisted := name
		if persisted == AllArtists {
			persisted = ""
		}
		if err := c.prefs.SetSelectedArtist(ctx, persisted); err != nil {
			logger.Warn("failed to persist artist selection", logger.ErrorField(err))
		}
	}
}

// Search sets the free-text search term. The artist filter stays active;
// both predicates combine with logical AND.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	c.searchTerm = Fold(term)
	c.mu.Unlock()
}

// VisibleTracks returns the tracks passing the active filters, in order.
func (c *Controller) VisibleTracks() []model.Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := make([]model.Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		if Visible(t, c.searchTerm, c.selectedArtist) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Tracks returns a copy of the full current track set.
func (c *Controller) Tracks() []model.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Artists returns the derived artist set for the current track set.
func (c *Controller) Artists() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.artists))
	copy(out, c.artists)
	return out
}

// Counts returns the per-artist track counts for the current track set.
func (c *Controller) Counts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ArtistCounts(c.tracks, c.artists)
}

// Pagination returns the current paging state.
func (c *Controller) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pg
}

// Sort returns the active sort key.
func (c *Controller) Sort() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortKey
}

// SelectedArtist returns the active artist filter.
func (c *Controller) SelectedArtist() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedArtist
}

// SearchTerm returns the active free-text search term.
func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchTerm
}

// Loading reports whether a page load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Removal returns the removal state for a track.
func (c *Controller) Removal(trackID string) RemovalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removals[trackID]
}

// BeginRemove starts the remove flow for a track: idle to confirming. No
// network call happens until the removal is confirmed.
func (c *Controller) BeginRemove(trackID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasTrack(trackID) {
		return fmt.Errorf("%w: %s", ErrTrackNotLoaded, trackID)
	}
	if c.removals[trackID] != RemovalIdle {
		return fmt.Errorf("%w: track %s is not idle", ErrRemovalState, trackID)
	}

	c.removals[trackID] = RemovalConfirming
	return nil
}

// CancelRemove abandons a pending confirmation: confirming to idle.
func (c *Controller) CancelRemove(trackID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.removals[trackID] != RemovalConfirming {
		return fmt.Errorf("%w: track %s is not awaiting confirmation", ErrRemovalState, trackID)
	}

	delete(c.removals, trackID)
	return nil
}

// ConfirmRemove performs the removal for a confirmed track. On success the
// track leaves the in-memory list and the artist set is recomputed from
// the remainder; when no tracks remain the view is fully reloaded from the
// server, because local state no longer reliably reflects totals across
// pages. On failure the track returns to idle and the error is surfaced;
// there is no automatic retry. Removals for different tracks may run
// concurrently, each owning only its own state.
func (c *Controller) ConfirmRemove(ctx context.Context, trackID string) (reloaded bool, err error) {
	c.mu.Lock()
	if c.removals[trackID] != RemovalConfirming {
		c.mu.Unlock()
		return false, fmt.Errorf("%w: track %s is not awaiting confirmation", ErrRemovalState, trackID)
	}
	c.removals[trackID] = RemovalRemoving
	c.mu.Unlock()

	if err := c.catalog.RemoveTrack(ctx, trackID); err != nil {
		c.mu.Lock()
		delete(c.removals, trackID)
		c.mu.Unlock()
		return false, fmt.Errorf("failed to remove track %s: %w", trackID, err)
	}

	c.mu.Lock()
	delete(c.removals, trackID)
	for i, t := range c.tracks {
		if t.ID == trackID {
			c.tracks = append(c.tracks[:i], c.tracks[i+1:]...)
			break
		}
	}
	c.artists = ExtractArtists(c.tracks)
	if c.pg.TotalItems > 0 {
		c.pg.TotalItems--
	}
	empty := len(c.tracks) == 0
	c.mu.Unlock()

	if !empty {
		return false, nil
	}

	logger.Info("last visible track removed, reloading favorites from server")
	if err := c.LoadPage(ctx, 1); err != nil {
		return false, err
	}
	return true, nil
}

// hasTrack reports whether a track is in the current set. Caller holds the
// lock.
func (c *Controller) hasTrack(trackID string) bool {
	for _, t := range c.tracks {
		if t.ID == trackID {
			return true
		}
	}
	return false
}
