package favorites

import (
	"context"
	"fmt"

	"rhythmbox/logger"
	"rhythmbox/model"
)

// Library is the vendor-side view of the user's favorites: offset-based
// pages, a fetch-everything escape hatch, and per-track mutations.
type Library interface {
	Page(ctx context.Context, limit, offset int) (tracks []model.Track, total int, err error)
	All(ctx context.Context) ([]model.Track, error)
	Total(ctx context.Context) (int, error)
	Save(ctx context.Context, trackID string) error
	Remove(ctx context.Context, trackID string) error
}

// Service turns the vendor's offset-based favorites library into the
// page-numbered, sortable listing the API exposes. It implements Catalog
// for the view controller.
type Service struct {
	lib Library
}

// NewService creates a favorites service over a library.
func NewService(lib Library) *Service {
	return &Service{lib: lib}
}

// List fetches one logical page of favorites. The vendor only orders by
// date added, so any other sort key forces a full fetch followed by an
// in-memory sort and slice; the AllItems sentinel skips slicing entirely.
func (s *Service) List(ctx context.Context, page, limit int, sortKey string) (*Page, error) {
	if !ValidSort(sortKey) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sortKey)
	}
	if page < 1 {
		page = 1
	}
	limit = ClampPageSize(limit)

	if limit == AllItems || sortKey != SortDefault {
		return s.listFromFullLibrary(ctx, page, limit, sortKey)
	}

	offset := (page - 1) * limit
	tracks, total, err := s.lib.Page(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &Page{
		Tracks:     tracks,
		Page:       page,
		Total:      total,
		TotalPages: TotalPagesFor(total, limit),
	}, nil
}

// listFromFullLibrary fetches everything, applies the sort, then slices
// out the requested page.
func (s *Service) listFromFullLibrary(ctx context.Context, page, limit int, sortKey string) (*Page, error) {
	tracks, err := s.lib.All(ctx)
	if err != nil {
		return nil, err
	}

	SortTracks(tracks, sortKey)
	total := len(tracks)

	if limit == AllItems {
		return &Page{Tracks: tracks, Page: 1, Total: total, TotalPages: 1}, nil
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &Page{
		Tracks:     tracks[start:end],
		Page:       page,
		Total:      total,
		TotalPages: TotalPagesFor(total, limit),
	}, nil
}

// Artists extracts the normalized artist set from the entire library.
func (s *Service) Artists(ctx context.Context) ([]string, error) {
	tracks, err := s.lib.All(ctx)
	if err != nil {
		return nil, err
	}
	return ExtractArtists(tracks), nil
}

// Add saves a track to the favorites.
func (s *Service) Add(ctx context.Context, trackID string) error {
	if err := s.lib.Save(ctx, trackID); err != nil {
		return err
	}
	logger.Info("favorite added", logger.String("trackId", trackID))
	return nil
}

// Remove deletes a track from the favorites.
func (s *Service) Remove(ctx context.Context, trackID string) error {
	if err := s.lib.Remove(ctx, trackID); err != nil {
		return err
	}
	logger.Info("favorite removed", logger.String("trackId", trackID))
	return nil
}

// FetchPage implements Catalog.
func (s *Service) FetchPage(ctx context.Context, page, limit int, sortKey string) (*Page, error) {
	return s.List(ctx, page, limit, sortKey)
}

// RemoveTrack implements Catalog.
func (s *Service) RemoveTrack(ctx context.Context, trackID string) error {
	return s.Remove(ctx, trackID)
}
