package favorites

import (
	"context"
	"errors"
	"testing"

	"rhythmbox/model"
)

// fakeLibrary counts which access paths the service takes.
type fakeLibrary struct {
	tracks    []model.Track
	pageCalls int
	allCalls  int
	removed   []string
	saved     []string
}

func (f *fakeLibrary) Page(ctx context.Context, limit, offset int) ([]model.Track, int, error) {
	f.pageCalls++
	total := len(f.tracks)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return f.tracks[offset:end], total, nil
}

func (f *fakeLibrary) All(ctx context.Context) ([]model.Track, error) {
	f.allCalls++
	out := make([]model.Track, len(f.tracks))
	copy(out, f.tracks)
	return out, nil
}

func (f *fakeLibrary) Total(ctx context.Context) (int, error) {
	return len(f.tracks), nil
}

func (f *fakeLibrary) Save(ctx context.Context, trackID string) error {
	f.saved = append(f.saved, trackID)
	return nil
}

func (f *fakeLibrary) Remove(ctx context.Context, trackID string) error {
	f.removed = append(f.removed, trackID)
	return nil
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("default sort uses vendor paging", func(t *testing.T) {
		lib := &fakeLibrary{tracks: makeTracks(45)}
		svc := NewService(lib)

		page, err := svc.List(ctx, 2, 20, SortDefault)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if lib.pageCalls != 1 || lib.allCalls != 0 {
			t.Errorf("pageCalls=%d allCalls=%d, want paged access", lib.pageCalls, lib.allCalls)
		}
		if page.Page != 2 || page.Total != 45 || page.TotalPages != 3 {
			t.Errorf("page = %+v", page)
		}
		if len(page.Tracks) != 20 || page.Tracks[0].ID != "track020" {
			t.Errorf("wrong slice: len=%d first=%s", len(page.Tracks), page.Tracks[0].ID)
		}
	})

	t.Run("non-default sort forces full fetch", func(t *testing.T) {
		lib := &fakeLibrary{tracks: []model.Track{
			{ID: "1", Name: "zebra"},
			{ID: "2", Name: "Abacate"},
			{ID: "3", Name: "mamão"},
		}}
		svc := NewService(lib)

		page, err := svc.List(ctx, 1, 20, SortNameAsc)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if lib.allCalls != 1 || lib.pageCalls != 0 {
			t.Errorf("pageCalls=%d allCalls=%d, want full fetch", lib.pageCalls, lib.allCalls)
		}
		if page.Tracks[0].ID != "2" || page.Tracks[2].ID != "1" {
			t.Errorf("sorted order wrong: %s %s %s",
				page.Tracks[0].ID, page.Tracks[1].ID, page.Tracks[2].ID)
		}
	})

	t.Run("sorted fetch still slices pages", func(t *testing.T) {
		lib := &fakeLibrary{tracks: makeTracks(45)}
		svc := NewService(lib)

		page, err := svc.List(ctx, 3, 20, SortNameAsc)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(page.Tracks) != 5 {
			t.Errorf("len = %d, want 5", len(page.Tracks))
		}
		if page.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", page.TotalPages)
		}
	})

	t.Run("all sentinel returns everything on one page", func(t *testing.T) {
		lib := &fakeLibrary{tracks: makeTracks(45)}
		svc := NewService(lib)

		page, err := svc.List(ctx, 3, AllItems, SortDefault)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(page.Tracks) != 45 || page.Page != 1 || page.TotalPages != 1 {
			t.Errorf("page = %+v", page)
		}
	})

	t.Run("page size clamped", func(t *testing.T) {
		lib := &fakeLibrary{tracks: makeTracks(45)}
		svc := NewService(lib)

		page, err := svc.List(ctx, 1, 3, SortDefault)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(page.Tracks) != MinPageSize {
			t.Errorf("len = %d, want %d", len(page.Tracks), MinPageSize)
		}
	})

	t.Run("invalid sort rejected", func(t *testing.T) {
		svc := NewService(&fakeLibrary{})
		if _, err := svc.List(ctx, 1, 20, "volume"); !errors.Is(err, ErrInvalidSort) {
			t.Errorf("err = %v, want ErrInvalidSort", err)
		}
	})

	t.Run("page past the end comes back empty", func(t *testing.T) {
		lib := &fakeLibrary{tracks: makeTracks(5)}
		svc := NewService(lib)

		page, err := svc.List(ctx, 9, 20, SortNameAsc)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(page.Tracks) != 0 {
			t.Errorf("len = %d, want 0", len(page.Tracks))
		}
	})
}

func TestServiceArtists(t *testing.T) {
	lib := &fakeLibrary{tracks: []model.Track{
		{ID: "1", Artist: "Beyoncé feat. Jay-Z"},
		{ID: "2", Artist: "Anitta"},
	}}
	svc := NewService(lib)

	artists, err := svc.Artists(context.Background())
	if err != nil {
		t.Fatalf("Artists: %v", err)
	}
	want := []string{"anitta", "beyoncé", "jay-z"}
	if len(artists) != len(want) {
		t.Fatalf("artists = %v, want %v", artists, want)
	}
	for i := range want {
		if artists[i] != want[i] {
			t.Errorf("artists[%d] = %q, want %q", i, artists[i], want[i])
		}
	}
}

func TestServiceMutations(t *testing.T) {
	lib := &fakeLibrary{}
	svc := NewService(lib)
	ctx := context.Background()

	if err := svc.Add(ctx, "track123"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Remove(ctx, "track456"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(lib.saved) != 1 || lib.saved[0] != "track123" {
		t.Errorf("saved = %v", lib.saved)
	}
	if len(lib.removed) != 1 || lib.removed[0] != "track456" {
		t.Errorf("removed = %v", lib.removed)
	}
}
