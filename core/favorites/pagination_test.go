package favorites

import (
	"errors"
	"testing"
)

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"below minimum", 5, MinPageSize},
		{"minimum", 20, 20},
		{"in range", 50, 50},
		{"maximum", 100, 100},
		{"above maximum", 500, MaxPageSize},
		{"sentinel passes through", AllItems, AllItems},
		{"above fetch-all threshold becomes sentinel", 2000, AllItems},
		{"just past threshold becomes sentinel", 1001, AllItems},
		{"threshold itself still pages", 1000, MaxPageSize},
		{"zero", 0, MinPageSize},
		{"negative", -3, MinPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPageSize(tt.limit); got != tt.want {
				t.Errorf("ClampPageSize(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestTotalPagesFor(t *testing.T) {
	tests := []struct {
		name         string
		total, limit int
		want         int
	}{
		{"45 items in pages of 20", 45, 20, 3},
		{"exact multiple", 40, 20, 2},
		{"single item", 1, 20, 1},
		{"empty library still has one page", 0, 20, 1},
		{"sentinel is one page", 45, AllItems, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPagesFor(tt.total, tt.limit); got != tt.want {
				t.Errorf("TotalPagesFor(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCheckPage(t *testing.T) {
	pg := Pagination{CurrentPage: 1, ItemsPerPage: 20, TotalItems: 45, TotalPages: 3}

	for _, page := range []int{1, 2, 3} {
		if err := pg.CheckPage(page); err != nil {
			t.Errorf("CheckPage(%d) = %v, want nil", page, err)
		}
	}
	for _, page := range []int{0, -1, 4} {
		err := pg.CheckPage(page)
		if !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("CheckPage(%d) = %v, want ErrPageOutOfRange", page, err)
		}
	}
}

func TestValidSort(t *testing.T) {
	for _, key := range []string{SortDefault, SortNameAsc, SortNameDesc, SortArtistAsc, SortArtistDesc} {
		if !ValidSort(key) {
			t.Errorf("ValidSort(%q) = false", key)
		}
	}
	for _, key := range []string{"", "name", "artist", "random"} {
		if ValidSort(key) {
			t.Errorf("ValidSort(%q) = true", key)
		}
	}
}
