package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, DefaultLimit, 0},
		{"?page=3&limit=20", 3, 20, 40},
		{"?page=-1&limit=abc", 1, DefaultLimit, 0},
		{"?page=2&limit=1000", 2, MaxLimit, MaxLimit},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/items"+tt.query, nil)
		p := FromRequest(r)
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset() != tt.wantOffset {
			t.Errorf("%q: got page=%d limit=%d offset=%d", tt.query, p.Page, p.Limit, p.Offset())
		}
	}
}
