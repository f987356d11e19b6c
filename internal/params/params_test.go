package params

import (
	"net/url"
	"testing"
	"time"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query               string
		limit, page, offset int
	}{
		{"", DefaultLimit, 1, 0},
		{"limit=10&page=3", 10, 3, 20},
		{"limit=0", DefaultLimit, 1, 0},
		{"limit=500", MaxLimit, 1, 0},
		{"page=-2", DefaultLimit, 1, 0},
		{"limit=abc&page=xyz", DefaultLimit, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			p := ParsePagination(q)
			if p.Limit != tt.limit || p.Page != tt.page || p.Offset != tt.offset {
				t.Errorf("got limit=%d page=%d offset=%d", p.Limit, p.Page, p.Offset)
			}
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2}
	p.ComputeMeta(25)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Errorf("unexpected meta %+v", p)
	}

	p = Pagination{Limit: 10, Page: 1}
	p.ComputeMeta(0)
	if p.TotalPages != 0 || p.HasNext || p.HasPrev {
		t.Errorf("unexpected meta for empty set %+v", p)
	}
}

func TestParseTime(t *testing.T) {
	def := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got, ok := ParseTime(url.Values{}, "at", def)
	if !ok || !got.Equal(def) {
		t.Errorf("absent key: got %s %v", got, ok)
	}

	got, ok = ParseTime(url.Values{"at": {"2026-03-14T19:05:00Z"}}, "at", def)
	if !ok || !got.Equal(time.Date(2026, 3, 14, 19, 5, 0, 0, time.UTC)) {
		t.Errorf("valid key: got %s %v", got, ok)
	}

	if _, ok := ParseTime(url.Values{"at": {"yesterday"}}, "at", def); ok {
		t.Error("malformed time accepted")
	}
}

func TestParseLimit(t *testing.T) {
	if got := ParseLimit(url.Values{}, 10, 20); got != 10 {
		t.Errorf("default = %d", got)
	}
	if got := ParseLimit(url.Values{"limit": {"99"}}, 10, 20); got != 20 {
		t.Errorf("clamped = %d", got)
	}
	if got := ParseLimit(url.Values{"limit": {"5"}}, 10, 20); got != 5 {
		t.Errorf("explicit = %d", got)
	}
}
