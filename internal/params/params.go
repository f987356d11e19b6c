package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLimit = 15
	MaxLimit     = 50
)

// Pagination holds pagination info and computed metadata.
//
//	/events?page=2&limit=10 → Pagination{Limit:10, Page:2, Offset:10}
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination parses ?limit=...&page=... safely. Keys are case sensitive.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: DefaultLimit,
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = DefaultLimit
			case limit > MaxLimit:
				p.Limit = MaxLimit
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// ParseTime reads an RFC 3339 instant from key, falling back to def when the
// key is absent. ok is false for a present but malformed value.
func ParseTime(q url.Values, key string, def time.Time) (t time.Time, ok bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseLimit reads a small autocomplete limit, clamped to [1, max].
func ParseLimit(q url.Values, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get("limit")))
	switch {
	case err != nil || n <= 0:
		return def
	case n > max:
		return max
	default:
		return n
	}
}
