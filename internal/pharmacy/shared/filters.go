package shared

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListFilters represents the list page controls carried in the query string.
type ListFilters struct {
	Search string
	Tab    string
	Sort   string
	Status string
	Type   string
	Page   int
	Limit  int
}

// ParseListFilters reads q, tab, sort, status, type, page and limit.
func ParseListFilters(r *http.Request) ListFilters {
	return FiltersFromValues(r.URL.Query())
}

// FiltersFromValues normalises raw query values into ListFilters.
func FiltersFromValues(q url.Values) ListFilters {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return ListFilters{
		Search: strings.TrimSpace(q.Get("q")),
		Tab:    normalizeChoice(q.Get("tab"), TabAll),
		Sort:   normalizeChoice(q.Get("sort"), SortNewest),
		Status: normalizeChoice(q.Get("status"), TabAll),
		Type:   normalizeChoice(q.Get("type"), TabAll),
		Page:   page,
		Limit:  limit,
	}
}

// Values encodes the non-default filters, page excluded.
func (f ListFilters) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.Tab != "" && f.Tab != TabAll {
		v.Set("tab", f.Tab)
	}
	if f.Sort != "" && f.Sort != SortNewest {
		v.Set("sort", f.Sort)
	}
	if f.Status != "" && f.Status != TabAll {
		v.Set("status", f.Status)
	}
	if f.Type != "" && f.Type != TabAll {
		v.Set("type", f.Type)
	}
	if f.Limit > 0 && f.Limit != DefaultLimit {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// Query returns the encoded filters with a leading "?" or an empty string.
func (f ListFilters) Query() string {
	encoded := f.Values().Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// PageQuery returns the query string for page n.
func (f ListFilters) PageQuery(n int) string {
	v := f.Values()
	if n > 1 {
		v.Set("page", strconv.Itoa(n))
	}
	encoded := v.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// TabQuery returns the query string switching to tab, back on page one.
func (f ListFilters) TabQuery(tab string) string {
	f.Tab = tab
	return f.Query()
}

// IsTab reports whether tab is selected.
func (f ListFilters) IsTab(tab string) bool {
	return strings.EqualFold(f.Tab, tab)
}

// IsSort reports whether sort is selected.
func (f ListFilters) IsSort(sort string) bool {
	return strings.EqualFold(f.Sort, sort)
}

func normalizeChoice(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	return raw
}

// ParseID parses a positive record id from a URL segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
