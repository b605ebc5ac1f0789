package exports

import (
	"context"
	"errors"
	"sort"

	"github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/report"
)

// ErrUnknownResource is returned for resources without a registered builder.
var ErrUnknownResource = errors.New("exports: unknown resource")

// BuildFunc produces the document for one resource using the caller's token.
type BuildFunc func(ctx context.Context, token string, filters shared.ListFilters) (report.Document, error)

// Resource is one exportable collection shown on the reports page.
type Resource struct {
	Key   string
	Title string
	// Filters names the list controls the resource honours.
	Filters []string
}

type entry struct {
	Resource
	build BuildFunc
}

// Registry maps resource keys to document builders.
type Registry struct {
	entries map[string]entry
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// Register adds or replaces the builder for res.Key.
func (r *Registry) Register(res Resource, build BuildFunc) {
	r.entries[res.Key] = entry{Resource: res, build: build}
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.entries[key]
	return ok
}

// Resources lists the registered resources by key.
func (r *Registry) Resources() []Resource {
	out := make([]Resource, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Resource)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Build runs the builder for key.
func (r *Registry) Build(ctx context.Context, key, token string, filters shared.ListFilters) (report.Document, error) {
	e, ok := r.entries[key]
	if !ok {
		return report.Document{}, ErrUnknownResource
	}
	return e.build(ctx, token, filters)
}
