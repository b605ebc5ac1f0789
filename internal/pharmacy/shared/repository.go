package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
)

// Backend is the subset of apiclient.Client used by repositories.
type Backend interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

// Endpoint names a backend collection and the envelope keys it answers with.
type Endpoint struct {
	Path    string
	ListKey string
	ItemKey string
}

// RESTRepository implements list and CRUD calls for one backend collection.
type RESTRepository[T any] struct {
	api      Backend
	endpoint Endpoint
	listSize int
}

// NewRESTRepository constructs a repository for endpoint.
func NewRESTRepository[T any](api Backend, endpoint Endpoint, listSize int) *RESTRepository[T] {
	if listSize <= 0 {
		listSize = DefaultListSize
	}
	return &RESTRepository[T]{api: api, endpoint: endpoint, listSize: listSize}
}

// List fetches the first listSize records in backend order. A missing list
// key is an empty list.
func (r *RESTRepository[T]) List(ctx context.Context, token string) ([]T, error) {
	query := url.Values{}
	query.Set("page", "0")
	query.Set("size", strconv.Itoa(r.listSize))
	var raw map[string]json.RawMessage
	if err := r.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: r.endpoint.Path, Query: query, Token: token}, &raw); err != nil {
		return nil, err
	}
	items := []T{}
	if body, ok := raw[r.endpoint.ListKey]; ok && string(body) != "null" {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.endpoint.ListKey, err)
		}
	}
	return items, nil
}

// Get fetches one record.
func (r *RESTRepository[T]) Get(ctx context.Context, token string, id int64) (T, error) {
	return r.one(ctx, apiclient.Request{Method: http.MethodGet, Path: r.itemPath(id), Token: token})
}

// Create posts body and returns the stored record.
func (r *RESTRepository[T]) Create(ctx context.Context, token string, body any) (T, error) {
	return r.one(ctx, apiclient.Request{Method: http.MethodPost, Path: r.endpoint.Path, Token: token, Body: body})
}

// Update replaces the record id with body.
func (r *RESTRepository[T]) Update(ctx context.Context, token string, id int64, body any) (T, error) {
	return r.one(ctx, apiclient.Request{Method: http.MethodPut, Path: r.itemPath(id), Token: token, Body: body})
}

// Delete removes the record id.
func (r *RESTRepository[T]) Delete(ctx context.Context, token string, id int64) error {
	return r.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: r.itemPath(id), Token: token}, nil)
}

func (r *RESTRepository[T]) one(ctx context.Context, req apiclient.Request) (T, error) {
	var zero T
	var raw map[string]json.RawMessage
	if err := r.api.Do(ctx, req, &raw); err != nil {
		return zero, err
	}
	body, ok := raw[r.endpoint.ItemKey]
	if !ok || string(body) == "null" {
		if req.Method == http.MethodGet {
			return zero, ErrNotFound
		}
		return zero, nil
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return zero, fmt.Errorf("decode %s: %w", r.endpoint.ItemKey, err)
	}
	return item, nil
}

func (r *RESTRepository[T]) itemPath(id int64) string {
	return r.endpoint.Path + "/" + strconv.FormatInt(id, 10)
}
