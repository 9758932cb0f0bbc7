package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Resource is the CRUD surface shared by every backend collection.
type Resource[T any] struct {
	client *Client
	path   string
}

func newResource[T any](c *Client, path string) Resource[T] {
	return Resource[T]{client: c, path: path}
}

func (r Resource[T]) Path() string {
	return r.path
}

func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	return r.query(ctx, r.path)
}

func (r Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := r.client.doJSON(ctx, http.MethodGet, r.itemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var out T
	if err := r.client.doJSON(ctx, http.MethodPost, r.path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Update(ctx context.Context, id int64, body any) (*T, error) {
	var out T
	if err := r.client.doJSON(ctx, http.MethodPut, r.itemPath(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
}

func (r Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// query GETs a list from an arbitrary path. A 204 yields an empty list.
func (r Resource[T]) query(ctx context.Context, path string) ([]T, error) {
	items := []T{}
	if err := r.client.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r Resource[T]) queryf(ctx context.Context, format string, args ...any) ([]T, error) {
	return r.query(ctx, r.path+fmt.Sprintf(format, args...))
}

func (r Resource[T]) queryParams(ctx context.Context, suffix string, params url.Values) ([]T, error) {
	path := r.path + suffix
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return r.query(ctx, path)
}

func (r Resource[T]) getf(ctx context.Context, format string, args ...any) (*T, error) {
	var out T
	if err := r.client.doJSON(ctx, http.MethodGet, r.path+fmt.Sprintf(format, args...), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
