package paging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	// ErrInvalidCursor is returned when an after/before cursor names no entity.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrNotFound is the sentinel stores return from ResolveCursor for unknown ids.
	ErrNotFound = errors.New("cursor entity not found")
)

// CursorError reports which cursor named no entity. It matches
// ErrInvalidCursor and the store's own error.
type CursorError struct {
	Cursor string // "after" or "before"
	ID     string
	Err    error
}

func (e *CursorError) Error() string {
	return fmt.Sprintf("%v: %s id %q: %v", ErrInvalidCursor, e.Cursor, e.ID, e.Err)
}

func (e *CursorError) Unwrap() []error { return []error{ErrInvalidCursor, e.Err} }

// Order represents sorting direction by key.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseOrder returns Ascending for "asc" and Descending for anything else.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Params holds the unified pagination parameters
type Params struct {
	After  string `json:"after,omitempty" form:"after"`
	Before string `json:"before,omitempty" form:"before"`
	Limit  int    `json:"limit,omitempty" form:"limit"`
	Order  Order  `json:"order,omitempty" form:"order"`
}

// Pagination holds the more-flags of a page.
type Pagination struct {
	HasMoreBefore bool `json:"has_more_before"`
	HasMoreAfter  bool `json:"has_more_after"`
}

// Result holds the pagination result
type Result[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Range is the bounded, ordered query a Store executes. Bounds are exclusive.
type Range struct {
	Lower *int64
	Upper *int64
	Order Order
	Limit int
}

// Store is the persistence collaborator of the paginator.
type Store[T any] interface {
	// ResolveCursor returns the key of the entity with the given external id,
	// or an error matching ErrNotFound.
	ResolveCursor(ctx context.Context, externalID string) (int64, error)
	// QueryRange returns at most r.Limit rows inside the range, ordered by key.
	QueryRange(ctx context.Context, r Range) ([]T, error)
}

// Paginator applies configured limit bounds.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

// Default is the paginator used by the package-level functions.
var Default = Paginator{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit}

// NormalizeParams ensures that Limit is within an acceptable range
func NormalizeParams(params Params) Params {
	return Default.NormalizeParams(params)
}

// NormalizeParams ensures that Limit is within [1, MaxLimit] and Order is set.
func (p Paginator) NormalizeParams(params Params) Params {
	defLimit, maxLimit := p.DefaultLimit, p.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defLimit <= 0 || defLimit > maxLimit {
		defLimit = min(DefaultLimit, maxLimit)
	}

	if params.Limit == 0 {
		params.Limit = defLimit
	}
	params.Limit = max(1, min(params.Limit, maxLimit))
	if params.Order != Ascending {
		params.Order = Descending
	}
	return params
}

// Flags maps the single-direction lookahead result to the before/after flags.
func Flags(order Order, hasMore bool) (hasMoreBefore, hasMoreAfter bool) {
	if order == Ascending {
		return hasMore, false
	}
	return false, hasMore
}

// Paginate fetches one page from store with the default limits.
func Paginate[T any](ctx context.Context, store Store[T], params Params) (*Result[T], error) {
	return PaginateWith(ctx, Default, store, params)
}

// PaginateWith fetches one page from store.
func PaginateWith[T any](ctx context.Context, p Paginator, store Store[T], params Params) (*Result[T], error) {
	params = p.NormalizeParams(params)

	r, err := buildRange(ctx, store, params)
	if err != nil {
		return nil, err
	}

	items, err := store.QueryRange(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("pagination error: %w", err)
	}

	hasMore := false
	if len(items) > params.Limit {
		hasMore = true
		items = items[:params.Limit]
	}

	if items == nil {
		items = make([]T, 0)
	}

	before, after := Flags(params.Order, hasMore)
	return &Result[T]{
		Items:      items,
		Pagination: Pagination{HasMoreBefore: before, HasMoreAfter: after},
	}, nil
}

// buildRange resolves cursors into exclusive bounds for a normalized request.
func buildRange[T any](ctx context.Context, store Store[T], params Params) (Range, error) {
	r := Range{Order: params.Order, Limit: params.Limit + 1}

	if params.After != "" {
		key, err := resolve(ctx, store, "after", params.After)
		if err != nil {
			return Range{}, err
		}
		if params.Order == Ascending {
			r.Lower = tighterLower(r.Lower, key)
		} else {
			r.Upper = tighterUpper(r.Upper, key)
		}
	}

	if params.Before != "" {
		key, err := resolve(ctx, store, "before", params.Before)
		if err != nil {
			return Range{}, err
		}
		if params.Order == Ascending {
			r.Upper = tighterUpper(r.Upper, key)
		} else {
			r.Lower = tighterLower(r.Lower, key)
		}
	}

	return r, nil
}

func resolve[T any](ctx context.Context, store Store[T], name, id string) (int64, error) {
	key, err := store.ResolveCursor(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, &CursorError{Cursor: name, ID: id, Err: err}
		}
		return 0, fmt.Errorf("resolve %s cursor: %w", name, err)
	}
	return key, nil
}

func tighterLower(cur *int64, key int64) *int64 {
	if cur == nil || key > *cur {
		return &key
	}
	return cur
}

func tighterUpper(cur *int64, key int64) *int64 {
	if cur == nil || key < *cur {
		return &key
	}
	return cur
}

// Contains reports whether key lies inside the range bounds.
func (r Range) Contains(key int64) bool {
	if r.Lower != nil && key <= *r.Lower {
		return false
	}
	if r.Upper != nil && key >= *r.Upper {
		return false
	}
	return true
}
