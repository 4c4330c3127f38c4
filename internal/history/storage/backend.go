package storage

import (
	"context"
	"iter"
)

type Entry[K, V any] struct {
	Key   K
	Value V
}

// Backend is an ordered key-value store.
//
// List returns at most pageSize entries starting at pageToken (inclusive),
// and the key to pass as pageToken to get the next page, or nil when there
// is none.
type Backend[K, V any] interface {
	Get(ctx context.Context, key K) (value V, found bool, err error)
	Set(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) error
	List(ctx context.Context, pageSize *int, pageToken *K) (entries iter.Seq2[K, V], nextPageToken *K, err error)
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

// DefaultListPageSize is used when List is called without a page size.
const DefaultListPageSize = 25

func ptr[T any](v T) *T {
	return &v
}

func PageSize(pageSize int) *int {
	return ptr(pageSize)
}

func PageToken[T any](pageToken T) *T {
	return ptr(pageToken)
}

// All walks every page of b in key order.
func All[K, V any](ctx context.Context, b Backend[K, V]) ([]Entry[K, V], error) {
	var (
		out   []Entry[K, V]
		token *K
	)
	for {
		entries, next, err := b.List(ctx, nil, token)
		if err != nil {
			return nil, err
		}
		for k, v := range entries {
			out = append(out, Entry[K, V]{Key: k, Value: v})
		}
		if next == nil {
			return out, nil
		}
		token = next
	}
}
