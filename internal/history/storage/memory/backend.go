package memory

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/dsw7/gptifier/internal/history/storage"
)

var _ storage.Backend[string, string] = (*Backend[string, string])(nil)

// Backend keeps entries in a slice sorted by key.
type Backend[K cmp.Ordered, V any] struct {
	mu    sync.Mutex
	store []storage.Entry[K, V]
}

// NewBackend creates a new in-memory storage backend.
func NewBackend[K cmp.Ordered, V any]() *Backend[K, V] {
	return &Backend[K, V]{}
}

func (b *Backend[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(b.store, key, func(e storage.Entry[K, V], k K) int {
		return cmp.Compare(e.Key, k)
	})
}

func (b *Backend[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, found := b.search(key); found {
		return b.store[i].Value, true, nil
	}
	var zero V
	return zero, false, nil
}

func (b *Backend[K, V]) Set(_ context.Context, key K, value V) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, found := b.search(key)
	if found {
		b.store[i].Value = value
		return nil
	}
	b.store = slices.Insert(b.store, i, storage.Entry[K, V]{Key: key, Value: value})
	return nil
}

func (b *Backend[K, V]) Delete(_ context.Context, key K) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, found := b.search(key); found {
		b.store = slices.Delete(b.store, i, i+1)
	}
	return nil
}

func (b *Backend[K, V]) List(_ context.Context, pageSize *int, pageToken *K) (iter.Seq2[K, V], *K, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := 0
	if pageToken != nil {
		start, _ = b.search(*pageToken)
	}

	limit := storage.DefaultListPageSize
	if pageSize != nil {
		limit = *pageSize
	}

	end := min(start+limit, len(b.store))
	entries := slices.Clone(b.store[start:end])

	var next *K
	if end < len(b.store) {
		next = storage.PageToken(b.store[end].Key)
	}

	return func(yield func(K, V) bool) {
		for _, e := range entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}, next, nil
}

// Flush is a no-op for the in-memory backend.
func (b *Backend[K, V]) Flush(context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend.
func (b *Backend[K, V]) Close(context.Context) error {
	return nil
}
