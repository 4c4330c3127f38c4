// Package tests holds the conformance suite every storage backend must pass.
package tests

import (
	"testing"

	"github.com/dsw7/gptifier/internal/history/storage"
	"github.com/shoenig/test/must"
)

// BackendSuite tests a backend implementation of the storage package, using
// the provided backend instance to perform the tests. The backend must be
// empty.
func BackendSuite(t *testing.T, backend storage.Backend[string, string]) {
	t.Helper()

	ctx := t.Context()

	_, ok, err := backend.Get(ctx, "missing")
	must.NoError(t, err)
	must.False(t, ok)

	must.NoError(t, backend.Set(ctx, "b", "second"))
	must.NoError(t, backend.Set(ctx, "a", "first"))
	must.NoError(t, backend.Set(ctx, "c", "third"))

	value, ok, err := backend.Get(ctx, "a")
	must.NoError(t, err)
	must.True(t, ok)
	must.Eq(t, "first", value)

	must.NoError(t, backend.Set(ctx, "a", "first, updated"))
	value, _, err = backend.Get(ctx, "a")
	must.NoError(t, err)
	must.Eq(t, "first, updated", value)

	t.Run("pages in key order", func(t *testing.T) {
		entries, next, err := backend.List(ctx, storage.PageSize(2), nil)
		must.NoError(t, err)
		must.NotNil(t, next)
		must.Eq(t, "c", *next)

		var keys []string
		for key := range entries {
			keys = append(keys, key)
		}
		must.Eq(t, []string{"a", "b"}, keys)

		entries, next, err = backend.List(ctx, nil, next)
		must.NoError(t, err)
		must.Nil(t, next)

		keys = nil
		for key, value := range entries {
			keys = append(keys, key)
			must.Eq(t, "third", value)
		}
		must.Eq(t, []string{"c"}, keys)
	})

	t.Run("all", func(t *testing.T) {
		all, err := storage.All(ctx, backend)
		must.NoError(t, err)
		must.SliceLen(t, 3, all)
		must.Eq(t, "a", all[0].Key)
		must.Eq(t, "c", all[2].Key)
	})

	t.Run("delete", func(t *testing.T) {
		must.NoError(t, backend.Delete(ctx, "b"))
		must.NoError(t, backend.Delete(ctx, "never-set"))

		_, ok, err := backend.Get(ctx, "b")
		must.NoError(t, err)
		must.False(t, ok)

		all, err := storage.All(ctx, backend)
		must.NoError(t, err)
		must.SliceLen(t, 2, all)
	})

	must.NoError(t, backend.Flush(ctx))
}
