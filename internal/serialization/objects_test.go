package serialization_test

import (
	"errors"
	"testing"

	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/shoenig/test/must"
)

func TestShapeValidators(t *testing.T) {
	tests := []struct {
		object serialization.Object
		is     func(serialization.Document) bool
	}{
		{"list", serialization.IsList},
		{"page", serialization.IsPage},
		{"bucket", serialization.IsBucket},
		{"chat.completion", serialization.IsChatCompletion},
		{"chat.completion.deleted", serialization.IsChatCompletionDeletion},
		{"embedding", serialization.IsEmbedding},
		{"model", serialization.IsModel},
		{"file", serialization.IsFile},
		{"organization.user", serialization.IsOrganizationUser},
		{"organization.costs.result", serialization.IsCostResult},
		{"fine_tuning.job", serialization.IsFineTuningJob},
		{"response", serialization.IsResponse},
	}

	for _, tc := range tests {
		t.Run(string(tc.object), func(t *testing.T) {
			match := serialization.MustParse(`{"object": "` + string(tc.object) + `"}`)
			must.True(t, tc.is(match))
			must.True(t, serialization.Is(match, tc.object))
			must.NoError(t, serialization.Expect(match, tc.object))

			other := serialization.MustParse(`{"object": "something.else"}`)
			must.False(t, tc.is(other))

			err := serialization.Expect(other, tc.object)
			must.ErrorIs(t, err, serialization.ErrSchemaMismatch)

			var serr *serialization.Error
			must.True(t, errors.As(err, &serr))
			must.Eq(t, tc.object, serr.Expected)
			must.Eq(t, "something.else", serr.Actual)
		})
	}
}

func TestExpect_missingDiscriminator(t *testing.T) {
	for _, body := range []string{`{}`, `{"object": 42}`, `[]`, `"list"`} {
		err := serialization.Expect(serialization.MustParse(body), serialization.ObjectList)
		must.ErrorIs(t, err, serialization.ErrSchemaMismatch)

		var serr *serialization.Error
		must.True(t, errors.As(err, &serr))
		must.Eq(t, "<missing>", serr.Actual)
	}
}

func TestExpect_doesNotMatchPrefix(t *testing.T) {
	doc := serialization.MustParse(`{"object": "chat.completion.deleted"}`)
	must.False(t, serialization.IsChatCompletion(doc))
	must.True(t, serialization.IsChatCompletionDeletion(doc))
}

func TestIsListOf(t *testing.T) {
	t.Run("empty list is vacuously valid", func(t *testing.T) {
		doc := serialization.MustParse(`{"object": "list", "data": []}`)
		must.True(t, serialization.IsList(doc))
		must.True(t, serialization.IsListOf(doc, serialization.ObjectModel))
		must.NoError(t, serialization.ExpectListOf(doc, serialization.ObjectModel))
	})

	t.Run("all elements match", func(t *testing.T) {
		doc := serialization.MustParse(`{"object": "list", "data": [{"object": "model"}, {"object": "model"}]}`)
		must.True(t, serialization.IsListOf(doc, serialization.ObjectModel))
	})

	t.Run("one element differs", func(t *testing.T) {
		doc := serialization.MustParse(`{"object": "list", "data": [{"object": "model"}, {"object": "file"}]}`)
		must.False(t, serialization.IsListOf(doc, serialization.ObjectModel))

		err := serialization.ExpectListOf(doc, serialization.ObjectModel)
		must.ErrorIs(t, err, serialization.ErrSchemaMismatch)
	})

	t.Run("not a list", func(t *testing.T) {
		doc := serialization.MustParse(`{"object": "model", "data": []}`)
		must.False(t, serialization.IsListOf(doc, serialization.ObjectModel))
	})

	t.Run("list without data", func(t *testing.T) {
		doc := serialization.MustParse(`{"object": "list"}`)
		must.False(t, serialization.IsListOf(doc, serialization.ObjectModel))

		err := serialization.ExpectListOf(doc, serialization.ObjectModel)
		must.ErrorIs(t, err, serialization.ErrMalformedResponse)
	})
}
