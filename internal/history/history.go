// Package history keeps a local log of completions so past prompts and
// answers can be reviewed without another API call.
package history

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/dsw7/gptifier/internal/history/storage"
	backendPebble "github.com/dsw7/gptifier/internal/history/storage/pebble"
	"github.com/dsw7/gptifier/internal/serialization"
	"github.com/segmentio/ksuid"
)

// Source names the command and backend that produced a record.
type Source string

const (
	SourceResponses Source = "responses"
	SourceChat      Source = "chat"
	SourceOllama    Source = "ollama"
)

// Record is one saved completion.
type Record struct {
	Key          string `json:"key"`
	Source       Source `json:"source"`
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	Output       string `json:"output"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	Created      int64  `json:"created"`
}

// FromCompletion builds a record from an unpacked completion.
func FromCompletion(source Source, c serialization.Completion) Record {
	return Record{
		Source:       source,
		Model:        c.Model,
		Prompt:       c.Input,
		Output:       c.Output,
		InputTokens:  c.InputTokens,
		OutputTokens: c.OutputTokens,
		Created:      c.Created,
	}
}

// Store saves records under KSUID keys, which sort by creation time.
type Store struct {
	backend storage.Backend[string, Record]
}

// NewStore wraps an existing backend.
func NewStore(backend storage.Backend[string, Record]) *Store {
	return &Store{backend: backend}
}

// Open opens the on-disk store in dir, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	b, err := backendPebble.NewBackend(dir, &pebble.Options{}, &storage.JSONCodec[Record]{})
	if err != nil {
		return nil, err
	}
	return NewStore(b), nil
}

// Add saves rec and returns it with its key set. The key embeds rec.Created,
// or the current time when Created is zero.
func (s *Store) Add(ctx context.Context, rec Record) (Record, error) {
	at := time.Now()
	if rec.Created != 0 {
		at = time.Unix(rec.Created, 0)
	}

	id, err := ksuid.NewRandomWithTime(at)
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate history key: %w", err)
	}
	rec.Key = id.String()

	if err := s.backend.Set(ctx, rec.Key, rec); err != nil {
		return Record{}, fmt.Errorf("failed to save history record: %w", err)
	}
	return rec, nil
}

// Get returns the record saved under key.
func (s *Store) Get(ctx context.Context, key string) (Record, bool, error) {
	return s.backend.Get(ctx, key)
}

// Recent returns up to n records, newest first. A non-positive n returns
// every record.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	all, err := storage.All(ctx, s.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	records := make([]Record, 0, len(all))
	for _, e := range all {
		records = append(records, e.Value)
	}
	slices.Reverse(records)

	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records, nil
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	all, err := storage.All(ctx, s.backend)
	if err != nil {
		return 0, fmt.Errorf("failed to list history: %w", err)
	}

	for _, e := range all {
		if err := s.backend.Delete(ctx, e.Key); err != nil {
			return 0, fmt.Errorf("failed to delete history record %s: %w", e.Key, err)
		}
	}
	return len(all), nil
}

// Close flushes and closes the underlying backend.
func (s *Store) Close(ctx context.Context) error {
	if err := s.backend.Flush(ctx); err != nil {
		return err
	}
	return s.backend.Close(ctx)
}
