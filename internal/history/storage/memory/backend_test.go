package memory_test

import (
	"testing"

	"github.com/dsw7/gptifier/internal/history/storage/memory"
	"github.com/dsw7/gptifier/internal/history/storage/tests"
)

func TestBackend(t *testing.T) {
	tests.BackendSuite(t, memory.NewBackend[string, string]())
}
