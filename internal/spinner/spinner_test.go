package spinner_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dsw7/gptifier/internal/spinner"
	"github.com/shoenig/test/must"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	var out syncBuffer

	s := spinner.New(&out, "Waiting for response")
	must.False(t, s.Running())

	s.Start()
	s.Start()
	must.True(t, s.Running())

	time.Sleep(50 * time.Millisecond)

	s.Stop()
	s.Stop()
	must.False(t, s.Running())

	got := out.String()
	must.StrContains(t, got, "Waiting for response")
	must.StrHasSuffix(t, "\r\033[K", got)
}

func TestWhile(t *testing.T) {
	var out syncBuffer

	v, err := spinner.While(&out, "working", func() (int, error) {
		return 42, nil
	})
	must.NoError(t, err)
	must.Eq(t, 42, v)
	must.StrContains(t, out.String(), "working")

	boom := errors.New("boom")
	_, err = spinner.While(nil, "quiet", func() (string, error) {
		return "", boom
	})
	must.ErrorIs(t, err, boom)
}
