// Package spinner draws a busy indicator on a terminal while a blocking
// API call is in flight.
package spinner

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const clearLine = "\r\033[K"

// Spinner animates on its own goroutine between Start and Stop.
type Spinner struct {
	w       io.Writer
	label   string
	frames  spinner.Spinner
	style   lipgloss.Style
	running atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New returns a stopped spinner that writes to w.
func New(w io.Writer, label string) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		frames: spinner.Dot,
		style:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00ADD8")),
	}
}

// Running reports whether the spinner is animating.
func (s *Spinner) Running() bool {
	return s.running.Load()
}

// Start begins the animation. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}

	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.stop)
}

func (s *Spinner) loop(stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := s.frames.Frames[i%len(s.frames.Frames)]
		fmt.Fprintf(s.w, "\r%s %s", s.style.Render(frame), s.label)

		select {
		case <-stop:
			fmt.Fprint(s.w, clearLine)
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation, clears the line and waits for the goroutine to
// exit. Calling Stop on a stopped spinner does nothing.
func (s *Spinner) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stop)
	s.wg.Wait()
}

// While runs fn with a spinner shown on w, and stops the spinner before
// returning. A nil w runs fn without a spinner.
func While[T any](w io.Writer, label string, fn func() (T, error)) (T, error) {
	if w == nil {
		return fn()
	}

	s := New(w, label)
	s.Start()
	defer s.Stop()

	return fn()
}
