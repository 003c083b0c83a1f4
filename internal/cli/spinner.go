package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond
	// Elapsed time is only shown once a reply is noticeably slow.
	spinnerShowElapsed = 2 * time.Second
)

// Spinner draws a status line on a plain writer while a one-shot turn waits
// for the backend. The TUI uses bubbles/spinner instead.
type Spinner struct {
	out     io.Writer
	mu      sync.Mutex
	wg      sync.WaitGroup
	message string
	started time.Time
	active  bool
	stopCh  chan struct{}
	frame   int
}

func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, stopCh: make(chan struct{})}
}

// Start shows message. Calling Start on a running spinner only swaps the
// message and keeps the elapsed clock.
func (sp *Spinner) Start(message string) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.message = message
	if sp.active {
		return
	}
	sp.active = true
	sp.started = time.Now()
	sp.stopCh = make(chan struct{})
	sp.wg.Add(1)
	go sp.run(sp.stopCh)
}

// Stop halts the animation and clears the line. Safe to call repeatedly.
func (sp *Spinner) Stop() {
	sp.mu.Lock()
	if !sp.active {
		sp.mu.Unlock()
		return
	}
	sp.active = false
	close(sp.stopCh)
	sp.mu.Unlock()

	sp.wg.Wait()
	fmt.Fprint(sp.out, "\r\033[K")
}

func (sp *Spinner) run(stop <-chan struct{}) {
	defer sp.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			sp.mu.Lock()
			line := spinnerLine(sp.frame, sp.message, now.Sub(sp.started))
			sp.frame++
			sp.mu.Unlock()

			fmt.Fprint(sp.out, "\r\033[K"+line)
		}
	}
}

func spinnerLine(frame int, message string, elapsed time.Duration) string {
	line := spinnerFrames[frame%len(spinnerFrames)] + " " + message
	if elapsed >= spinnerShowElapsed {
		line += fmt.Sprintf(" (%ds)", int(elapsed/time.Second))
	}
	return line
}
