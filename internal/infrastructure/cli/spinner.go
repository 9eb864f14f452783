package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/doeshing/hansli-go/internal/ports"
)

// Spinner displays an animated spinner during long operations
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
	}
}

// Start begins the spinner animation with an optional label.
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		idx := 0
		for {
			fmt.Fprintf(s.writer, "\r%s %s", s.frames[idx%len(s.frames)], label)
			idx++
			select {
			case <-stop:
				// Clear the spinner line
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner animation
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
}

// WithSpinner shows a spinner on w while sessions wait for the model.
// Non-terminal writers get the opener back unchanged.
func WithSpinner(opener ports.SessionOpener, w io.Writer) ports.SessionOpener {
	if !isTerminal(w) {
		return opener
	}
	return spinningOpener{opener: opener, spinner: NewSpinner(w)}
}

type spinningOpener struct {
	opener  ports.SessionOpener
	spinner *Spinner
}

func (o spinningOpener) Open(ctx context.Context, name string) (ports.ChatSession, error) {
	session, err := o.opener.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return spinningSession{ChatSession: session, spinner: o.spinner}, nil
}

type spinningSession struct {
	ports.ChatSession
	spinner *Spinner
}

func (s spinningSession) Chat(ctx context.Context, prompt string) (string, error) {
	s.spinner.Start("waiting for " + s.Name() + " reply")
	defer s.spinner.Stop()
	return s.ChatSession.Chat(ctx, prompt)
}
