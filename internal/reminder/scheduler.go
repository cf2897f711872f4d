package reminder

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/timecalc"
)

// Source supplies the state a check reads.
type Source interface {
	Settings() model.Settings
	DayLog(key model.DateKey) model.DayLog
}

// Presenter shows a notice to the user.
type Presenter interface {
	Present(n Notice) error
}

// Console writes notices as text lines.
type Console struct {
	W io.Writer
}

func (c Console) Present(n Notice) error {
	_, err := fmt.Fprintf(c.W, "%s %s (hourlog log <activity> --date %s --hour %d)\n", n.Title, n.Body, n.Date, n.Hour)
	return err
}

// Multi presents each notice with every presenter, returning the first error.
type Multi []Presenter

func (m Multi) Present(n Notice) error {
	var first error
	for _, p := range m {
		if err := p.Present(n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Scheduler runs the reminder check periodically. At most one loop runs at a
// time; Start replaces a running loop.
type Scheduler struct {
	Source    Source
	Presenter Presenter
	Interval  time.Duration
	Grace     int
	Now       func() time.Time
	Logger    *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	lastMu sync.Mutex
	last   Notice
}

// Start cancels any running loop, checks once right away and then every
// Interval until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.Check()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Check()
			}
		}
	}()
}

// Stop ends the running loop, if any, and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// Check runs one evaluation and presents a notice when one is due. Each
// (date, hour) is presented at most once per Scheduler.
func (s *Scheduler) Check() {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	n, ok := Due(now, s.Source.Settings(), s.Source.DayLog(timecalc.DateKeyOf(now)), s.grace())
	if !ok {
		return
	}

	s.lastMu.Lock()
	if s.last.Date == n.Date && s.last.Hour == n.Hour {
		s.lastMu.Unlock()
		return
	}
	s.last = n
	s.lastMu.Unlock()

	if err := s.Presenter.Present(n); err != nil {
		s.logger().Printf("warning: presenting reminder: %v", err)
	}
}

func (s *Scheduler) grace() int {
	if s.Grace <= 0 {
		return DefaultGrace
	}
	return s.Grace
}

func (s *Scheduler) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}
