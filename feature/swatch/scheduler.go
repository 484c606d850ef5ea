package swatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the scheduler lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Runner executes one pass.
type Runner interface {
	RunOnce(ctx context.Context) PassResult
}

// Scheduler runs a pass at start and then once per interval, measured from
// the end of the previous pass, until its context is cancelled.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *zap.Logger

	// After is the timer used between passes.
	After func(time.Duration) <-chan time.Time

	mu    sync.RWMutex
	state State
	last  *PassResult
	runs  int
}

// NewScheduler creates an idle scheduler.
func NewScheduler(runner Runner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
		After:    time.After,
		state:    StateIdle,
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastResult returns the most recent pass result, if any.
func (s *Scheduler) LastResult() (PassResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return PassResult{}, false
	}
	return *s.last, true
}

// Runs returns the number of passes executed.
func (s *Scheduler) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}

// Run blocks until ctx is cancelled. Pass failures are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) {
	defer s.setState(StateStopped)

	for {
		if ctx.Err() != nil {
			s.logger.Info("Scheduler stopped before next pass")
			return
		}

		s.setState(StateRunning)
		result := s.runner.RunOnce(ctx)
		s.record(result)
		s.setState(StateIdle)

		if result.Err != nil {
			s.logger.Warn("Scheduled pass failed; retrying next interval",
				zap.String("pass_id", result.ID),
				zap.Duration("interval", s.interval),
				zap.Error(result.Err),
			)
		}

		if ctx.Err() != nil {
			s.logger.Info("Scheduler stopped after pass")
			return
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped while waiting")
			return
		case <-s.After(s.interval):
		}
	}
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Scheduler) record(result PassResult) {
	s.mu.Lock()
	s.last = &result
	s.runs++
	s.mu.Unlock()
}
