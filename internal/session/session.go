// Package session implements the live test attempt: a state machine that
// carries a configured answer sheet from start through answer capture and
// flagging to a single submitted snapshot, driving the countdown or
// stopwatch clock while it runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/omrsheet/pkg/models"
)

// State of a session. Submitted and Cancelled are terminal.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateSubmitted  State = "submitted"
	StateCancelled  State = "cancelled"
)

// Flag names a toggleable per-question marker
type Flag string

const (
	FlagReview Flag = "review"
	FlagLater  Flag = "later"
)

var (
	// ErrNotRunning is returned by operations that require a running session
	ErrNotRunning = errors.New("session is not running")
	// ErrAlreadyStarted is returned by Start on a session that already left NotStarted
	ErrAlreadyStarted = errors.New("session already started")
)

// Session is a single live test attempt. It owns the tick goroutine for the
// configured clock; the tick handle is acquired on entering Running and
// released on every exit path (submit, cancel, teardown), so no tick can
// fire after the session terminates.
type Session struct {
	mu        sync.Mutex
	state     State
	config    models.TestConfig
	questions []models.Question
	createdAt time.Time
	startedAt time.Time

	now        func() time.Time
	cancelTick context.CancelFunc

	// OnTick receives the remaining seconds (timer mode) or the elapsed
	// seconds (stopwatch mode) once per second while the session runs.
	OnTick func(seconds int)
	// OnExpired fires once when a countdown reaches zero. The session keeps
	// running; submission stays an explicit user action.
	OnExpired func()
}

// New creates a session over a built configuration and its question sheet.
// The questions are copied; the caller's slice is not mutated.
func New(config models.TestConfig, questions []models.Question) *Session {
	return &Session{
		state:     StateNotStarted,
		config:    config,
		questions: models.CloneQuestions(questions),
		createdAt: time.Now(),
		now:       time.Now,
	}
}

// SetClock replaces the time source, for tests
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.createdAt = now()
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the configuration the session was created with
func (s *Session) Config() models.TestConfig {
	return s.config
}

// Questions returns a deep copy of the current question state
func (s *Session) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneQuestions(s.questions)
}

// RequiresConfirmation reports whether leaving now would abandon a live
// attempt; the hosting surface should prompt before navigating away.
func (s *Session) RequiresConfirmation() bool {
	return s.State() == StateRunning
}

// Start moves the session from NotStarted to Running, captures the start
// time and, unless the clock mode is none, acquires the tick goroutine.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	s.state = StateRunning
	s.startedAt = s.now()

	if s.config.TimerMode != models.TimerModeNone {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancelTick = cancel
		go s.runTicker(ctx)
	}
	return nil
}

// runTicker drives the once-per-second clock callbacks until the context is
// cancelled. A countdown that reaches zero notifies once and stops ticking.
// The loop re-checks the session state before every callback so a tick in
// flight during submit or cancel falls through without effect.
func (s *Session) runTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.State() != StateRunning {
				return
			}
			if s.config.TimerMode == models.TimerModeTimer {
				remaining := s.RemainingSeconds()
				if s.OnTick != nil {
					s.OnTick(remaining)
				}
				if remaining <= 0 {
					if s.OnExpired != nil {
						s.OnExpired()
					}
					return
				}
			} else {
				if s.OnTick != nil {
					s.OnTick(s.ElapsedSeconds())
				}
			}
		}
	}
}

// ElapsedSeconds returns whole seconds since the session started
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return int(s.now().Sub(s.startedAt) / time.Second)
}

// RemainingSeconds returns the countdown value for timer mode, floored at
// zero. For other modes it returns 0.
func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config.TimerMode != models.TimerModeTimer || s.config.DurationMinutes == nil {
		return 0
	}
	if s.startedAt.IsZero() {
		return *s.config.DurationMinutes * 60
	}
	elapsed := int(s.now().Sub(s.startedAt) / time.Second)
	remaining := *s.config.DurationMinutes*60 - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// SelectAnswer records the chosen option for a question, overwriting any
// previous selection. Idempotent.
func (s *Session) SelectAnswer(questionID string, option models.Option) error {
	if !models.IsValidOption(option) {
		return fmt.Errorf("invalid option %q", option)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	q := s.findQuestion(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	o := option
	q.UserAnswer = &o
	return nil
}

// ClearAnswer deselects a question, returning it to unattempted
func (s *Session) ClearAnswer(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	q := s.findQuestion(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	q.UserAnswer = nil
	return nil
}

// ToggleFlag flips one of the two independent per-question markers
func (s *Session) ToggleFlag(questionID string, flag Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return ErrNotRunning
	}
	q := s.findQuestion(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	switch flag {
	case FlagReview:
		q.IsMarkedForReview = !q.IsMarkedForReview
	case FlagLater:
		q.IsMarkedForLater = !q.IsMarkedForLater
	default:
		return fmt.Errorf("unknown flag %q", flag)
	}
	return nil
}

// Submit freezes the session and returns the immutable snapshot for
// self-evaluation. It is single-shot: the first call wins and any further
// call returns ErrNotRunning. The tick handle is released before returning.
func (s *Session) Submit() (*models.Snapshot, error) {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return nil, ErrNotRunning
	}
	s.state = StateSubmitted
	submittedAt := s.now()
	elapsed := int(submittedAt.Sub(s.startedAt) / time.Second)
	snapshot := &models.Snapshot{
		Config:             s.config,
		Questions:          models.CloneQuestions(s.questions),
		CreatedAt:          s.createdAt,
		SubmittedAt:        submittedAt,
		ElapsedTimeSeconds: &elapsed,
	}
	s.mu.Unlock()

	s.stopTicker()
	return snapshot, nil
}

// Cancel abandons the attempt, releasing the tick goroutine and discarding
// all in-progress state. Nothing is persisted.
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateNotStarted {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = StateCancelled
	s.questions = nil
	s.mu.Unlock()

	s.stopTicker()
	return nil
}

// Close releases the tick goroutine without changing answered state; safe to
// call on any state and more than once.
func (s *Session) Close() {
	s.stopTicker()
}

// stopTicker releases the tick handle exactly once
func (s *Session) stopTicker() {
	s.mu.Lock()
	cancel := s.cancelTick
	s.cancelTick = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// findQuestion returns the live question with the given id; callers hold the lock
func (s *Session) findQuestion(id string) *models.Question {
	for i := range s.questions {
		if s.questions[i].ID == id {
			return &s.questions[i]
		}
	}
	return nil
}
