package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/omrsheet/internal/exam"
	"github.com/example/omrsheet/pkg/models"
)

func intPtr(v int) *int { return &v }

func timerConfig(minutes int) models.TestConfig {
	return models.TestConfig{
		Name:              "Timed Mock",
		NumberOfQuestions: 5,
		TimerMode:         models.TimerModeTimer,
		DurationMinutes:   intPtr(minutes),
		MarkingCorrect:    4,
		MarkingIncorrect:  -1,
	}
}

func noneConfig() models.TestConfig {
	return models.TestConfig{
		Name:              "Untimed Mock",
		NumberOfQuestions: 5,
		TimerMode:         models.TimerModeNone,
		MarkingCorrect:    4,
		MarkingIncorrect:  -1,
	}
}

// fakeClock returns a controllable time source starting at base. The clock
// is locked because the tick goroutine reads it concurrently.
func fakeClock(base time.Time) (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	current := base
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(d)
	}
	return now, advance
}

func newRunning(t *testing.T, config models.TestConfig) (*Session, []models.Question) {
	t.Helper()
	questions := exam.GenerateQuestions(config.NumberOfQuestions)
	s := New(config, questions)
	require.NoError(t, s.Start())
	t.Cleanup(s.Close)
	return s, questions
}

func TestLifecycle_States(t *testing.T) {
	s := New(noneConfig(), exam.GenerateQuestions(5))
	assert.Equal(t, StateNotStarted, s.State())
	assert.False(t, s.RequiresConfirmation())

	require.NoError(t, s.Start())
	assert.Equal(t, StateRunning, s.State())
	assert.True(t, s.RequiresConfirmation())
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)

	_, err := s.Submit()
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, s.State())
	assert.False(t, s.RequiresConfirmation())
}

func TestAnswersAndFlags(t *testing.T) {
	s, questions := newRunning(t, noneConfig())
	id := questions[2].ID

	require.NoError(t, s.SelectAnswer(id, models.Option3))
	// Overwriting is allowed and idempotent
	require.NoError(t, s.SelectAnswer(id, models.Option1))
	require.NoError(t, s.SelectAnswer(id, models.Option1))

	got := s.Questions()
	require.NotNil(t, got[2].UserAnswer)
	assert.Equal(t, models.Option1, *got[2].UserAnswer)

	require.NoError(t, s.ClearAnswer(id))
	assert.Nil(t, s.Questions()[2].UserAnswer)

	require.NoError(t, s.ToggleFlag(id, FlagReview))
	require.NoError(t, s.ToggleFlag(id, FlagLater))
	got = s.Questions()
	assert.True(t, got[2].IsMarkedForReview)
	assert.True(t, got[2].IsMarkedForLater)

	// Flags toggle independently
	require.NoError(t, s.ToggleFlag(id, FlagReview))
	got = s.Questions()
	assert.False(t, got[2].IsMarkedForReview)
	assert.True(t, got[2].IsMarkedForLater)
}

func TestAnswerValidation(t *testing.T) {
	s, questions := newRunning(t, noneConfig())

	assert.Error(t, s.SelectAnswer(questions[0].ID, "5"))
	assert.Error(t, s.SelectAnswer("missing", models.Option1))
	assert.Error(t, s.ToggleFlag(questions[0].ID, "starred"))
}

func TestRemainingSeconds_FloorsAtZero(t *testing.T) {
	now, advance := fakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	s := New(timerConfig(1), exam.GenerateQuestions(5))
	s.SetClock(now)
	require.NoError(t, s.Start())
	defer s.Close()

	assert.Equal(t, 60, s.RemainingSeconds())

	advance(30 * time.Second)
	assert.Equal(t, 30, s.RemainingSeconds())

	// One second past the deadline must read 0, never negative
	advance(31 * time.Second)
	assert.Equal(t, 0, s.RemainingSeconds())
}

func TestSubmit_SnapshotAndSingleShot(t *testing.T) {
	now, advance := fakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	s := New(noneConfig(), exam.GenerateQuestions(5))
	s.SetClock(now)
	require.NoError(t, s.Start())
	defer s.Close()

	questions := s.Questions()
	require.NoError(t, s.SelectAnswer(questions[0].ID, models.Option2))
	advance(95 * time.Second)

	snapshot, err := s.Submit()
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.NotNil(t, snapshot.ElapsedTimeSeconds)
	assert.Equal(t, 95, *snapshot.ElapsedTimeSeconds)
	assert.Equal(t, now(), snapshot.SubmittedAt)
	require.NotNil(t, snapshot.Questions[0].UserAnswer)
	assert.Equal(t, models.Option2, *snapshot.Questions[0].UserAnswer)

	// A second submit must not produce another snapshot
	again, err := s.Submit()
	assert.Nil(t, again)
	assert.ErrorIs(t, err, ErrNotRunning)

	// The frozen snapshot is independent of the session
	assert.ErrorIs(t, s.SelectAnswer(questions[0].ID, models.Option4), ErrNotRunning)
}

func TestCancel_DiscardsState(t *testing.T) {
	s, questions := newRunning(t, timerConfig(10))
	require.NoError(t, s.SelectAnswer(questions[0].ID, models.Option1))

	require.NoError(t, s.Cancel())
	assert.Equal(t, StateCancelled, s.State())
	assert.Empty(t, s.Questions())

	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.ErrorIs(t, s.Cancel(), ErrNotRunning)
}

func TestSessionCopiesCallerQuestions(t *testing.T) {
	questions := exam.GenerateQuestions(3)
	s := New(noneConfig(), questions)
	require.NoError(t, s.Start())
	defer s.Close()

	require.NoError(t, s.SelectAnswer(questions[1].ID, models.Option2))
	assert.Nil(t, questions[1].UserAnswer, "caller slice must stay untouched")
}

func TestClose_Idempotent(t *testing.T) {
	s, _ := newRunning(t, timerConfig(5))
	s.Close()
	s.Close()
}
