// Package evaluate turns a submitted test snapshot into a scored,
// archivable record. The user judges each attempted question as correct or
// incorrect; unattempted questions never require judgment.
package evaluate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/omrsheet/internal/history"
	"github.com/example/omrsheet/internal/streak"
	"github.com/example/omrsheet/pkg/models"
)

// ErrIncomplete is returned by Finalize while any attempted question still
// lacks a judgment
var ErrIncomplete = errors.New("evaluation incomplete: every attempted question needs a judgment")

// Evaluator walks a submitted snapshot collecting correctness judgments.
// It never mutates the snapshot it was given.
type Evaluator struct {
	snapshot  models.Snapshot
	questions []models.Question
	now       func() time.Time
}

// New creates an evaluator over a submitted snapshot. All prior judgments
// on the snapshot are cleared; evaluation always starts fresh.
func New(snapshot models.Snapshot) *Evaluator {
	questions := models.CloneQuestions(snapshot.Questions)
	for i := range questions {
		questions[i].IsCorrect = nil
	}
	return &Evaluator{
		snapshot:  snapshot,
		questions: questions,
		now:       time.Now,
	}
}

// SetClock replaces the time source, for tests
func (e *Evaluator) SetClock(now func() time.Time) {
	e.now = now
}

// Questions returns a copy of the questions with judgments applied so far
func (e *Evaluator) Questions() []models.Question {
	return models.CloneQuestions(e.questions)
}

// Judge records whether the user's answer to a question was correct.
// Judging an unattempted question is rejected.
func (e *Evaluator) Judge(questionID string, correct bool) error {
	q := e.findQuestion(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	if !q.Attempted() {
		return fmt.Errorf("question %q was not attempted", questionID)
	}
	v := correct
	q.IsCorrect = &v
	return nil
}

// ClearJudgment removes a previously recorded judgment
func (e *Evaluator) ClearJudgment(questionID string) error {
	q := e.findQuestion(questionID)
	if q == nil {
		return fmt.Errorf("unknown question %q", questionID)
	}
	q.IsCorrect = nil
	return nil
}

// Pending returns how many attempted questions still lack a judgment
func (e *Evaluator) Pending() int {
	pending := 0
	for i := range e.questions {
		q := &e.questions[i]
		if q.Attempted() && q.IsCorrect == nil {
			pending++
		}
	}
	return pending
}

// Finalize checks that every attempted question has been judged, computes
// the score details and returns the finished record. CreatedAt and
// SubmittedAt carry the real moments from the session snapshot; only
// EvaluatedAt is stamped now.
func (e *Evaluator) Finalize() (*models.EvaluatedTest, error) {
	if e.Pending() > 0 {
		return nil, ErrIncomplete
	}

	details := Score(e.questions, e.snapshot.Config)

	return &models.EvaluatedTest{
		ID:                 uuid.NewString(),
		Name:               e.snapshot.Config.Name,
		Config:             e.snapshot.Config,
		Questions:          models.CloneQuestions(e.questions),
		Status:             models.StatusEvaluated,
		CreatedAt:          e.snapshot.CreatedAt.Format(time.RFC3339),
		SubmittedAt:        e.snapshot.SubmittedAt.Format(time.RFC3339),
		EvaluatedAt:        e.now().Format(time.RFC3339),
		ScoreDetails:       details,
		ElapsedTimeSeconds: e.snapshot.ElapsedTimeSeconds,
	}, nil
}

// Score computes the score details for a fully judged question set.
// Unattempted questions contribute nothing; correct and incorrect answers
// add the configured marks. Percentage is accuracy over attempted
// questions, 0 when nothing was attempted.
func Score(questions []models.Question, config models.TestConfig) models.ScoreDetails {
	var details models.ScoreDetails
	for i := range questions {
		q := &questions[i]
		switch {
		case !q.Attempted():
			details.UnattemptedCount++
		case q.IsCorrect != nil && *q.IsCorrect:
			details.CorrectCount++
			details.Score += config.MarkingCorrect
		case q.IsCorrect != nil:
			details.IncorrectCount++
			details.Score += config.MarkingIncorrect
		}
	}
	attempted := details.CorrectCount + details.IncorrectCount
	if attempted > 0 {
		details.Percentage = float64(details.CorrectCount) / float64(attempted) * 100
	}
	return details
}

// Complete finalizes the evaluation, archives the record and updates the
// streak. The evaluated record is returned even when archiving fails, so
// the result the user just produced is never lost from view; the save error
// is reported alongside it.
func (e *Evaluator) Complete(archive *history.Archive, tracker *streak.Tracker) (*models.EvaluatedTest, error) {
	test, err := e.Finalize()
	if err != nil {
		return nil, err
	}
	if err := archive.Append(test); err != nil {
		return test, fmt.Errorf("failed to save evaluated test: %v", err)
	}
	if tracker != nil {
		if err := tracker.RecordCompletion(); err != nil {
			return test, fmt.Errorf("failed to update streak: %v", err)
		}
	}
	return test, nil
}

func (e *Evaluator) findQuestion(id string) *models.Question {
	for i := range e.questions {
		if e.questions[i].ID == id {
			return &e.questions[i]
		}
	}
	return nil
}
