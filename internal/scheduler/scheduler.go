package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/omrsheet/internal/history"
	"github.com/example/omrsheet/internal/streak"
)

// Default window in which goal reminders may fire
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Notifier delivers goal reminders to whatever front end is attached
type Notifier interface {
	SendGoalReminder(completed, goal int) error
}

// GoalSource reports the user's current weekly test goal
type GoalSource interface {
	WeeklyTestGoal() int
}

// Scheduler periodically checks weekly goal progress and nudges the user
// while the goal is unmet.
type Scheduler struct {
	scheduler *gocron.Scheduler
	archive   *history.Archive
	goals     GoalSource
	notifier  Notifier
}

// New creates a scheduler instance
func New(archive *history.Archive, goals GoalSource, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		archive:   archive,
		goals:     goals,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly check for weekly goal progress
	s.scheduler.Every(1).Hour().Do(s.checkGoalProgress)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkGoalProgress sends a reminder when the weekly goal is still unmet
// and the current hour falls inside the reminder window
func (s *Scheduler) checkGoalProgress() {
	currentHour := time.Now().Hour()

	startHour := DefaultReminderStartHour
	endHour := DefaultReminderEndHour

	if startHourStr := os.Getenv("REMINDER_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("REMINDER_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping goal check",
			currentHour, startHour, endHour)
		return
	}

	goal := s.goals.WeeklyTestGoal()
	if goal <= 0 {
		return
	}

	tests, _, err := s.archive.ListAll()
	if err != nil {
		log.Printf("Error reading history for goal check: %v", err)
		return
	}

	completed := streak.TestsCompletedThisWeek(tests, time.Now())
	if completed >= goal {
		return
	}

	if err := s.notifier.SendGoalReminder(completed, goal); err != nil {
		log.Printf("Error sending goal reminder: %v", err)
	}
}

// RunManualCheck forces a goal-progress check regardless of the hour window
func (s *Scheduler) RunManualCheck() error {
	goal := s.goals.WeeklyTestGoal()
	if goal <= 0 {
		return nil
	}
	tests, _, err := s.archive.ListAll()
	if err != nil {
		return err
	}
	completed := streak.TestsCompletedThisWeek(tests, time.Now())
	if completed < goal {
		return s.notifier.SendGoalReminder(completed, goal)
	}
	return nil
}
