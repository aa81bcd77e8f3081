// Package streak maintains the user's consecutive-day completion streak and
// weekly test-goal progress. It is the only component allowed to touch the
// streak fields of the profile.
package streak

import (
	"time"

	"github.com/example/omrsheet/internal/settings"
	"github.com/example/omrsheet/pkg/models"
)

// DateLayout is the day-granularity format stored in the profile
const DateLayout = "2006-01-02"

// Tracker updates the profile's streak fields through the settings
// repository whenever a test is evaluated.
type Tracker struct {
	settings *settings.Repository
	now      func() time.Time
}

// NewTracker creates a tracker over the given settings repository
func NewTracker(repo *settings.Repository) *Tracker {
	return &Tracker{settings: repo, now: time.Now}
}

// SetClock replaces the time source, for tests
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// RecordCompletion registers that a test was completed today and persists
// the updated streak. A first-ever completion starts the streak at 1; a
// repeat on the same day leaves it unchanged; a completion on the next
// calendar day extends it; any longer gap restarts it at 1.
func (t *Tracker) RecordCompletion() error {
	today := truncateToDay(t.now())

	return t.settings.Save(func(s *models.Settings) {
		s.Profile.DailyStreak = nextStreak(s.Profile, today)
		s.Profile.LastTestCompletedDate = today.Format(DateLayout)
	})
}

// nextStreak computes the new streak value for a completion on day today
func nextStreak(profile models.UserProfile, today time.Time) int {
	if profile.LastTestCompletedDate == "" {
		return 1
	}
	last, err := time.Parse(DateLayout, profile.LastTestCompletedDate)
	if err != nil {
		// Unreadable date: treat as a fresh start
		return 1
	}

	switch daysBetween(last, today) {
	case 0:
		return profile.DailyStreak
	case 1:
		return profile.DailyStreak + 1
	default:
		return 1
	}
}

// TestsCompletedThisWeek counts archived tests evaluated since the most
// recent Monday
func TestsCompletedThisWeek(tests []models.EvaluatedTest, now time.Time) int {
	weekStart := startOfWeek(truncateToDay(now))
	count := 0
	for i := range tests {
		ts := tests[i].EvaluatedAtTime()
		if !ts.IsZero() && !ts.Before(weekStart) {
			count++
		}
	}
	return count
}

// truncateToDay drops the time-of-day component
func truncateToDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

// daysBetween returns whole calendar days from a to b. Both are reduced to
// UTC dates first so daylight-saving shifts cannot skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// startOfWeek returns the Monday beginning the week containing day
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
