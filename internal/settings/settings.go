package settings

import (
	"encoding/json"
	"fmt"

	"github.com/example/omrsheet/internal/database"
	"github.com/example/omrsheet/pkg/models"
)

// SettingsKey is the single fixed key the composite settings record lives
// under in the key/value space.
const SettingsKey = "omrsheet_settings"

// Default values applied on first run or when the stored record is corrupt
const (
	DefaultMarkingCorrect       = 4
	DefaultMarkingIncorrect     = -1
	DefaultTimerDurationMinutes = 10
	DefaultWeeklyTestGoal       = 3
)

// Defaults returns a fresh copy of the hard-coded default settings
func Defaults() models.Settings {
	duration := DefaultTimerDurationMinutes
	return models.Settings{
		Theme: "system",
		ScoringRules: models.ScoringRules{
			Correct:   DefaultMarkingCorrect,
			Incorrect: DefaultMarkingIncorrect,
		},
		TimerPreferences: models.TimerPreferences{
			DefaultMode:            models.TimerModeTimer,
			DefaultDurationMinutes: &duration,
		},
		Profile: models.UserProfile{
			WeeklyTestGoal: DefaultWeeklyTestGoal,
		},
		IsOnboardingComplete: false,
	}
}

// Repository owns the composite settings record: scoring-rule defaults,
// timer defaults, the user profile (including streak fields) and the
// onboarding flag. It keeps an in-memory copy and persists the whole record
// as one JSON document on every change.
//
// A Repository is created once and passed to whichever component needs it;
// there is no package-level instance.
type Repository struct {
	store   database.Store
	current models.Settings
	loaded  bool
}

// NewRepository creates a repository backed by the given store
func NewRepository(store database.Store) *Repository {
	return &Repository{store: store}
}

// Load reads the settings record from the store. On a missing or corrupt
// record it falls back to defaults and rewrites the store; parse failures
// are never returned to the caller.
func (r *Repository) Load() models.Settings {
	raw, ok, err := r.store.Get(SettingsKey)
	if err != nil || !ok {
		r.current = Defaults()
		r.loaded = true
		_ = r.persist()
		return r.current
	}

	var s models.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Corrupt record: reset to defaults rather than failing the caller
		r.current = Defaults()
		r.loaded = true
		_ = r.persist()
		return r.current
	}

	r.current = s
	r.loaded = true
	return r.current
}

// Current returns the in-memory settings, loading them first if needed
func (r *Repository) Current() models.Settings {
	if !r.loaded {
		return r.Load()
	}
	return r.current
}

// WeeklyTestGoal returns the profile's weekly test goal
func (r *Repository) WeeklyTestGoal() int {
	return r.Current().Profile.WeeklyTestGoal
}

// Save merges the given mutation into the composite and persists it whole.
// The read-merge-write runs synchronously with no intervening yield, so
// concurrent setting changes cannot lose updates.
func (r *Repository) Save(mutate func(*models.Settings)) error {
	s := r.Current()
	mutate(&s)
	r.current = s
	return r.persist()
}

// SetScoringRules replaces the scoring-rule defaults
func (r *Repository) SetScoringRules(rules models.ScoringRules) error {
	return r.Save(func(s *models.Settings) { s.ScoringRules = rules })
}

// SetTimerPreferences replaces the timer defaults
func (r *Repository) SetTimerPreferences(prefs models.TimerPreferences) error {
	return r.Save(func(s *models.Settings) { s.TimerPreferences = prefs })
}

// SetProfile replaces the user profile
func (r *Repository) SetProfile(profile models.UserProfile) error {
	return r.Save(func(s *models.Settings) { s.Profile = profile })
}

// SetTheme replaces the display theme
func (r *Repository) SetTheme(theme string) error {
	return r.Save(func(s *models.Settings) { s.Theme = theme })
}

// SetOnboardingComplete marks onboarding as finished
func (r *Repository) SetOnboardingComplete(done bool) error {
	return r.Save(func(s *models.Settings) { s.IsOnboardingComplete = done })
}

func (r *Repository) persist() error {
	data, err := json.Marshal(r.current)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %v", err)
	}
	if err := r.store.Set(SettingsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save settings: %v", err)
	}
	return nil
}
