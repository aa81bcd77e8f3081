package models

// ScoringRules holds the default marks applied per judgment
type ScoringRules struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// TimerPreferences holds the default clock behavior for new tests
type TimerPreferences struct {
	DefaultMode            TimerMode `json:"defaultMode"`
	DefaultDurationMinutes *int      `json:"defaultDurationMinutes,omitempty"`
}

// Settings is the single composite record persisted under the settings key.
// It is always written whole; partial updates merge in memory first.
type Settings struct {
	Theme                string           `json:"theme"`
	ScoringRules         ScoringRules     `json:"scoringRules"`
	TimerPreferences     TimerPreferences `json:"timerPreferences"`
	Profile              UserProfile      `json:"userProfile"`
	IsOnboardingComplete bool             `json:"isOnboardingComplete"`
}
