package models

// UserProfile describes the single local user. DailyStreak and
// LastTestCompletedDate are owned by the streak tracker; everything else is
// edited directly through the settings repository.
type UserProfile struct {
	Name                  string `json:"name"`
	Class                 string `json:"class,omitempty"`
	TargetYear            *int   `json:"targetYear,omitempty"`
	DailyStreak           int    `json:"dailyStreak"`
	LastTestCompletedDate string `json:"lastTestCompletedDate,omitempty"` // YYYY-MM-DD
	WeeklyTestGoal        int    `json:"weeklyTestGoal"`
}
