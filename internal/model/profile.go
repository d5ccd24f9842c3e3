package model

import (
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
)

const (
	ThemeModeDark  = "dark"
	ThemeModeLight = "light"
)

var ThemeColors = []string{"indigo", "emerald", "violet", "rose", "amber", "blue"}

const DefaultThemeColor = "indigo"

// Profile holds the progress and preferences of a user. LastDailyChallenge is
// global across careers and drives the streak.
type Profile struct {
	UserID             string        `db:"user_id" json:"userId"`
	Email              string        `db:"email" json:"email,omitempty"`
	OnboardingComplete bool          `db:"onboarding_complete" json:"onboardingComplete"`
	ThemeMode          string        `db:"theme_mode" json:"themeMode"`
	ThemeColor         string        `db:"theme_color" json:"themeColor"`
	XP                 int           `db:"xp" json:"xp"`
	Streak             int           `db:"streak" json:"streak"`
	LastDailyChallenge calendar.Date `db:"last_daily_challenge" json:"lastDailyChallenge"`
	CurrentCareerID    string        `db:"current_career_id" json:"currentCareerId,omitempty"`
	CreatedAt          time.Time     `db:"created_at" json:"-"`
	UpdatedAt          time.Time     `db:"updated_at" json:"-"`

	// Computed fields (not in database)
	ActiveCareers []*CareerTrack `db:"-" json:"activeCareers"`
}

func ValidThemeColor(color string) bool {
	for _, c := range ThemeColors {
		if c == color {
			return true
		}
	}
	return false
}
