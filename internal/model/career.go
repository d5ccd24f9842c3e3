package model

import (
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// CareerTrack is one career a user is actively pursuing.
type CareerTrack struct {
	UserID               string          `db:"user_id" json:"-"`
	CareerID             string          `db:"career_id" json:"careerId"`
	Title                string          `db:"title" json:"title"`
	EducationYear        string          `db:"education_year" json:"educationYear"`
	ExperienceLevel      ExperienceLevel `db:"experience_level" json:"experienceLevel"`
	FocusAreas           string          `db:"focus_areas" json:"focusAreas,omitempty"`
	TargetCompletionDate calendar.Date   `db:"target_completion_date" json:"targetCompletionDate"`
	LastDailyChallenge   calendar.Date   `db:"last_daily_challenge" json:"lastDailyChallenge"`
	AddedAt              time.Time       `db:"added_at" json:"addedAt"`
}

// CareerOption is a suggested career as returned by interest analysis or search.
type CareerOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FitScore    int    `json:"fitScore"`
	Reason      string `json:"reason"`
}

// CareerSnapshot persists the option a track was created from.
type CareerSnapshot struct {
	UserID      string    `db:"user_id"`
	CareerID    string    `db:"career_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	FitScore    int       `db:"fit_score"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

func (s *CareerSnapshot) Option() CareerOption {
	return CareerOption{
		ID:          s.CareerID,
		Title:       s.Title,
		Description: s.Description,
		FitScore:    s.FitScore,
		Reason:      s.Reason,
	}
}
