package model

import (
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
)

const (
	QuestKindDailyChallenge = "daily_challenge"
	QuestKindSimulation     = "simulation"
)

const (
	DailyChallengeXP = 10
	StreakMilestone  = 100
	XPMilestone      = 1000
)

// Quest is an issued challenge or simulation whose answer is graded server-side.
type Quest struct {
	ID         string        `db:"id"`
	UserID     string        `db:"user_id"`
	CareerID   string        `db:"career_id"`
	Kind       string        `db:"kind"`
	Day        calendar.Date `db:"day"`
	Payload    string        `db:"payload"`
	ResolvedAt *time.Time    `db:"resolved_at"`
	CreatedAt  time.Time     `db:"created_at"`
}

func (q *Quest) IsResolved() bool {
	return q.ResolvedAt != nil
}

type DailyChallenge struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

type SimulationOption struct {
	Text    string `json:"text"`
	Outcome string `json:"outcome"`
	Score   int    `json:"score"`
}

type Simulation struct {
	Title    string             `json:"title"`
	Scenario string             `json:"scenario"`
	Role     string             `json:"role"`
	Options  []SimulationOption `json:"options"`
}

type TriviaQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type AssessmentQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

type SkillAssessment struct {
	Questions []AssessmentQuestion `json:"questions"`
}

type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Date    string `json:"date"`
}

// Milestone names a gamification threshold reached by an XP award.
type Milestone string

const (
	MilestoneNone   Milestone = ""
	MilestoneStreak Milestone = "streak"
	MilestoneXP     Milestone = "xp"
)
