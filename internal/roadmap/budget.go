package roadmap

import (
	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

// Budget is the number of calendar days the generated content must fit in.
type Budget struct {
	Days int `json:"days"`
	// CrashCourse is set when the target date is already in the past.
	CrashCourse bool `json:"crashCourse"`
}

// DayBudget counts the days from today to target, both inclusive.
func DayBudget(today, target calendar.Date) Budget {
	diff := target.DaysSince(today)
	if diff < 0 {
		return Budget{Days: 1, CrashCourse: true}
	}
	return Budget{Days: diff + 1}
}

// DaysRemaining is the inclusive day count shown next to a roadmap. A fully
// completed roadmap has nothing remaining.
func DaysRemaining(target, today calendar.Date, phases []model.RoadmapPhase) int {
	if model.Phases(phases).IsComplete() {
		return 0
	}
	diff := target.DaysSince(today)
	if diff < 0 {
		return 0
	}
	return diff + 1
}
