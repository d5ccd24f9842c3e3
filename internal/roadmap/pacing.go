package roadmap

import (
	"fmt"
	"math"
	"time"
)

type PacingStatus string

const (
	PacingAhead    PacingStatus = "ahead"
	PacingOnTrack  PacingStatus = "on-track"
	PacingBehind   PacingStatus = "behind"
	PacingCritical PacingStatus = "critical"
)

const (
	aheadMargin  = 0.05
	behindMargin = 0.10
)

type Pacing struct {
	Status  PacingStatus `json:"status"`
	LagDays int          `json:"lagDays,omitempty"`
	Message string       `json:"message"`
}

// ComputePacing compares progress against the share of the schedule that has
// elapsed between start and deadline. The margins are asymmetric so small
// fluctuations around the expected ratio stay on track.
func ComputePacing(start, deadline, now time.Time, percent int) Pacing {
	total := deadline.Sub(start)
	if total <= 0 {
		return Pacing{Status: PacingCritical, Message: "Target date passed"}
	}

	expected := float64(now.Sub(start)) / float64(total)
	actual := float64(percent) / 100

	switch {
	case actual >= expected+aheadMargin:
		return Pacing{Status: PacingAhead, Message: "Ahead of schedule"}
	case actual < expected-behindMargin:
		lag := int(math.Ceil((expected - actual) * float64(total) / float64(24*time.Hour)))
		return Pacing{Status: PacingBehind, LagDays: lag, Message: fmt.Sprintf("%d days behind", lag)}
	default:
		return Pacing{Status: PacingOnTrack, Message: "On track"}
	}
}
