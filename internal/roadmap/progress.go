package roadmap

import (
	"errors"
	"math"
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrItemNotFound  = errors.New("roadmap item not found")
	ErrPhaseNotFound = errors.New("roadmap phase not found")
)

// Event is raised by a toggle that completes a phase or the whole roadmap.
type Event string

const (
	EventNone             Event = ""
	EventPhaseCompleted   Event = "phase_completed"
	EventRoadmapCompleted Event = "roadmap_completed"
)

type ToggleResult struct {
	Phases     model.Phases
	Item       model.RoadmapItem
	PhaseIndex int
	Event      Event
}

// Toggle flips one item between not-completed and completed. The input is not
// modified. A roadmap completion suppresses the phase completion event.
func Toggle(phases []model.RoadmapPhase, itemID string, now time.Time) (ToggleResult, error) {
	out := model.Phases(phases).Clone()

	for pi := range out {
		for ii := range out[pi].Items {
			item := &out[pi].Items[ii]
			if item.ID != itemID {
				continue
			}

			wasComplete := out[pi].IsComplete()
			if item.IsCompleted() {
				item.Status = model.ItemStatusPending
				item.CompletedAt = nil
			} else {
				completedAt := now
				item.Status = model.ItemStatusCompleted
				item.CompletedAt = &completedAt
			}

			res := ToggleResult{Phases: out, Item: *item, PhaseIndex: pi}
			switch {
			case out.IsComplete():
				res.Event = EventRoadmapCompleted
			case !wasComplete && out[pi].IsComplete():
				res.Event = EventPhaseCompleted
			}
			return res, nil
		}
	}

	return ToggleResult{}, ErrItemNotFound
}

// Percent is the share of completed items, rounded to a whole percent.
func Percent(phases []model.RoadmapPhase) int {
	completed, total := model.Phases(phases).Counts()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// ResetPhase sets every item of one phase back to pending and clears its summary.
func ResetPhase(phases []model.RoadmapPhase, index int) (model.Phases, error) {
	if index < 0 || index >= len(phases) {
		return nil, ErrPhaseNotFound
	}
	out := model.Phases(phases).Clone()
	resetPhase(&out[index])
	return out, nil
}

// ResetAll sets every item back to pending.
func ResetAll(phases []model.RoadmapPhase) model.Phases {
	out := model.Phases(phases).Clone()
	for i := range out {
		resetPhase(&out[i])
	}
	return out
}

func resetPhase(p *model.RoadmapPhase) {
	p.CompletionSummary = ""
	for i := range p.Items {
		p.Items[i].Status = model.ItemStatusPending
		p.Items[i].CompletedAt = nil
	}
}
