package roadmap

import (
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

// Partition splits phases into the maximal prefix of complete phases and the
// remainder. Completed phases after the first incomplete one are discarded
// with it, so the preserved part is always contiguous.
func Partition(phases []model.RoadmapPhase) (preserved, discarded []model.RoadmapPhase) {
	i := 0
	for i < len(phases) && phases[i].IsComplete() {
		i++
	}
	return phases[:i], phases[i:]
}

// Merge appends generated phases to the preserved prefix. Generated items are
// reset to pending and any id already used by the prefix is replaced.
func Merge(preserved, generated []model.RoadmapPhase, newID func() string) model.Phases {
	used := make(map[string]bool)
	out := model.Phases(preserved).Clone()
	for _, p := range out {
		for _, item := range p.Items {
			used[item.ID] = true
		}
	}

	for _, p := range model.Phases(generated).Clone() {
		p.CompletionSummary = ""
		for j := range p.Items {
			item := &p.Items[j]
			if item.ID == "" || used[item.ID] {
				item.ID = newID()
			}
			used[item.ID] = true
			item.Status = model.ItemStatusPending
			item.CompletedAt = nil
		}
		out = append(out, p)
	}
	return out
}
