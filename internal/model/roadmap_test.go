package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhasesCloneIsDeep(t *testing.T) {
	done := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	phases := Phases{{
		PhaseName: "Basics",
		Items:     []RoadmapItem{{ID: "a", Status: ItemStatusCompleted, CompletedAt: &done}},
	}}

	clone := phases.Clone()
	clone[0].Items[0].Status = ItemStatusPending
	*clone[0].Items[0].CompletedAt = time.Time{}

	assert.Equal(t, ItemStatusCompleted, phases[0].Items[0].Status)
	assert.Equal(t, done, *phases[0].Items[0].CompletedAt)
}

func TestPhasesCompletion(t *testing.T) {
	phases := Phases{
		{Items: []RoadmapItem{{Status: ItemStatusCompleted}, {Status: ItemStatusCompleted}}},
		{Items: []RoadmapItem{{Status: ItemStatusInProgress}}},
	}
	assert.True(t, phases[0].IsComplete())
	assert.False(t, phases[1].IsComplete())
	assert.False(t, phases.IsComplete())

	completed, total := phases.Counts()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, total)

	assert.False(t, Phases{}.IsComplete())
}

func TestPhasesScanValue(t *testing.T) {
	phases := Phases{{PhaseName: "Core", Items: []RoadmapItem{{ID: "x", Title: "Go", Status: ItemStatusPending}}}}
	v, err := phases.Value()
	require.NoError(t, err)

	var scanned Phases
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, phases, scanned)

	empty, err := Phases(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}
