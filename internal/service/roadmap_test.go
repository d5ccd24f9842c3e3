package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

func TestToggleCompletesPhaseWithSummary(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	outcome := h.toggle("asha", "backend", "a1")
	assert.Equal(t, roadmap.EventNone, outcome.Event)
	assert.Equal(t, model.ItemStatusCompleted, outcome.Item.Status)
	assert.NotNil(t, outcome.Item.CompletedAt)

	outcome = h.toggle("asha", "backend", "a2")
	assert.Equal(t, roadmap.EventPhaseCompleted, outcome.Event)
	assert.Equal(t, "You learned the basics.", outcome.Summary)
	assert.Equal(t, roadmap.AfterPhaseChoices, outcome.Choices)

	overview, err := h.roadmaps.Overview("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, 50, overview.Percent)
	assert.Equal(t, "You learned the basics.", overview.Roadmap.Phases[0].CompletionSummary)

	h.toggle("asha", "backend", "b1")
	outcome = h.toggle("asha", "backend", "b2")
	assert.Equal(t, roadmap.EventRoadmapCompleted, outcome.Event)
	assert.Empty(t, outcome.Summary)

	overview, err = h.roadmaps.Overview("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, 100, overview.Percent)
	assert.Equal(t, 0, overview.DaysRemaining)
}

func TestToggleUsesFallbackSummary(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	h.gw.summaryErr = errors.New("timeout")

	_, err := h.profiles.UpdateEmail(context.Background(), "asha", "asha@example.com")
	require.NoError(t, err)

	h.toggle("asha", "backend", "a1")
	outcome := h.toggle("asha", "backend", "a2")
	assert.Equal(t, PhaseSummaryFallback, outcome.Summary)
}

func TestToggleUnknownItem(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	_, err := h.roadmaps.ToggleItem(context.Background(), "asha", "backend", "nope")
	assert.ErrorIs(t, err, roadmap.ErrItemNotFound)
}

func TestResets(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	h.onboard("asha", "data", "Data Analyst")

	h.toggle("asha", "backend", "a1")
	h.toggle("asha", "backend", "a2")
	h.toggle("asha", "backend", "b1")
	h.toggle("asha", "data", "a1")

	rm, err := h.roadmaps.ResetPhase("asha", "backend", 0)
	require.NoError(t, err)
	assert.Empty(t, rm.Phases[0].CompletionSummary)
	assert.False(t, rm.Phases[0].Items[0].IsCompleted())
	assert.True(t, rm.Phases[1].Items[0].IsCompleted())

	_, err = h.roadmaps.ResetPhase("asha", "backend", 7)
	assert.ErrorIs(t, err, roadmap.ErrPhaseNotFound)

	rm, err = h.roadmaps.ResetRoadmap("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, 0, roadmap.Percent(rm.Phases))

	require.NoError(t, h.roadmaps.ResetAll("asha"))
	overview, err := h.roadmaps.Overview("asha", "data")
	require.NoError(t, err)
	assert.Equal(t, 0, overview.Completed)
}

func TestPlanDateChange(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	current := h.today().AddDays(30)

	tests := []struct {
		requested calendar.Date
		change    roadmap.DateChange
		options   []roadmap.Strategy
	}{
		{current.AddDays(10), roadmap.DateExtension, []roadmap.Strategy{roadmap.StrategyRedistribute, roadmap.StrategyAppendContent}},
		{current.AddDays(-10), roadmap.DateShortening, []roadmap.Strategy{roadmap.StrategyCompressSchedule, roadmap.StrategySimplifySchedule}},
		{current, roadmap.DateUnchanged, []roadmap.Strategy{roadmap.StrategyRedistribute, roadmap.StrategyIncreaseDifficultySameTime}},
	}

	for _, tt := range tests {
		plan, err := h.roadmaps.PlanDateChange("asha", "backend", tt.requested)
		require.NoError(t, err)
		assert.Equal(t, tt.change, plan.Change)
		assert.Equal(t, tt.options, plan.Strategies)
		assert.Equal(t, current, plan.Current)
	}

	_, err := h.roadmaps.PlanDateChange("asha", "backend", calendar.Date{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdaptExtensionPreservesCompletedPhases(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	h.toggle("asha", "backend", "a1")
	h.toggle("asha", "backend", "a2")
	h.toggle("asha", "backend", "b1")

	before, err := h.roadmaps.Overview("asha", "backend")
	require.NoError(t, err)

	target := calendar.New(2026, 4, 20)
	overview, err := h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyRedistribute, target)
	require.NoError(t, err)

	req := h.gw.lastRequest()
	assert.Equal(t, roadmap.StrategyRedistribute, req.Strategy)
	assert.Equal(t, 2, req.StartingPhase)
	assert.Equal(t, 42, req.Budget.Days)
	assert.Contains(t, req.ProgressSummary, "completed 1 phases")

	assert.Equal(t, target, overview.Career.TargetCompletionDate)
	require.Len(t, overview.Roadmap.Phases, 3)
	assert.Equal(t, before.Roadmap.Phases[0], overview.Roadmap.Phases[0])
	assert.Equal(t, before.Roadmap.Version+1, overview.Roadmap.Version)

	// Ids held by the preserved phase are never issued again.
	for _, item := range overview.Roadmap.Phases[1].Items {
		assert.Equal(t, model.ItemStatusPending, item.Status)
		assert.NotEqual(t, "a1", item.ID)
		assert.NotEqual(t, "a2", item.ID)
	}

	career, err := h.careerRepo.ByID("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, target, career.TargetCompletionDate)
}

func TestAdaptFailureChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	h.toggle("asha", "backend", "a1")

	before, err := h.roadmaps.Overview("asha", "backend")
	require.NoError(t, err)

	h.gw.genErr = errors.New("model overloaded")
	_, err = h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyCompressSchedule, h.today().AddDays(10))
	assert.ErrorIs(t, err, roadmap.ErrGenerationFailed)

	after, err := h.roadmaps.Overview("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, before.Roadmap.Phases, after.Roadmap.Phases)
	assert.Equal(t, before.Roadmap.Version, after.Roadmap.Version)
	assert.Equal(t, before.Career.TargetCompletionDate, after.Career.TargetCompletionDate)
}

func TestAdaptRejectsStrategyForChange(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	_, err := h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyAppendContent, h.today().AddDays(5))
	assert.ErrorIs(t, err, roadmap.ErrStrategyNotAllowed)
}

func TestAdaptHarderKeepsTargetDate(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	overview, err := h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyIncreaseDifficultySameTime, calendar.Date{})
	require.NoError(t, err)
	assert.Equal(t, h.today().AddDays(30), overview.Career.TargetCompletionDate)
	assert.Equal(t, roadmap.StrategyIncreaseDifficultySameTime, h.gw.lastRequest().Strategy)
}

func TestAdaptBusy(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	release, err := h.roadmaps.guard.TryAcquire(roadmap.GuardKey("asha", "backend"))
	require.NoError(t, err)
	defer release()

	_, err = h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyRedistribute, calendar.Date{})
	assert.ErrorIs(t, err, roadmap.ErrAdaptationInProgress)

	_, err = h.roadmaps.Adapt(context.Background(), "asha", "other", roadmap.StrategyRedistribute, calendar.Date{})
	assert.NotErrorIs(t, err, roadmap.ErrAdaptationInProgress)
}

func TestAdaptDropsStaleResult(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	// A toggle lands while the generator is running.
	h.gw.onGenerate = func() {
		h.gw.onGenerate = nil
		rm, err := h.roadmapRepo.ByCareer("asha", "backend")
		require.NoError(t, err)
		result, err := roadmap.Toggle(rm.Phases, "a1", h.now)
		require.NoError(t, err)
		rm.Phases = result.Phases
		require.NoError(t, h.roadmapRepo.Update(rm))
	}

	_, err := h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyRedistribute, h.today().AddDays(40))
	assert.ErrorIs(t, err, ErrStaleRoadmap)

	overview, err := h.roadmaps.Overview("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Completed)
	assert.Equal(t, h.today().AddDays(30), overview.Career.TargetCompletionDate)
}

func TestAdaptDropsResultWhenTargetMoved(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	moved := h.today().AddDays(10)
	h.gw.onGenerate = func() {
		h.gw.onGenerate = nil
		require.NoError(t, h.careerRepo.MoveTarget("asha", "backend", h.today().AddDays(30), moved))
	}

	_, err := h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyRedistribute, h.today().AddDays(40))
	assert.ErrorIs(t, err, ErrStaleRoadmap)

	career, err := h.careerRepo.ByID("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, moved, career.TargetCompletionDate)
}

func TestFinishQuickerDuringAdaptation(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	var finishErr error
	h.gw.onGenerate = func() {
		h.gw.onGenerate = nil
		_, finishErr = h.roadmaps.FinishQuicker("asha", "backend")
	}

	overview, err := h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyRedistribute, h.today().AddDays(40))
	require.NoError(t, err)
	assert.ErrorIs(t, finishErr, roadmap.ErrAdaptationInProgress)
	assert.Equal(t, h.today().AddDays(40), overview.Career.TargetCompletionDate)

	career, err := h.careerRepo.ByID("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, h.today().AddDays(40), career.TargetCompletionDate)
}

func TestDailyChallengeDuringAdaptation(t *testing.T) {
	h := newHarness(t)
	withChallenge(h)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	issued, err := h.quests.DailyChallenge(context.Background(), "asha", "backend")
	require.NoError(t, err)

	h.gw.onGenerate = func() {
		h.gw.onGenerate = nil
		_, err := h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 0)
		require.NoError(t, err)
	}

	_, err = h.roadmaps.Adapt(context.Background(), "asha", "backend", roadmap.StrategyRedistribute, h.today().AddDays(40))
	require.NoError(t, err)

	career, err := h.careerRepo.ByID("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, h.today().AddDays(40), career.TargetCompletionDate)
	assert.Equal(t, h.today(), career.LastDailyChallenge)
}

func TestAfterPhase(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	ctx := context.Background()

	overview, err := h.roadmaps.AfterPhase(ctx, "asha", "backend", roadmap.ChoiceKeepPace)
	require.NoError(t, err)
	assert.Equal(t, roadmap.StrategyRedistribute, h.gw.lastRequest().Strategy)
	assert.Equal(t, h.today().AddDays(30), overview.Career.TargetCompletionDate)

	_, err = h.roadmaps.AfterPhase(ctx, "asha", "backend", roadmap.ChoiceHarder)
	require.NoError(t, err)
	assert.Equal(t, roadmap.StrategyIncreaseDifficultySameTime, h.gw.lastRequest().Strategy)

	requests := len(h.gw.requests)
	overview, err = h.roadmaps.AfterPhase(ctx, "asha", "backend", roadmap.ChoiceFinishQuicker)
	require.NoError(t, err)
	assert.Len(t, h.gw.requests, requests)
	assert.Equal(t, h.today().AddDays(overview.EstimatedDays-1), overview.Career.TargetCompletionDate)

	_, err = h.roadmaps.AfterPhase(ctx, "asha", "backend", roadmap.AfterPhaseChoice("sideways"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFinishQuicker(t *testing.T) {
	h := newHarness(t)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	h.toggle("asha", "backend", "a1")

	// a2 2 weeks, b1 1 week, b2 3 days
	overview, err := h.roadmaps.FinishQuicker("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, 24, overview.EstimatedDays)
	assert.Equal(t, h.today().AddDays(23), overview.Career.TargetCompletionDate)
	assert.Len(t, overview.Roadmap.Phases, 2)

	career, err := h.careerRepo.ByID("asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, h.today().AddDays(23), career.TargetCompletionDate)
}
