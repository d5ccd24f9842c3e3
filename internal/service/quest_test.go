package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
)

func withChallenge(h *harness) {
	h.gw.challenge = &model.DailyChallenge{
		Question:      "Which keyword starts a goroutine?",
		Options:       []string{"go", "async", "spawn", "thread"},
		CorrectAnswer: 0,
		Explanation:   "The go statement runs a call concurrently.",
		Difficulty:    "easy",
	}
}

func TestDailyChallengeAwardsOncePerDay(t *testing.T) {
	h := newHarness(t)
	withChallenge(h)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")
	h.onboard("asha", "data", "Data Analyst")
	ctx := context.Background()

	issued, err := h.quests.DailyChallenge(ctx, "asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "async", "spawn", "thread"}, issued.Options)

	again, err := h.quests.DailyChallenge(ctx, "asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, issued.QuestID, again.QuestID, "pending challenge is reissued")

	result, err := h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 0)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, model.DailyChallengeXP, result.XPAwarded)
	assert.Equal(t, 10, result.XP)
	assert.Equal(t, 1, result.Streak)
	assert.NotContains(t, result.Feedback, "already collected")

	_, err = h.quests.DailyChallenge(ctx, "asha", "backend")
	assert.ErrorIs(t, err, ErrChallengeAlreadyDone)

	_, err = h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 0)
	assert.ErrorIs(t, err, ErrChallengeAlreadyDone)

	other, err := h.quests.DailyChallenge(ctx, "asha", "data")
	require.NoError(t, err)

	result, err = h.quests.SubmitDailyChallenge("asha", "data", other.QuestID, 0)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Zero(t, result.XPAwarded)
	assert.Equal(t, 10, result.XP)
	assert.Equal(t, 1, result.Streak)
	assert.Contains(t, result.Feedback, "(XP already collected today.)")

	h.advanceDays(1)
	next, err := h.quests.DailyChallenge(ctx, "asha", "backend")
	require.NoError(t, err)
	result, err = h.quests.SubmitDailyChallenge("asha", "backend", next.QuestID, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, result.XP)
	assert.Equal(t, 2, result.Streak)
}

func TestDailyChallengeWrongAnswer(t *testing.T) {
	h := newHarness(t)
	withChallenge(h)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	issued, err := h.quests.DailyChallenge(context.Background(), "asha", "backend")
	require.NoError(t, err)

	_, err = h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 9)
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	result, err := h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 2)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.CorrectAnswer)
	assert.Zero(t, result.XPAwarded)
	assert.Zero(t, result.Streak)
}

func TestDailyChallengeExpires(t *testing.T) {
	h := newHarness(t)
	withChallenge(h)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	issued, err := h.quests.DailyChallenge(context.Background(), "asha", "backend")
	require.NoError(t, err)

	h.advanceDays(1)
	_, err = h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 0)
	assert.ErrorIs(t, err, ErrQuestExpired)

	_, err = h.quests.SubmitDailyChallenge("asha", "data", issued.QuestID, 0)
	assert.ErrorIs(t, err, repository.ErrQuestNotFound)
}

func TestStreakMilestone(t *testing.T) {
	h := newHarness(t)
	withChallenge(h)
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	profile, err := h.profileRepo.ByUserID("asha")
	require.NoError(t, err)
	profile.Streak = 99
	profile.XP = 500
	profile.LastDailyChallenge = h.today().AddDays(-1)
	require.NoError(t, h.profileRepo.Update(profile))

	issued, err := h.quests.DailyChallenge(context.Background(), "asha", "backend")
	require.NoError(t, err)
	result, err := h.quests.SubmitDailyChallenge("asha", "backend", issued.QuestID, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Streak)
	assert.Equal(t, model.MilestoneStreak, result.Milestone)
}

func TestSimulationAwardsScore(t *testing.T) {
	h := newHarness(t)
	h.gw.sim = &model.Simulation{
		Title:    "Outage",
		Scenario: "The API is down.",
		Role:     "On-call engineer",
		Options: []model.SimulationOption{
			{Text: "Roll back", Outcome: "Service restored.", Score: 990},
			{Text: "Wait", Outcome: "Customers leave.", Score: 0},
		},
	}
	h.signup("asha")
	h.onboard("asha", "backend", "Backend Engineer")

	issued, err := h.quests.StartSimulation(context.Background(), "asha", "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Roll back", "Wait"}, issued.Options)

	profile, err := h.profileRepo.ByUserID("asha")
	require.NoError(t, err)
	profile.XP = 20
	require.NoError(t, h.profileRepo.Update(profile))

	result, err := h.quests.FinishSimulation("asha", issued.QuestID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Service restored.", result.Outcome)
	assert.Equal(t, 990, result.XPAwarded)
	assert.Equal(t, 1010, result.XP)
	assert.Equal(t, model.MilestoneXP, result.Milestone)

	_, err = h.quests.FinishSimulation("asha", issued.QuestID, 0)
	assert.ErrorIs(t, err, repository.ErrQuestAlreadyResolved)
}

func TestMilestone(t *testing.T) {
	assert.Equal(t, model.MilestoneStreak, milestone(990, 1000, 200, true))
	assert.Equal(t, model.MilestoneXP, milestone(990, 1000, 7, true))
	assert.Equal(t, model.MilestoneNone, milestone(1000, 1010, 100, false))
	assert.Equal(t, model.MilestoneNone, milestone(10, 20, 3, true))
}
