package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/db/dbtest"
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

func seedUser(t *testing.T, database *sqlx.DB, id string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, NewUserRepository(database).Create(&model.User{
		ID:              id,
		Username:        "Ada",
		PasswordHash:    "hash",
		SecurityKeyHash: "key-hash",
		CreatedAt:       now,
	}))
	require.NoError(t, NewProfileRepository(database).Create(&model.Profile{
		UserID:     id,
		ThemeMode:  model.ThemeModeDark,
		ThemeColor: model.DefaultThemeColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func seedCareer(t *testing.T, database *sqlx.DB, userID, careerID string, target calendar.Date) {
	t.Helper()
	now := time.Now().UTC()

	require.NoError(t, NewCareerRepository(database).Create(
		&model.CareerTrack{
			UserID:               userID,
			CareerID:             careerID,
			Title:                "Backend Engineer",
			EducationYear:        "Graduate",
			ExperienceLevel:      model.ExperienceBeginner,
			TargetCompletionDate: target,
			AddedAt:              now,
		},
		&model.CareerSnapshot{
			UserID:    userID,
			CareerID:  careerID,
			Title:     "Backend Engineer",
			FitScore:  88,
			Reason:    "Likes systems",
			CreatedAt: now,
		},
	))
}

func TestUserRepository(t *testing.T) {
	database := dbtest.New(t)
	repo := NewUserRepository(database)
	seedUser(t, database, "ada")

	user, err := repo.ByID("ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Username)

	exists, err := repo.Exists("ada")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.UpdatePassword("ada", "new-hash"))
	user, err = repo.ByID("ada")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.PasswordHash)

	_, err = repo.ByID("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdatePassword("nobody", "x"), ErrUserNotFound)
}

func TestProfileRepositoryUpdate(t *testing.T) {
	database := dbtest.New(t)
	repo := NewProfileRepository(database)
	seedUser(t, database, "ada")

	profile, err := repo.ByUserID("ada")
	require.NoError(t, err)
	assert.False(t, profile.OnboardingComplete)
	assert.True(t, profile.LastDailyChallenge.IsZero())

	profile.XP = 120
	profile.Streak = 4
	profile.OnboardingComplete = true
	profile.LastDailyChallenge = calendar.New(2025, time.May, 2)
	require.NoError(t, repo.Update(profile))

	got, err := repo.ByUserID("ada")
	require.NoError(t, err)
	assert.Equal(t, 120, got.XP)
	assert.Equal(t, 4, got.Streak)
	assert.True(t, got.OnboardingComplete)
	assert.Equal(t, calendar.New(2025, time.May, 2), got.LastDailyChallenge)

	_, err = repo.ByUserID("nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCareerRepositoryLifecycle(t *testing.T) {
	database := dbtest.New(t)
	careers := NewCareerRepository(database)
	roadmaps := NewRoadmapRepository(database)
	quests := NewQuestRepository(database)
	seedUser(t, database, "ada")

	target := calendar.New(2025, time.December, 31)
	seedCareer(t, database, "ada", "backend", target)
	seedCareer(t, database, "ada", "data", target)

	count, err := careers.Count("ada")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	track, err := careers.ByID("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, target, track.TargetCompletionDate)
	assert.Equal(t, model.ExperienceBeginner, track.ExperienceLevel)

	snapshot, err := careers.Snapshot("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, 88, snapshot.FitScore)

	rm, err := roadmaps.ByCareer("ada", "backend")
	require.NoError(t, err)
	assert.Empty(t, rm.Phases)
	assert.Equal(t, 1, rm.Version)

	require.NoError(t, quests.Create(&model.Quest{
		ID: "q1", UserID: "ada", CareerID: "backend", Kind: model.QuestKindDailyChallenge,
		Day: calendar.New(2025, time.May, 1), Payload: "{}", CreatedAt: time.Now(),
	}))

	require.NoError(t, careers.Delete("ada", "backend"))

	_, err = careers.ByID("ada", "backend")
	assert.ErrorIs(t, err, ErrCareerNotFound)
	_, err = careers.Snapshot("ada", "backend")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	_, err = roadmaps.ByCareer("ada", "backend")
	assert.ErrorIs(t, err, ErrRoadmapNotFound)
	_, err = quests.ByID("ada", "q1")
	assert.ErrorIs(t, err, ErrQuestNotFound)

	remaining, err := careers.ByUserID("ada")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "data", remaining[0].CareerID)

	assert.ErrorIs(t, careers.Delete("ada", "backend"), ErrCareerNotFound)
}

func TestRoadmapRepositoryVersioning(t *testing.T) {
	database := dbtest.New(t)
	repo := NewRoadmapRepository(database)
	seedUser(t, database, "ada")
	seedCareer(t, database, "ada", "backend", calendar.New(2025, time.December, 31))

	rm, err := repo.ByCareer("ada", "backend")
	require.NoError(t, err)

	stale := *rm
	rm.Phases = model.Phases{{PhaseName: "Phase 1", Items: []model.RoadmapItem{{ID: "i1", Title: "SQL", Status: model.ItemStatusPending}}}}
	require.NoError(t, repo.Update(rm))
	assert.Equal(t, 2, rm.Version)

	stale.Phases = model.Phases{{PhaseName: "late"}}
	assert.ErrorIs(t, repo.Update(&stale), ErrVersionConflict)

	got, err := repo.ByCareer("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, "Phase 1", got.Phases[0].PhaseName)
	assert.Equal(t, 2, got.Version)

	missing := &model.Roadmap{UserID: "ada", CareerID: "nope", Version: 1}
	assert.ErrorIs(t, repo.Update(missing), ErrRoadmapNotFound)
}

func TestRoadmapCommitAdaptation(t *testing.T) {
	database := dbtest.New(t)
	repo := NewRoadmapRepository(database)
	careers := NewCareerRepository(database)
	seedUser(t, database, "ada")
	seedCareer(t, database, "ada", "backend", calendar.New(2025, time.December, 31))

	rm, err := repo.ByCareer("ada", "backend")
	require.NoError(t, err)

	newTarget := calendar.New(2026, time.January, 10)
	rm.Phases = model.Phases{{PhaseName: "Adapted"}}
	require.NoError(t, repo.CommitAdaptation(rm, calendar.New(2025, time.December, 31), newTarget))

	track, err := careers.ByID("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, newTarget, track.TargetCompletionDate)

	// A stale commit changes neither the roadmap nor the date.
	stale := &model.Roadmap{UserID: "ada", CareerID: "backend", Version: 1, Phases: model.Phases{{PhaseName: "Stale"}}}
	assert.ErrorIs(t, repo.CommitAdaptation(stale, newTarget, calendar.New(2030, time.January, 1)), ErrVersionConflict)

	track, err = careers.ByID("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, newTarget, track.TargetCompletionDate)

	// A target date moved since the read fails the commit and keeps the phases.
	rm, err = repo.ByCareer("ada", "backend")
	require.NoError(t, err)
	rm.Phases = model.Phases{{PhaseName: "Late"}}
	err = repo.CommitAdaptation(rm, calendar.New(2025, time.December, 31), calendar.New(2030, time.January, 1))
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, 2, rm.Version)

	got, err := repo.ByCareer("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, "Adapted", got.Phases[0].PhaseName)
	assert.Equal(t, 2, got.Version)

	track, err = careers.ByID("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, newTarget, track.TargetCompletionDate)
}

func TestCareerMoveTarget(t *testing.T) {
	database := dbtest.New(t)
	careers := NewCareerRepository(database)
	seedUser(t, database, "ada")
	start := calendar.New(2025, time.December, 31)
	seedCareer(t, database, "ada", "backend", start)

	moved := calendar.New(2025, time.December, 1)
	require.NoError(t, careers.MoveTarget("ada", "backend", start, moved))
	assert.ErrorIs(t, careers.MoveTarget("ada", "backend", start, calendar.New(2026, time.June, 1)), ErrVersionConflict)
	assert.ErrorIs(t, careers.MoveTarget("ada", "nope", start, moved), ErrCareerNotFound)

	day := calendar.New(2025, time.November, 20)
	require.NoError(t, careers.MarkDailyChallenge("ada", "backend", day))
	assert.ErrorIs(t, careers.MarkDailyChallenge("ada", "nope", day), ErrCareerNotFound)

	track, err := careers.ByID("ada", "backend")
	require.NoError(t, err)
	assert.Equal(t, moved, track.TargetCompletionDate)
	assert.Equal(t, day, track.LastDailyChallenge)
}

func TestQuestRepository(t *testing.T) {
	database := dbtest.New(t)
	repo := NewQuestRepository(database)
	seedUser(t, database, "ada")
	seedCareer(t, database, "ada", "backend", calendar.New(2025, time.December, 31))

	day := calendar.New(2025, time.May, 1)
	require.NoError(t, repo.Create(&model.Quest{
		ID: "q1", UserID: "ada", CareerID: "backend", Kind: model.QuestKindDailyChallenge,
		Day: day, Payload: `{"question":"?"}`, CreatedAt: time.Now(),
	}))

	q, err := repo.ForDay("ada", "backend", model.QuestKindDailyChallenge, day)
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
	assert.False(t, q.IsResolved())

	_, err = repo.ForDay("ada", "backend", model.QuestKindDailyChallenge, day.AddDays(1))
	assert.ErrorIs(t, err, ErrQuestNotFound)

	require.NoError(t, repo.Resolve("ada", "q1", time.Now()))
	assert.ErrorIs(t, repo.Resolve("ada", "q1", time.Now()), ErrQuestAlreadyResolved)
	assert.ErrorIs(t, repo.Resolve("ada", "missing", time.Now()), ErrQuestNotFound)

	q, err = repo.ByID("ada", "q1")
	require.NoError(t, err)
	assert.True(t, q.IsResolved())
}

func TestSubscriptionRepository(t *testing.T) {
	database := dbtest.New(t)
	repo := NewSubscriptionRepository(database)
	seedUser(t, database, "ada")

	now := time.Now().UTC()
	sub := &model.Subscription{
		ID: "s1", UserID: "ada", PlanID: model.SubscriptionPlanFree,
		Status: model.SubscriptionStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(sub))

	amount := model.PlanPrices[model.SubscriptionPlanYearly]
	sub.PlanID = model.SubscriptionPlanYearly
	sub.Amount = &amount
	sub.Currency = model.PlanCurrency
	require.NoError(t, repo.Update(sub))

	got, err := repo.ByUserID("ada")
	require.NoError(t, err)
	assert.True(t, got.IsPaid())
	require.NotNil(t, got.Amount)
	assert.Equal(t, amount, *got.Amount)

	_, err = repo.ByUserID("nobody")
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}
