package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/db/dbtest"
	"github.com/pathfinder-ai/pathfinder/internal/markdown"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
	"github.com/pathfinder-ai/pathfinder/internal/storage"
)

type fakeGateway struct {
	mu sync.Mutex

	phases     []model.RoadmapPhase
	genErr     error
	requests   []roadmap.GenerationRequest
	onGenerate func()

	summary    string
	summaryErr error

	options   []model.CareerOption
	challenge *model.DailyChallenge
	sim       *model.Simulation
	trivia    *model.TriviaQuestion
	triviaErr error
	news      []model.NewsItem
	newsErr   error
	chat      string
	chatErr   error
}

func (f *fakeGateway) GenerateRoadmap(_ context.Context, req roadmap.GenerationRequest) ([]model.RoadmapPhase, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	hook, phases, err := f.onGenerate, f.phases, f.genErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return model.Phases(phases).Clone(), nil
}

func (f *fakeGateway) lastRequest() roadmap.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeGateway) PhaseSummary(context.Context, model.RoadmapPhase) (string, error) {
	return f.summary, f.summaryErr
}

func (f *fakeGateway) AnalyzeInterests(context.Context, []string) ([]model.CareerOption, error) {
	return f.options, nil
}

func (f *fakeGateway) SearchCareers(context.Context, string) ([]model.CareerOption, error) {
	return f.options, nil
}

func (f *fakeGateway) SkillAssessment(context.Context, string) (*model.SkillAssessment, error) {
	return &model.SkillAssessment{}, nil
}

func (f *fakeGateway) DailyChallenge(context.Context, string, model.ExperienceLevel) (*model.DailyChallenge, error) {
	return f.challenge, nil
}

func (f *fakeGateway) Simulation(context.Context, string) (*model.Simulation, error) {
	return f.sim, nil
}

func (f *fakeGateway) Trivia(context.Context, string) (*model.TriviaQuestion, error) {
	return f.trivia, f.triviaErr
}

func (f *fakeGateway) TechNews(context.Context, string) ([]model.NewsItem, error) {
	return f.news, f.newsErr
}

func (f *fakeGateway) Chat(context.Context, string, string) (string, error) {
	return f.chat, f.chatErr
}

func testPhases() []model.RoadmapPhase {
	return []model.RoadmapPhase{
		{
			PhaseName: "Phase 1: Foundations",
			Items: []model.RoadmapItem{
				{ID: "a1", Title: "Learn Go", Type: model.ItemTypeSkill, Duration: "1 week"},
				{ID: "a2", Title: "CLI tool", Type: model.ItemTypeProject, Duration: "2 weeks"},
			},
		},
		{
			PhaseName: "Phase 2: Services",
			Items: []model.RoadmapItem{
				{ID: "b1", Title: "HTTP APIs", Type: model.ItemTypeSkill, Duration: "1 week"},
				{ID: "b2", Title: "Deploy a service", Type: model.ItemTypeProject, Duration: "3 days"},
			},
		},
	}
}

type harness struct {
	t   *testing.T
	now time.Time
	gw  *fakeGateway

	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	careerRepo  repository.CareerRepository
	roadmapRepo repository.RoadmapRepository
	questRepo   repository.QuestRepository

	store *storage.Memory

	auth          *AuthService
	subscriptions *SubscriptionService
	profiles      *ProfileService
	careers       *CareerService
	roadmaps      *RoadmapService
	quests        *QuestService
	insights      *InsightService
	exports       *ExportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := dbtest.New(t)

	h := &harness{
		t:   t,
		now: time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
		gw: &fakeGateway{
			phases:  testPhases(),
			summary: "You learned the basics.",
		},
		userRepo:    repository.NewUserRepository(database),
		profileRepo: repository.NewProfileRepository(database),
		careerRepo:  repository.NewCareerRepository(database),
		roadmapRepo: repository.NewRoadmapRepository(database),
		questRepo:   repository.NewQuestRepository(database),
		store:       storage.NewMemory("http://files.test"),
	}

	clock := Clock{Now: func() time.Time { return h.now }, Location: time.UTC}
	email := NewEmailService("", "noreply@pathfinder.test", "http://localhost:8080", "PathFinder", true)

	h.subscriptions = NewSubscriptionService(repository.NewSubscriptionRepository(database))
	h.auth = NewAuthService(h.userRepo, h.profileRepo, h.subscriptions, "test-secret", false, time.Hour)
	h.profiles = NewProfileService(h.profileRepo, h.careerRepo, h.userRepo, email, clock)
	h.roadmaps = NewRoadmapService(h.careerRepo, h.roadmapRepo, h.profileRepo, h.gw, email, clock)
	h.careers = NewCareerService(h.careerRepo, h.profileRepo, h.subscriptions, h.roadmaps, h.gw, clock)
	h.quests = NewQuestService(h.questRepo, h.careerRepo, h.profileRepo, h.gw, clock)
	h.insights = NewInsightService(h.careerRepo, h.quests, h.gw, markdown.NewParser())
	h.exports = NewExportService(h.roadmaps, h.careers, h.subscriptions, h.store, clock)

	return h
}

func (h *harness) today() calendar.Date {
	return calendar.Of(h.now)
}

func (h *harness) advanceDays(n int) {
	h.now = h.now.AddDate(0, 0, n)
}

func (h *harness) signup(id string) {
	h.t.Helper()
	_, err := h.auth.Signup(id, "Asha", "correct-horse-battery", "blue-river")
	require.NoError(h.t, err)
}

// onboard adds a career whose target is 30 days out and returns its id.
func (h *harness) onboard(userID, careerID, title string) string {
	h.t.Helper()
	result, err := h.careers.Onboard(context.Background(), userID, OnboardInput{
		Option:          model.CareerOption{ID: careerID, Title: title, FitScore: 90},
		EducationYear:   "Final year",
		ExperienceLevel: model.ExperienceBeginner,
		TargetDate:      h.today().AddDays(30),
	})
	require.NoError(h.t, err)
	return result.Career.CareerID
}

func (h *harness) toggle(userID, careerID, itemID string) *ToggleOutcome {
	h.t.Helper()
	outcome, err := h.roadmaps.ToggleItem(context.Background(), userID, careerID, itemID)
	require.NoError(h.t, err)
	return outcome
}
