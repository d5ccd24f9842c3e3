package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

type fakeModels struct {
	resp    *genai.GenerateContentResponse
	err     error
	prompts []string
	configs []*genai.GenerateContentConfig
	model   string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	f.configs = append(f.configs, config)
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClient(f *fakeModels) *Client {
	return NewWithModels(f, Config{Timeout: time.Second})
}

func TestGenerateRoadmap(t *testing.T) {
	f := &fakeModels{resp: textResponse(`[
		{"phaseName":"Phase 2: Depth","items":[
			{"id":"x1","title":"Concurrency","description":"Goroutines","type":"skill","duration":"1 day","status":"pending","importance":"high","link":null,"isAIAdaptation":true}
		]}
	]`)}

	phases, err := newTestClient(f).GenerateRoadmap(context.Background(), roadmap.GenerationRequest{
		CareerTitle:     "Go Developer",
		Status:          "Working professional",
		ExperienceLevel: model.ExperienceIntermediate,
		FocusAreas:      "distributed systems",
		TargetDate:      calendar.New(2025, time.July, 1),
		Budget:          roadmap.Budget{Days: 11},
		Strategy:        roadmap.StrategyRedistribute,
		StartingPhase:   2,
		ProgressSummary: "User has completed 1 phases.",
	})
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, "Concurrency", phases[0].Items[0].Title)
	assert.Equal(t, model.ImportanceHigh, phases[0].Items[0].Importance)
	assert.True(t, phases[0].Items[0].IsAIAdaptation)

	assert.Equal(t, DefaultModel, f.model)
	require.Len(t, f.prompts, 1)
	prompt := f.prompts[0]
	assert.Contains(t, prompt, `"Go Developer"`)
	assert.Contains(t, prompt, "exactly 11 days left")
	assert.Contains(t, prompt, "starting at Phase 2")
	assert.Contains(t, prompt, "distributed systems")
	assert.Contains(t, prompt, "2025-07-01")
	assert.Contains(t, prompt, roadmap.StrategyRedistribute.Directive())
	assert.Equal(t, "application/json", f.configs[0].ResponseMIMEType)
	assert.Same(t, roadmapSchema, f.configs[0].ResponseSchema)
}

func TestGenerateRoadmapCrashCourse(t *testing.T) {
	f := &fakeModels{resp: textResponse(`[]`)}

	_, err := newTestClient(f).GenerateRoadmap(context.Background(), roadmap.GenerationRequest{
		CareerTitle:     "Designer",
		ExperienceLevel: model.ExperienceBeginner,
		Budget:          roadmap.Budget{Days: 1, CrashCourse: true},
		Strategy:        roadmap.StrategyInitial,
		StartingPhase:   1,
	})
	require.NoError(t, err)
	assert.Contains(t, f.prompts[0], "crash course")
	assert.Contains(t, f.prompts[0], "complete beginner")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeModels
		want error
	}{
		{"transport", &fakeModels{err: errors.New("boom")}, nil},
		{"no candidates", &fakeModels{resp: &genai.GenerateContentResponse{}}, ErrEmptyResponse},
		{"blank text", &fakeModels{resp: textResponse("  ")}, ErrEmptyResponse},
		{"malformed json", &fakeModels{resp: textResponse("{not json")}, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(tt.f).GenerateRoadmap(context.Background(), roadmap.GenerationRequest{Strategy: roadmap.StrategyInitial})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestPhaseSummary(t *testing.T) {
	f := &fakeModels{resp: textResponse("You nailed the basics.")}

	summary, err := newTestClient(f).PhaseSummary(context.Background(), model.RoadmapPhase{
		PhaseName: "Basics",
		Items:     []model.RoadmapItem{{Title: "HTML"}, {Title: "CSS"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "You nailed the basics.", summary)
	assert.Contains(t, f.prompts[0], "HTML, CSS")
	assert.Contains(t, f.prompts[0], `"Basics"`)
}

func TestAnalyzeInterestsNormalizes(t *testing.T) {
	f := &fakeModels{resp: textResponse(`[
		{"id":"","title":"UX Researcher","description":"d","fitScore":140,"reason":"r"},
		{"id":"c2","title":"  ","description":"d","fitScore":50,"reason":"r"},
		{"id":"c3","title":"Data Analyst","description":"d","fitScore":-3,"reason":"r"}
	]`)}

	options, err := newTestClient(f).AnalyzeInterests(context.Background(), []string{"I like people", "I like numbers"})
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.NotEmpty(t, options[0].ID)
	assert.Equal(t, 100, options[0].FitScore)
	assert.Equal(t, 0, options[1].FitScore)
	assert.Contains(t, f.prompts[0], "1. I like people")
	assert.Contains(t, f.prompts[0], "2. I like numbers")
}

func TestSearchCareersEmpty(t *testing.T) {
	f := &fakeModels{resp: textResponse(`[]`)}

	_, err := newTestClient(f).SearchCareers(context.Background(), "tech")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDailyChallengeValidation(t *testing.T) {
	f := &fakeModels{resp: textResponse(`{"question":"Q?","options":["a","b"],"correctAnswer":5,"explanation":"e","difficulty":"easy"}`)}
	_, err := newTestClient(f).DailyChallenge(context.Background(), "SRE", model.ExperienceBeginner)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	f = &fakeModels{resp: textResponse(`{"question":"Q?","options":["a","b","c","d"],"correctAnswer":2,"explanation":"e","difficulty":"hard"}`)}
	ch, err := newTestClient(f).DailyChallenge(context.Background(), "SRE", model.ExperienceAdvanced)
	require.NoError(t, err)
	assert.Equal(t, 2, ch.CorrectAnswer)
	assert.Contains(t, f.prompts[0], "advanced SRE")
}

func TestSimulationAndTrivia(t *testing.T) {
	f := &fakeModels{resp: textResponse(`{"title":"Outage","scenario":"Prod is down","role":"On-call","options":[{"text":"Roll back","outcome":"Fixed","score":50},{"text":"Panic","outcome":"Worse","score":-10}]}`)}
	sim, err := newTestClient(f).Simulation(context.Background(), "SRE")
	require.NoError(t, err)
	assert.Equal(t, 50, sim.Options[0].Score)
	assert.Equal(t, 0, sim.Options[1].Score)

	f = &fakeModels{resp: textResponse(`{"question":"Who wrote Go?","options":["a","b","c","d"],"correctIndex":1}`)}
	q, err := newTestClient(f).Trivia(context.Background(), "Go Developer")
	require.NoError(t, err)
	assert.Equal(t, 1, q.CorrectIndex)
}

func TestSkillAssessmentDropsInvalidQuestions(t *testing.T) {
	f := &fakeModels{resp: textResponse(`{"questions":[
		{"text":"ok","options":["a","b"],"correctIndex":0},
		{"text":"bad","options":["a"],"correctIndex":0}
	]}`)}
	a, err := newTestClient(f).SkillAssessment(context.Background(), "QA")
	require.NoError(t, err)
	require.Len(t, a.Questions, 1)
	assert.Equal(t, "ok", a.Questions[0].Text)
}

func TestChatUsesSystemInstruction(t *testing.T) {
	f := &fakeModels{resp: textResponse("Keep going!")}

	reply, err := newTestClient(f).Chat(context.Background(), "Data Scientist", "How do I start?")
	require.NoError(t, err)
	assert.Equal(t, "Keep going!", reply)
	require.NotNil(t, f.configs[0].SystemInstruction)
	assert.Contains(t, f.configs[0].SystemInstruction.Parts[0].Text, "PathFinder AI Assistant")
	assert.Contains(t, f.prompts[0], "How do I start?")
}

func TestLimiterHonorsContext(t *testing.T) {
	c := NewWithModels(&fakeModels{resp: textResponse("x")}, Config{MaxConcurrent: 1})
	require.NoError(t, c.limiter.Acquire(context.Background(), 1))
	defer c.limiter.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Chat(ctx, "a", "b")
	assert.ErrorIs(t, err, context.Canceled)
}
