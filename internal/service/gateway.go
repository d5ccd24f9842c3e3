package service

import (
	"context"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

// Gateway is the subset of the gemini client the services call. Tests
// substitute fakes.
type Gateway interface {
	roadmap.Generator
	PhaseSummary(ctx context.Context, phase model.RoadmapPhase) (string, error)
	AnalyzeInterests(ctx context.Context, answers []string) ([]model.CareerOption, error)
	SearchCareers(ctx context.Context, query string) ([]model.CareerOption, error)
	SkillAssessment(ctx context.Context, careerTitle string) (*model.SkillAssessment, error)
	DailyChallenge(ctx context.Context, careerTitle string, level model.ExperienceLevel) (*model.DailyChallenge, error)
	Simulation(ctx context.Context, careerTitle string) (*model.Simulation, error)
	Trivia(ctx context.Context, careerTitle string) (*model.TriviaQuestion, error)
	TechNews(ctx context.Context, interest string) ([]model.NewsItem, error)
	Chat(ctx context.Context, careerTitle, message string) (string, error)
}
