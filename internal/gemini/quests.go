package gemini

import (
	"context"
	"fmt"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

func (c *Client) SkillAssessment(ctx context.Context, careerTitle string) (*model.SkillAssessment, error) {
	prompt, err := prompts.render(promptAssessment, map[string]any{"CareerTitle": careerTitle})
	if err != nil {
		return nil, err
	}
	a, err := generateJSON[model.SkillAssessment](ctx, c, "assessment", prompt, assessmentSchema)
	if err != nil {
		return nil, err
	}

	valid := a.Questions[:0:0]
	for _, q := range a.Questions {
		if validChoice(q.Options, q.CorrectIndex) {
			valid = append(valid, q)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("assessment: %w", ErrInvalidResponse)
	}
	a.Questions = valid
	return &a, nil
}

func (c *Client) DailyChallenge(ctx context.Context, careerTitle string, level model.ExperienceLevel) (*model.DailyChallenge, error) {
	prompt, err := prompts.render(promptDailyChallenge, map[string]any{
		"CareerTitle": careerTitle,
		"Level":       level,
	})
	if err != nil {
		return nil, err
	}
	ch, err := generateJSON[model.DailyChallenge](ctx, c, "daily_challenge", prompt, dailyChallengeSchema)
	if err != nil {
		return nil, err
	}
	if ch.Question == "" || !validChoice(ch.Options, ch.CorrectAnswer) {
		return nil, fmt.Errorf("daily_challenge: %w", ErrInvalidResponse)
	}
	return &ch, nil
}

func (c *Client) Simulation(ctx context.Context, careerTitle string) (*model.Simulation, error) {
	prompt, err := prompts.render(promptSimulation, map[string]any{"CareerTitle": careerTitle})
	if err != nil {
		return nil, err
	}
	sim, err := generateJSON[model.Simulation](ctx, c, "simulation", prompt, simulationSchema)
	if err != nil {
		return nil, err
	}
	if sim.Scenario == "" || len(sim.Options) == 0 {
		return nil, fmt.Errorf("simulation: %w", ErrInvalidResponse)
	}
	for i := range sim.Options {
		sim.Options[i].Score = max(sim.Options[i].Score, 0)
	}
	return &sim, nil
}

func (c *Client) Trivia(ctx context.Context, careerTitle string) (*model.TriviaQuestion, error) {
	prompt, err := prompts.render(promptTrivia, map[string]any{"CareerTitle": careerTitle})
	if err != nil {
		return nil, err
	}
	q, err := generateJSON[model.TriviaQuestion](ctx, c, "trivia", prompt, triviaSchema)
	if err != nil {
		return nil, err
	}
	if q.Question == "" || !validChoice(q.Options, q.CorrectIndex) {
		return nil, fmt.Errorf("trivia: %w", ErrInvalidResponse)
	}
	return &q, nil
}

func validChoice(options []string, correct int) bool {
	return len(options) >= 2 && correct >= 0 && correct < len(options)
}
