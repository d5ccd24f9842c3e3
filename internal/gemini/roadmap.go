package gemini

import (
	"context"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

type roadmapPrompt struct {
	roadmap.GenerationRequest
	Directive string
}

func (c *Client) GenerateRoadmap(ctx context.Context, req roadmap.GenerationRequest) ([]model.RoadmapPhase, error) {
	prompt, err := prompts.render(promptRoadmap, roadmapPrompt{
		GenerationRequest: req,
		Directive:         req.Strategy.Directive(),
	})
	if err != nil {
		return nil, err
	}
	return generateJSON[[]model.RoadmapPhase](ctx, c, "roadmap", prompt, roadmapSchema)
}

// PhaseSummary writes a short congratulation for a completed phase.
func (c *Client) PhaseSummary(ctx context.Context, phase model.RoadmapPhase) (string, error) {
	titles := make([]string, 0, len(phase.Items))
	for _, item := range phase.Items {
		titles = append(titles, item.Title)
	}

	prompt, err := prompts.render(promptPhaseSummary, map[string]any{
		"PhaseName": phase.PhaseName,
		"Titles":    titles,
	})
	if err != nil {
		return "", err
	}
	return c.generateText(ctx, "phase_summary", prompt, nil)
}
