package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

func (c *Client) AnalyzeInterests(ctx context.Context, answers []string) ([]model.CareerOption, error) {
	prompt, err := prompts.render(promptInterests, map[string]any{"Answers": answers})
	if err != nil {
		return nil, err
	}
	options, err := generateJSON[[]model.CareerOption](ctx, c, "interests", prompt, careerOptionsSchema)
	if err != nil {
		return nil, err
	}
	return normalizeOptions("interests", options)
}

func (c *Client) SearchCareers(ctx context.Context, query string) ([]model.CareerOption, error) {
	prompt, err := prompts.render(promptSearch, map[string]any{"Query": query})
	if err != nil {
		return nil, err
	}
	options, err := generateJSON[[]model.CareerOption](ctx, c, "search", prompt, careerOptionsSchema)
	if err != nil {
		return nil, err
	}
	return normalizeOptions("search", options)
}

func normalizeOptions(op string, options []model.CareerOption) ([]model.CareerOption, error) {
	out := options[:0:0]
	for _, o := range options {
		if strings.TrimSpace(o.Title) == "" {
			continue
		}
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		o.FitScore = min(max(o.FitScore, 0), 100)
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return out, nil
}
