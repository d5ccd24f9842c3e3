// Package gemini is the generation gateway. Every call returns the decoded
// value or an error; fallbacks are left to callers.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
)

var (
	ErrEmptyResponse   = errors.New("generation returned an empty response")
	ErrInvalidResponse = errors.New("generation returned an invalid response")
)

const DefaultModel = "gemini-2.5-flash"

// Models is the part of the genai client used here.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey        string
	Model         string
	Timeout       time.Duration
	MaxConcurrent int64
}

type Client struct {
	models  Models
	model   string
	timeout time.Duration
	limiter *semaphore.Weighted
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewWithModels(gc.Models, cfg), nil
}

func NewWithModels(models Models, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Client{
		models:  models,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}

func (c *Client) generate(ctx context.Context, op, prompt string, cfg *genai.GenerateContentConfig) (resp *genai.GenerateContentResponse, err error) {
	if err := c.limiter.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.limiter.Release(1)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	defer func() {
		metrics.RecordGeneration(op, started, err)
		if err != nil {
			slog.Warn("generation failed", "operation", op, "error", err, "duration", time.Since(started))
		}
	}()

	resp, err = c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return resp, nil
}

func (c *Client) generateText(ctx context.Context, op, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.generate(ctx, op, prompt, cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return text, nil
}

// generateJSON asks for a JSON document matching schema and decodes it into T.
func generateJSON[T any](ctx context.Context, c *Client, op, prompt string, schema *genai.Schema) (T, error) {
	var out T
	text, err := c.generateText(ctx, op, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, fmt.Errorf("%s: %w: %v", op, ErrInvalidResponse, err)
	}
	return out, nil
}
