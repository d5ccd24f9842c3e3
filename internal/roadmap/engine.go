package roadmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrGenerationFailed   = errors.New("roadmap generation failed")
	ErrStrategyNotAllowed = errors.New("strategy not allowed for this change")
)

// Generator produces roadmap phases. The gemini package implements it.
type Generator interface {
	GenerateRoadmap(ctx context.Context, req GenerationRequest) ([]model.RoadmapPhase, error)
}

type GenerationRequest struct {
	CareerTitle     string
	Status          string
	ExperienceLevel model.ExperienceLevel
	FocusAreas      string
	TargetDate      calendar.Date
	Budget          Budget
	Strategy        Strategy
	// StartingPhase is the 1-indexed number of the first generated phase.
	StartingPhase   int
	ProgressSummary string
}

type Adaptation struct {
	Strategy Strategy
	// TargetDate is the requested new deadline. Zero keeps the current one.
	TargetDate calendar.Date
}

type Result struct {
	Phases     model.Phases
	TargetDate calendar.Date
	Preserved  int
	Budget     Budget
}

type Engine struct {
	gen   Generator
	newID func() string
}

func NewEngine(gen Generator) *Engine {
	return &Engine{
		gen:   gen,
		newID: func() string { return uuid.New().String() },
	}
}

// Generate builds the first roadmap of a career.
func (e *Engine) Generate(ctx context.Context, career *model.CareerTrack, today calendar.Date) (model.Phases, error) {
	req := baseRequest(career, career.TargetCompletionDate, today)
	req.Strategy = StrategyInitial
	req.StartingPhase = 1

	generated, err := e.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return Merge(nil, generated, e.newID), nil
}

// Adapt regenerates everything after the completed prefix. On failure the
// returned error wraps ErrGenerationFailed and nothing is returned to merge.
func (e *Engine) Adapt(ctx context.Context, career *model.CareerTrack, phases []model.RoadmapPhase, a Adaptation, today calendar.Date) (*Result, error) {
	target := career.TargetCompletionDate
	if !a.TargetDate.IsZero() {
		target = a.TargetDate
	}

	change := ClassifyDateChange(career.TargetCompletionDate, target)
	if !change.Allows(a.Strategy) {
		return nil, fmt.Errorf("%w: %s on %s", ErrStrategyNotAllowed, a.Strategy, change)
	}

	preserved, _ := Partition(phases)

	req := baseRequest(career, target, today)
	req.Strategy = a.Strategy
	req.StartingPhase = len(preserved) + 1
	req.ProgressSummary = progressSummary(len(preserved))

	generated, err := e.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Result{
		Phases:     Merge(preserved, generated, e.newID),
		TargetDate: target,
		Preserved:  len(preserved),
		Budget:     req.Budget,
	}, nil
}

// FinishQuicker moves the deadline to match the remaining content.
func FinishQuicker(phases []model.RoadmapPhase, today calendar.Date) calendar.Date {
	days := EstimateRemainingDays(phases)
	return today.AddDays(max(0, days-1))
}

func (e *Engine) generate(ctx context.Context, req GenerationRequest) ([]model.RoadmapPhase, error) {
	generated, err := e.gen.GenerateRoadmap(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	usable := generated[:0:0]
	for _, p := range generated {
		if len(p.Items) > 0 {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: generator returned no phases", ErrGenerationFailed)
	}
	return usable, nil
}

func baseRequest(career *model.CareerTrack, target, today calendar.Date) GenerationRequest {
	return GenerationRequest{
		CareerTitle:     career.Title,
		Status:          career.EducationYear,
		ExperienceLevel: career.ExperienceLevel,
		FocusAreas:      career.FocusAreas,
		TargetDate:      target,
		Budget:          DayBudget(today, target),
	}
}

func progressSummary(completed int) string {
	if completed == 0 {
		return "User has not completed any phases yet. Generate the roadmap starting from Phase 1."
	}
	return fmt.Sprintf(
		"User has completed %d phases. Proceed to generate the REMAINING phases starting from Phase %d.",
		completed, completed+1,
	)
}
