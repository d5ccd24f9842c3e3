package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/metrics"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

// PhaseSummaryFallback is stored when the phase summary cannot be generated.
const PhaseSummaryFallback = "Great job completing this phase! You've mastered key concepts."

var (
	ErrStaleRoadmap    = errors.New("roadmap changed while the update was running")
	ErrRoadmapNotEmpty = errors.New("roadmap already has phases")
)

// Overview is the roadmap of one career with its derived progress figures.
type Overview struct {
	Career        *model.CareerTrack `json:"career"`
	Roadmap       *model.Roadmap     `json:"roadmap"`
	Percent       int                `json:"percent"`
	Completed     int                `json:"completed"`
	Total         int                `json:"total"`
	Pacing        roadmap.Pacing     `json:"pacing"`
	DaysRemaining int                `json:"daysRemaining"`
	EstimatedDays int                `json:"estimatedDays"`
}

type ToggleOutcome struct {
	Roadmap    *model.Roadmap             `json:"roadmap"`
	Item       model.RoadmapItem          `json:"item"`
	PhaseIndex int                        `json:"phaseIndex"`
	Event      roadmap.Event              `json:"event,omitempty"`
	Summary    string                     `json:"summary,omitempty"`
	Choices    []roadmap.AfterPhaseChoice `json:"choices,omitempty"`
}

// DateChangePlan tells the client which strategies a target date edit offers.
type DateChangePlan struct {
	Change     roadmap.DateChange `json:"change"`
	Current    calendar.Date      `json:"current"`
	Requested  calendar.Date      `json:"requested"`
	Strategies []roadmap.Strategy `json:"strategies"`
}

type RoadmapService struct {
	careerRepo   repository.CareerRepository
	roadmapRepo  repository.RoadmapRepository
	profileRepo  repository.ProfileRepository
	engine       *roadmap.Engine
	guard        *roadmap.Guard
	gateway      Gateway
	emailService *EmailService
	clock        Clock
}

func NewRoadmapService(
	careerRepo repository.CareerRepository,
	roadmapRepo repository.RoadmapRepository,
	profileRepo repository.ProfileRepository,
	gateway Gateway,
	emailService *EmailService,
	clock Clock,
) *RoadmapService {
	return &RoadmapService{
		careerRepo:   careerRepo,
		roadmapRepo:  roadmapRepo,
		profileRepo:  profileRepo,
		engine:       roadmap.NewEngine(gateway),
		guard:        roadmap.NewGuard(),
		gateway:      gateway,
		emailService: emailService,
		clock:        clock,
	}
}

func (s *RoadmapService) Overview(userID, careerID string) (*Overview, error) {
	career, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}
	return s.overview(career, rm), nil
}

func (s *RoadmapService) overview(career *model.CareerTrack, rm *model.Roadmap) *Overview {
	today := s.clock.Today()
	completed, total := rm.Phases.Counts()
	percent := roadmap.Percent(rm.Phases)

	deadline := career.TargetCompletionDate.Noon(s.clock.loc())
	pacing := roadmap.ComputePacing(career.AddedAt, deadline, s.clock.now(), percent)

	return &Overview{
		Career:        career,
		Roadmap:       rm,
		Percent:       percent,
		Completed:     completed,
		Total:         total,
		Pacing:        pacing,
		DaysRemaining: roadmap.DaysRemaining(career.TargetCompletionDate, today, rm.Phases),
		EstimatedDays: roadmap.EstimateRemainingDays(rm.Phases),
	}
}

// ToggleItem flips one item. Completing a phase stores a short AI summary
// on it and offers the after-phase choices.
func (s *RoadmapService) ToggleItem(ctx context.Context, userID, careerID, itemID string) (*ToggleOutcome, error) {
	career, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}

	result, err := roadmap.Toggle(rm.Phases, itemID, s.clock.now())
	if err != nil {
		return nil, err
	}

	outcome := &ToggleOutcome{
		Item:       result.Item,
		PhaseIndex: result.PhaseIndex,
		Event:      result.Event,
	}

	if result.Event == roadmap.EventPhaseCompleted {
		phase := &result.Phases[result.PhaseIndex]
		phase.CompletionSummary = s.phaseSummary(ctx, *phase)
		outcome.Summary = phase.CompletionSummary
		outcome.Choices = roadmap.AfterPhaseChoices
	}

	rm.Phases = result.Phases
	err = s.roadmapRepo.Update(rm)
	if err != nil {
		return nil, s.writeError(err)
	}
	outcome.Roadmap = rm

	metrics.RecordToggle(string(result.Event))
	s.notify(ctx, userID, career, result, outcome.Summary)

	return outcome, nil
}

func (s *RoadmapService) phaseSummary(ctx context.Context, phase model.RoadmapPhase) string {
	summary, err := s.gateway.PhaseSummary(ctx, phase)
	if err != nil || summary == "" {
		slog.Warn("phase summary failed, using fallback", "error", err, "phase", phase.PhaseName)
		return PhaseSummaryFallback
	}
	return summary
}

func (s *RoadmapService) notify(ctx context.Context, userID string, career *model.CareerTrack, result roadmap.ToggleResult, summary string) {
	if result.Event == roadmap.EventNone {
		return
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil || profile.Email == "" {
		return
	}

	switch result.Event {
	case roadmap.EventPhaseCompleted:
		phase := result.Phases[result.PhaseIndex]
		err = s.emailService.SendPhaseCompletedEmail(ctx, profile.Email, career.Title, phase.PhaseName, summary)
	case roadmap.EventRoadmapCompleted:
		err = s.emailService.SendRoadmapCompletedEmail(ctx, profile.Email, career.Title)
	}
	if err != nil {
		slog.Warn("failed to send completion email", "error", err, "user_id", userID, "event", result.Event)
	}
}

func (s *RoadmapService) ResetPhase(userID, careerID string, index int) (*model.Roadmap, error) {
	_, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}

	phases, err := roadmap.ResetPhase(rm.Phases, index)
	if err != nil {
		return nil, err
	}

	rm.Phases = phases
	err = s.roadmapRepo.Update(rm)
	if err != nil {
		return nil, s.writeError(err)
	}
	return rm, nil
}

func (s *RoadmapService) ResetRoadmap(userID, careerID string) (*model.Roadmap, error) {
	_, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}

	rm.Phases = roadmap.ResetAll(rm.Phases)
	err = s.roadmapRepo.Update(rm)
	if err != nil {
		return nil, s.writeError(err)
	}
	return rm, nil
}

// ResetAll resets the progress of every roadmap the user has.
func (s *RoadmapService) ResetAll(userID string) error {
	roadmaps, err := s.roadmapRepo.ByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to list roadmaps: %w", err)
	}

	for _, rm := range roadmaps {
		rm.Phases = roadmap.ResetAll(rm.Phases)
		err = s.roadmapRepo.Update(rm)
		if err != nil {
			return s.writeError(err)
		}
	}

	slog.Info("all roadmaps reset", "user_id", userID, "count", len(roadmaps))
	return nil
}

// PlanDateChange classifies a target date edit without changing anything.
func (s *RoadmapService) PlanDateChange(userID, careerID string, requested calendar.Date) (*DateChangePlan, error) {
	if requested.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", ErrInvalidInput)
	}

	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}

	change := roadmap.ClassifyDateChange(career.TargetCompletionDate, requested)
	return &DateChangePlan{
		Change:     change,
		Current:    career.TargetCompletionDate,
		Requested:  requested,
		Strategies: change.Strategies(),
	}, nil
}

// Adapt regenerates the unfinished part of a roadmap with the given strategy
// and, when target is set, moves the deadline. Nothing is written unless the
// generation succeeds and the roadmap is unchanged since it was read.
func (s *RoadmapService) Adapt(ctx context.Context, userID, careerID string, strategy roadmap.Strategy, target calendar.Date) (*Overview, error) {
	release, err := s.guard.TryAcquire(roadmap.GuardKey(userID, careerID))
	if err != nil {
		metrics.RecordAdaptation(string(strategy), "busy")
		return nil, err
	}
	defer release()

	career, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Adapt(ctx, career, rm.Phases, roadmap.Adaptation{Strategy: strategy, TargetDate: target}, s.clock.Today())
	if err != nil {
		if errors.Is(err, roadmap.ErrStrategyNotAllowed) {
			metrics.RecordAdaptation(string(strategy), "rejected")
			return nil, err
		}
		metrics.RecordAdaptation(string(strategy), "failed")
		slog.Error("roadmap adaptation failed", "error", err, "user_id", userID, "career_id", careerID, "strategy", strategy)
		return nil, err
	}

	rm.Phases = result.Phases
	err = s.roadmapRepo.CommitAdaptation(rm, career.TargetCompletionDate, result.TargetDate)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			metrics.RecordAdaptation(string(strategy), "stale")
			slog.Warn("dropping stale adaptation", "user_id", userID, "career_id", careerID, "strategy", strategy)
			return nil, ErrStaleRoadmap
		}
		metrics.RecordAdaptation(string(strategy), "failed")
		return nil, fmt.Errorf("failed to save adaptation: %w", err)
	}
	career.TargetCompletionDate = result.TargetDate

	metrics.RecordAdaptation(string(strategy), "applied")
	slog.Info("roadmap adapted",
		"user_id", userID,
		"career_id", careerID,
		"strategy", strategy,
		"preserved_phases", result.Preserved,
		"budget_days", result.Budget.Days,
		"target", result.TargetDate,
	)

	return s.overview(career, rm), nil
}

// FinishQuicker pulls the deadline in to match the estimated remaining work.
// The roadmap content is left as it is.
func (s *RoadmapService) FinishQuicker(userID, careerID string) (*Overview, error) {
	release, err := s.guard.TryAcquire(roadmap.GuardKey(userID, careerID))
	if err != nil {
		return nil, err
	}
	defer release()

	career, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}

	target := roadmap.FinishQuicker(rm.Phases, s.clock.Today())
	err = s.careerRepo.MoveTarget(userID, careerID, career.TargetCompletionDate, target)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrStaleRoadmap
		}
		return nil, fmt.Errorf("failed to update target date: %w", err)
	}
	career.TargetCompletionDate = target

	slog.Info("target date moved to estimate", "user_id", userID, "career_id", careerID, "target", career.TargetCompletionDate)
	return s.overview(career, rm), nil
}

// AfterPhase applies the choice made once a phase is completed. The
// regenerating choices keep the current deadline.
func (s *RoadmapService) AfterPhase(ctx context.Context, userID, careerID string, choice roadmap.AfterPhaseChoice) (*Overview, error) {
	switch choice {
	case roadmap.ChoiceKeepPace:
		return s.Adapt(ctx, userID, careerID, roadmap.StrategyRedistribute, calendar.Date{})
	case roadmap.ChoiceHarder:
		return s.Adapt(ctx, userID, careerID, roadmap.StrategyIncreaseDifficultySameTime, calendar.Date{})
	case roadmap.ChoiceFinishQuicker:
		return s.FinishQuicker(userID, careerID)
	default:
		return nil, fmt.Errorf("%w: unknown choice %q", ErrInvalidInput, choice)
	}
}

// Generate builds the first roadmap of a career whose roadmap is still empty.
func (s *RoadmapService) Generate(ctx context.Context, userID, careerID string) (*Overview, error) {
	release, err := s.guard.TryAcquire(roadmap.GuardKey(userID, careerID))
	if err != nil {
		return nil, err
	}
	defer release()

	career, rm, err := s.load(userID, careerID)
	if err != nil {
		return nil, err
	}
	if len(rm.Phases) > 0 {
		return nil, ErrRoadmapNotEmpty
	}

	phases, err := s.engine.Generate(ctx, career, s.clock.Today())
	if err != nil {
		metrics.RecordAdaptation(string(roadmap.StrategyInitial), "failed")
		slog.Error("roadmap generation failed", "error", err, "user_id", userID, "career_id", careerID)
		return nil, err
	}

	rm.Phases = phases
	err = s.roadmapRepo.Update(rm)
	if err != nil {
		metrics.RecordAdaptation(string(roadmap.StrategyInitial), "stale")
		return nil, s.writeError(err)
	}

	metrics.RecordAdaptation(string(roadmap.StrategyInitial), "applied")
	slog.Info("roadmap generated", "user_id", userID, "career_id", careerID, "phases", len(phases))
	return s.overview(career, rm), nil
}

func (s *RoadmapService) load(userID, careerID string) (*model.CareerTrack, *model.Roadmap, error) {
	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, nil, err
	}

	rm, err := s.roadmapRepo.ByCareer(userID, careerID)
	if err != nil {
		return nil, nil, err
	}

	return career, rm, nil
}

func (s *RoadmapService) writeError(err error) error {
	if errors.Is(err, repository.ErrVersionConflict) {
		return ErrStaleRoadmap
	}
	return fmt.Errorf("failed to save roadmap: %w", err)
}
