package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

var (
	ErrCareerLimitReached  = errors.New("career limit reached for your plan")
	ErrCareerAlreadyActive = errors.New("career is already active")
	ErrTargetDateInPast    = errors.New("target date must not be in the past")
)

// OnboardInput is what the user fills in when adding a career track.
type OnboardInput struct {
	Option          model.CareerOption
	EducationYear   string
	ExperienceLevel model.ExperienceLevel
	FocusAreas      string
	TargetDate      calendar.Date
}

type OnboardResult struct {
	Career *model.CareerTrack
	// Generated is false when the first roadmap could not be built. The
	// career is kept and the roadmap can be generated again later.
	Generated bool
}

type CareerService struct {
	careerRepo          repository.CareerRepository
	profileRepo         repository.ProfileRepository
	subscriptionService *SubscriptionService
	roadmapService      *RoadmapService
	gateway             Gateway
	clock               Clock
}

func NewCareerService(
	careerRepo repository.CareerRepository,
	profileRepo repository.ProfileRepository,
	subscriptionService *SubscriptionService,
	roadmapService *RoadmapService,
	gateway Gateway,
	clock Clock,
) *CareerService {
	return &CareerService{
		careerRepo:          careerRepo,
		profileRepo:         profileRepo,
		subscriptionService: subscriptionService,
		roadmapService:      roadmapService,
		gateway:             gateway,
		clock:               clock,
	}
}

// Suggest ranks careers against the answers of the onboarding questionnaire.
func (s *CareerService) Suggest(ctx context.Context, answers []string) ([]model.CareerOption, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers", ErrInvalidInput)
	}

	options, err := s.gateway.AnalyzeInterests(ctx, answers)
	if err != nil {
		slog.Error("interest analysis failed", "error", err)
		return nil, generationFailed(err)
	}
	return options, nil
}

func (s *CareerService) Search(ctx context.Context, query string) ([]model.CareerOption, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search", ErrInvalidInput)
	}

	options, err := s.gateway.SearchCareers(ctx, query)
	if err != nil {
		slog.Error("career search failed", "error", err, "query", query)
		return nil, generationFailed(err)
	}
	return options, nil
}

func (s *CareerService) Assessment(ctx context.Context, careerTitle string) (*model.SkillAssessment, error) {
	careerTitle = strings.TrimSpace(careerTitle)
	if careerTitle == "" {
		return nil, fmt.Errorf("%w: career title is required", ErrInvalidInput)
	}

	assessment, err := s.gateway.SkillAssessment(ctx, careerTitle)
	if err != nil {
		slog.Error("skill assessment failed", "error", err, "career", careerTitle)
		return nil, generationFailed(err)
	}
	return assessment, nil
}

// Onboard adds a career track, makes it current and builds its first
// roadmap. A generation failure does not undo the track.
func (s *CareerService) Onboard(ctx context.Context, userID string, input OnboardInput) (*OnboardResult, error) {
	title := normalizeTitle(input.Option.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: career title is required", ErrInvalidInput)
	}

	level := input.ExperienceLevel
	if level == "" {
		level = model.ExperienceBeginner
	}
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown experience level %q", ErrInvalidInput, level)
	}

	if input.TargetDate.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", ErrInvalidInput)
	}
	if input.TargetDate.Before(s.clock.Today()) {
		return nil, ErrTargetDateInPast
	}

	sub, err := s.subscriptionService.Subscription(userID)
	if err != nil {
		return nil, err
	}

	count, err := s.careerRepo.Count(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count careers: %w", err)
	}

	limit := sub.GetCareerLimit()
	if limit >= 0 && count >= limit {
		return nil, ErrCareerLimitReached
	}

	careerID := input.Option.ID
	if careerID == "" {
		careerID = uuid.New().String()
	}

	_, err = s.careerRepo.ByID(userID, careerID)
	if err == nil {
		return nil, ErrCareerAlreadyActive
	}
	if !errors.Is(err, repository.ErrCareerNotFound) {
		return nil, fmt.Errorf("failed to check career: %w", err)
	}

	now := s.clock.now()
	track := &model.CareerTrack{
		UserID:               userID,
		CareerID:             careerID,
		Title:                title,
		EducationYear:        strings.TrimSpace(input.EducationYear),
		ExperienceLevel:      level,
		FocusAreas:           strings.TrimSpace(input.FocusAreas),
		TargetCompletionDate: input.TargetDate,
		AddedAt:              now,
	}
	snapshot := &model.CareerSnapshot{
		UserID:      userID,
		CareerID:    careerID,
		Title:       title,
		Description: input.Option.Description,
		FitScore:    input.Option.FitScore,
		Reason:      input.Option.Reason,
		CreatedAt:   now,
	}

	err = s.careerRepo.Create(track, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to create career: %w", err)
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	profile.CurrentCareerID = careerID
	profile.OnboardingComplete = true
	profile.UpdatedAt = now

	err = s.profileRepo.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("career added", "user_id", userID, "career_id", careerID, "title", title)

	result := &OnboardResult{Career: track}

	_, err = s.roadmapService.Generate(ctx, userID, careerID)
	if err != nil {
		slog.Warn("initial roadmap generation failed", "error", err, "user_id", userID, "career_id", careerID)
		return result, nil
	}

	result.Generated = true
	return result, nil
}

func (s *CareerService) List(userID string) ([]*model.CareerTrack, error) {
	careers, err := s.careerRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list careers: %w", err)
	}
	return careers, nil
}

// Snapshot returns the career option a track was created from.
func (s *CareerService) Snapshot(userID, careerID string) (*model.CareerOption, error) {
	snapshot, err := s.careerRepo.Snapshot(userID, careerID)
	if err != nil {
		return nil, err
	}
	option := snapshot.Option()
	return &option, nil
}

// Switch makes careerID the current career.
func (s *CareerService) Switch(userID, careerID string) (*model.Profile, error) {
	_, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.CurrentCareerID = careerID
	profile.UpdatedAt = time.Now()

	err = s.profileRepo.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// Delete removes a career with its roadmap, snapshot and quests. When it was
// the current career, the oldest remaining one takes its place.
func (s *CareerService) Delete(userID, careerID string) (*model.Profile, error) {
	err := s.careerRepo.Delete(userID, careerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.CurrentCareerID == careerID {
		remaining, err := s.careerRepo.ByUserID(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list careers: %w", err)
		}

		profile.CurrentCareerID = ""
		if len(remaining) > 0 {
			profile.CurrentCareerID = remaining[0].CareerID
		}
		profile.UpdatedAt = time.Now()

		err = s.profileRepo.Update(profile)
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	slog.Info("career deleted", "user_id", userID, "career_id", careerID)
	return profile, nil
}

// normalizeTitle collapses whitespace and title-cases all-lowercase input.
// Titles with their own capitalisation (e.g. "iOS Developer") are kept.
func normalizeTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == strings.ToLower(title) {
		return cases.Title(language.English).String(title)
	}
	return title
}

func generationFailed(err error) error {
	if errors.Is(err, roadmap.ErrGenerationFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", roadmap.ErrGenerationFailed, err)
}
