package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/metrics"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
)

const xpAlreadyCollected = " (XP already collected today.)"

var (
	ErrChallengeAlreadyDone = errors.New("daily challenge already completed for this career today")
	ErrQuestExpired         = errors.New("quest has expired")
	ErrInvalidAnswer        = errors.New("answer is out of range")
)

// IssuedChallenge is a daily challenge without its answer.
type IssuedChallenge struct {
	QuestID    string   `json:"questId"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

type ChallengeResult struct {
	Correct       bool            `json:"correct"`
	CorrectAnswer int             `json:"correctAnswer"`
	Explanation   string          `json:"explanation"`
	Feedback      string          `json:"feedback"`
	XPAwarded     int             `json:"xpAwarded"`
	XP            int             `json:"xp"`
	Streak        int             `json:"streak"`
	Milestone     model.Milestone `json:"milestone,omitempty"`
}

// IssuedSimulation is a simulation without the outcome and score of its options.
type IssuedSimulation struct {
	QuestID  string   `json:"questId"`
	Title    string   `json:"title"`
	Scenario string   `json:"scenario"`
	Role     string   `json:"role"`
	Options  []string `json:"options"`
}

type SimulationResult struct {
	Outcome   string          `json:"outcome"`
	Score     int             `json:"score"`
	XPAwarded int             `json:"xpAwarded"`
	XP        int             `json:"xp"`
	Milestone model.Milestone `json:"milestone,omitempty"`
}

type QuestService struct {
	questRepo   repository.QuestRepository
	careerRepo  repository.CareerRepository
	profileRepo repository.ProfileRepository
	gateway     Gateway
	clock       Clock

	// awards serialises profile read-modify-write of XP and streak.
	awards sync.Mutex
}

func NewQuestService(
	questRepo repository.QuestRepository,
	careerRepo repository.CareerRepository,
	profileRepo repository.ProfileRepository,
	gateway Gateway,
	clock Clock,
) *QuestService {
	return &QuestService{
		questRepo:   questRepo,
		careerRepo:  careerRepo,
		profileRepo: profileRepo,
		gateway:     gateway,
		clock:       clock,
	}
}

// DailyChallenge returns today's challenge for a career, issuing one if none
// is pending. A career can be answered once per day.
func (s *QuestService) DailyChallenge(ctx context.Context, userID, careerID string) (*IssuedChallenge, error) {
	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if career.LastDailyChallenge == today {
		return nil, ErrChallengeAlreadyDone
	}

	quest, err := s.questRepo.ForDay(userID, careerID, model.QuestKindDailyChallenge, today)
	switch {
	case err == nil && !quest.IsResolved():
		var challenge model.DailyChallenge
		err = json.Unmarshal([]byte(quest.Payload), &challenge)
		if err != nil {
			return nil, fmt.Errorf("failed to decode challenge: %w", err)
		}
		return issuedChallenge(quest.ID, &challenge), nil
	case err == nil:
		return nil, ErrChallengeAlreadyDone
	case !errors.Is(err, repository.ErrQuestNotFound):
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	challenge, err := s.gateway.DailyChallenge(ctx, career.Title, career.ExperienceLevel)
	if err != nil {
		slog.Error("daily challenge generation failed", "error", err, "user_id", userID, "career_id", careerID)
		return nil, generationFailed(err)
	}

	quest, err = s.issue(userID, careerID, model.QuestKindDailyChallenge, challenge)
	if err != nil {
		return nil, err
	}

	return issuedChallenge(quest.ID, challenge), nil
}

// SubmitDailyChallenge grades an answer. Only the first correct answer of
// the day across all careers earns XP and extends the streak.
func (s *QuestService) SubmitDailyChallenge(userID, careerID, questID string, answer int) (*ChallengeResult, error) {
	quest, err := s.questRepo.ByID(userID, questID)
	if err != nil {
		return nil, err
	}
	if quest.Kind != model.QuestKindDailyChallenge || quest.CareerID != careerID {
		return nil, repository.ErrQuestNotFound
	}

	today := s.clock.Today()
	if quest.Day != today {
		return nil, ErrQuestExpired
	}

	var challenge model.DailyChallenge
	err = json.Unmarshal([]byte(quest.Payload), &challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	if answer < 0 || answer >= len(challenge.Options) {
		return nil, ErrInvalidAnswer
	}

	s.awards.Lock()
	defer s.awards.Unlock()

	err = s.questRepo.Resolve(userID, questID, s.clock.now())
	if err != nil {
		if errors.Is(err, repository.ErrQuestAlreadyResolved) {
			return nil, ErrChallengeAlreadyDone
		}
		return nil, fmt.Errorf("failed to resolve challenge: %w", err)
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	correct := answer == challenge.CorrectAnswer
	firstToday := profile.LastDailyChallenge != today

	result := &ChallengeResult{
		Correct:       correct,
		CorrectAnswer: challenge.CorrectAnswer,
		Explanation:   challenge.Explanation,
		Feedback:      challengeFeedback(correct, challenge.Explanation),
	}

	if correct && firstToday {
		before := profile.XP
		profile.XP += model.DailyChallengeXP
		profile.Streak++
		result.XPAwarded = model.DailyChallengeXP
		result.Milestone = milestone(before, profile.XP, profile.Streak, true)
		metrics.RecordXP(model.QuestKindDailyChallenge, model.DailyChallengeXP)
	} else if correct {
		result.Feedback += xpAlreadyCollected
	}

	err = s.careerRepo.MarkDailyChallenge(userID, careerID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to update career: %w", err)
	}

	profile.LastDailyChallenge = today
	profile.UpdatedAt = time.Now()
	err = s.profileRepo.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	result.XP = profile.XP
	result.Streak = profile.Streak

	slog.Info("daily challenge answered",
		"user_id", userID,
		"career_id", careerID,
		"correct", correct,
		"xp_awarded", result.XPAwarded,
		"streak", profile.Streak,
	)
	return result, nil
}

func (s *QuestService) StartSimulation(ctx context.Context, userID, careerID string) (*IssuedSimulation, error) {
	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}

	sim, err := s.gateway.Simulation(ctx, career.Title)
	if err != nil {
		slog.Error("simulation generation failed", "error", err, "user_id", userID, "career_id", careerID)
		return nil, generationFailed(err)
	}

	quest, err := s.issue(userID, careerID, model.QuestKindSimulation, sim)
	if err != nil {
		return nil, err
	}

	issued := &IssuedSimulation{
		QuestID:  quest.ID,
		Title:    sim.Title,
		Scenario: sim.Scenario,
		Role:     sim.Role,
	}
	for _, o := range sim.Options {
		issued.Options = append(issued.Options, o.Text)
	}
	return issued, nil
}

// FinishSimulation records the chosen option and awards its score as XP.
func (s *QuestService) FinishSimulation(userID, questID string, choice int) (*SimulationResult, error) {
	quest, err := s.questRepo.ByID(userID, questID)
	if err != nil {
		return nil, err
	}
	if quest.Kind != model.QuestKindSimulation {
		return nil, repository.ErrQuestNotFound
	}

	var sim model.Simulation
	err = json.Unmarshal([]byte(quest.Payload), &sim)
	if err != nil {
		return nil, fmt.Errorf("failed to decode simulation: %w", err)
	}
	if choice < 0 || choice >= len(sim.Options) {
		return nil, ErrInvalidAnswer
	}
	option := sim.Options[choice]

	s.awards.Lock()
	defer s.awards.Unlock()

	err = s.questRepo.Resolve(userID, questID, s.clock.now())
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	result := &SimulationResult{Outcome: option.Outcome, Score: option.Score}

	if option.Score > 0 {
		before := profile.XP
		profile.XP += option.Score
		profile.UpdatedAt = time.Now()

		err = s.profileRepo.Update(profile)
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		result.XPAwarded = option.Score
		result.Milestone = milestone(before, profile.XP, profile.Streak, false)
		metrics.RecordXP(model.QuestKindSimulation, option.Score)
	}
	result.XP = profile.XP

	return result, nil
}

// Trivia is graded by the client and awards nothing, so it is not stored.
func (s *QuestService) Trivia(ctx context.Context, userID, careerID string) (*model.TriviaQuestion, error) {
	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}

	trivia, err := s.gateway.Trivia(ctx, career.Title)
	if err != nil {
		slog.Warn("trivia generation failed", "error", err, "user_id", userID, "career_id", careerID)
		return nil, generationFailed(err)
	}
	return trivia, nil
}

func (s *QuestService) issue(userID, careerID, kind string, payload any) (*model.Quest, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	now := s.clock.now()
	quest := &model.Quest{
		ID:        uuid.New().String(),
		UserID:    userID,
		CareerID:  careerID,
		Kind:      kind,
		Day:       s.clock.Today(),
		Payload:   string(data),
		CreatedAt: now,
	}

	err = s.questRepo.Create(quest)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", kind, err)
	}
	return quest, nil
}

func issuedChallenge(questID string, c *model.DailyChallenge) *IssuedChallenge {
	return &IssuedChallenge{
		QuestID:    questID,
		Question:   c.Question,
		Options:    c.Options,
		Difficulty: c.Difficulty,
	}
}

func challengeFeedback(correct bool, explanation string) string {
	if correct {
		return "Correct! " + explanation
	}
	return "Not quite. " + explanation
}

// milestone reports a streak milestone first, then an XP threshold crossed
// between before and after.
func milestone(before, after, streak int, streakIncreased bool) model.Milestone {
	if streakIncreased && streak > 0 && streak%model.StreakMilestone == 0 {
		return model.MilestoneStreak
	}
	if after/model.XPMilestone > before/model.XPMilestone {
		return model.MilestoneXP
	}
	return model.MilestoneNone
}
