package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pathfinder-ai/pathfinder/internal/gemini"
	"github.com/pathfinder-ai/pathfinder/internal/markdown"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
)

// ChatFallback is the reply when the assistant cannot be reached.
const ChatFallback = "I'm having a bit of trouble connecting right now. Please try again in a moment."

const maxChatMessage = 2000

type ChatReply struct {
	Text string `json:"text"`
	HTML string `json:"html"`
	// Fallback is set when Text is the canned reply.
	Fallback bool `json:"fallback,omitempty"`
}

// Feed is the dashboard sidebar. Each part is loaded independently and is
// nil when it could not be produced.
type Feed struct {
	News           []model.NewsItem      `json:"news"`
	Trivia         *model.TriviaQuestion `json:"trivia,omitempty"`
	DailyChallenge *IssuedChallenge      `json:"dailyChallenge,omitempty"`
	ChallengeDone  bool                  `json:"challengeDone"`
}

type InsightService struct {
	careerRepo   repository.CareerRepository
	questService *QuestService
	gateway      Gateway
	markdown     *markdown.Parser
}

func NewInsightService(
	careerRepo repository.CareerRepository,
	questService *QuestService,
	gateway Gateway,
	markdown *markdown.Parser,
) *InsightService {
	return &InsightService{
		careerRepo:   careerRepo,
		questService: questService,
		gateway:      gateway,
		markdown:     markdown,
	}
}

// News returns recent headlines for the career. It never fails on the
// gateway; a search link is returned instead.
func (s *InsightService) News(ctx context.Context, userID, careerID string) ([]model.NewsItem, error) {
	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}
	return s.news(ctx, career.Title), nil
}

func (s *InsightService) news(ctx context.Context, interest string) []model.NewsItem {
	items, err := s.gateway.TechNews(ctx, interest)
	if err != nil || len(items) == 0 {
		slog.Warn("news lookup failed, using fallback", "error", err, "interest", interest)
		return gemini.FallbackNews(interest)
	}
	return items
}

// Chat answers a question in the context of the career. Gateway failures
// produce the fallback reply rather than an error.
func (s *InsightService) Chat(ctx context.Context, userID, careerID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(message) > maxChatMessage {
		return nil, fmt.Errorf("%w: message is too long (max %d characters)", ErrInvalidInput, maxChatMessage)
	}

	careerTitle := ""
	if careerID != "" {
		career, err := s.careerRepo.ByID(userID, careerID)
		if err != nil {
			return nil, err
		}
		careerTitle = career.Title
	}

	text, err := s.gateway.Chat(ctx, careerTitle, message)
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("chat failed, using fallback", "error", err, "user_id", userID)
		return &ChatReply{Text: ChatFallback, HTML: "<p>" + html.EscapeString(ChatFallback) + "</p>\n", Fallback: true}, nil
	}

	rendered, err := s.markdown.ParseString(text)
	if err != nil {
		slog.Warn("failed to render chat reply", "error", err)
		rendered = "<p>" + html.EscapeString(text) + "</p>\n"
	}

	return &ChatReply{Text: text, HTML: rendered}, nil
}

// Feed loads news, trivia and the daily challenge concurrently.
func (s *InsightService) Feed(ctx context.Context, userID, careerID string) (*Feed, error) {
	career, err := s.careerRepo.ByID(userID, careerID)
	if err != nil {
		return nil, err
	}

	feed := &Feed{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		feed.News = s.news(gctx, career.Title)
		return nil
	})

	g.Go(func() error {
		trivia, err := s.gateway.Trivia(gctx, career.Title)
		if err != nil {
			slog.Warn("feed trivia failed", "error", err, "user_id", userID)
			return nil
		}
		feed.Trivia = trivia
		return nil
	})

	g.Go(func() error {
		challenge, err := s.questService.DailyChallenge(gctx, userID, careerID)
		switch {
		case errors.Is(err, ErrChallengeAlreadyDone):
			feed.ChallengeDone = true
		case err != nil:
			slog.Warn("feed daily challenge failed", "error", err, "user_id", userID)
		default:
			feed.DailyChallenge = challenge
		}
		return nil
	})

	// Parts never return errors; Wait only joins them.
	_ = g.Wait()

	return feed, nil
}
