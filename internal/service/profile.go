package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/validation"
)

type ProfileService struct {
	profileRepo  repository.ProfileRepository
	careerRepo   repository.CareerRepository
	userRepo     repository.UserRepository
	emailService *EmailService
	clock        Clock
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	careerRepo repository.CareerRepository,
	userRepo repository.UserRepository,
	emailService *EmailService,
	clock Clock,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		careerRepo:   careerRepo,
		userRepo:     userRepo,
		emailService: emailService,
		clock:        clock,
	}
}

// ByUserID returns the profile with its active careers filled in.
func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	careers, err := s.careerRepo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list careers: %w", err)
	}
	profile.ActiveCareers = careers

	return profile, nil
}

func (s *ProfileService) UpdateTheme(userID, mode, color string) (*model.Profile, error) {
	if mode != model.ThemeModeDark && mode != model.ThemeModeLight {
		return nil, fmt.Errorf("%w: unknown theme mode %q", ErrInvalidInput, mode)
	}
	if !model.ValidThemeColor(color) {
		return nil, fmt.Errorf("%w: unknown theme color %q", ErrInvalidInput, color)
	}

	profile, err := s.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	profile.ThemeMode = mode
	profile.ThemeColor = color

	err = s.save(profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateEmail sets the address completion notifications go to. An empty
// address turns notifications off.
func (s *ProfileService) UpdateEmail(ctx context.Context, userID, email string) (*model.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email != "" {
		err := validation.ValidateEmail(email)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
	}

	profile, err := s.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	previous := profile.Email
	profile.Email = email

	err = s.save(profile)
	if err != nil {
		return nil, err
	}

	if email != "" && email != previous {
		user, err := s.userRepo.ByID(userID)
		if err == nil {
			err = s.emailService.SendWelcomeEmail(ctx, email, user.Username)
		}
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", userID)
		}
	}

	return profile, nil
}

// CheckStreak breaks the streak when the last daily challenge is more than a
// day old. It is called when the dashboard loads.
func (s *ProfileService) CheckStreak(userID string) (*model.Profile, error) {
	profile, err := s.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	if !streakBroken(profile, s.clock.Today().DaysSince(profile.LastDailyChallenge)) {
		return profile, nil
	}

	slog.Info("streak reset", "user_id", userID, "streak", profile.Streak, "last_daily_challenge", profile.LastDailyChallenge)
	profile.Streak = 0

	err = s.save(profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func streakBroken(profile *model.Profile, daysSince int) bool {
	return profile.Streak > 0 && !profile.LastDailyChallenge.IsZero() && daysSince > 1
}

func (s *ProfileService) save(profile *model.Profile) error {
	profile.UpdatedAt = time.Now()

	err := s.profileRepo.Update(profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
