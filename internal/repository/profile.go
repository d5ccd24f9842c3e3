package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	ByUserID(userID string) (*model.Profile, error)
	Update(profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	query := `INSERT INTO profiles (
	              user_id, email, onboarding_complete, theme_mode, theme_color,
	              xp, streak, last_daily_challenge, current_career_id, created_at, updated_at
	          ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		profile.UserID,
		profile.Email,
		profile.OnboardingComplete,
		profile.ThemeMode,
		profile.ThemeColor,
		profile.XP,
		profile.Streak,
		profile.LastDailyChallenge,
		profile.CurrentCareerID,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE user_id = $1`

	err := r.db.Get(profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

func (r *profileRepository) Update(profile *model.Profile) error {
	profile.UpdatedAt = time.Now()
	query := `UPDATE profiles
	          SET email = $1, onboarding_complete = $2, theme_mode = $3, theme_color = $4,
	              xp = $5, streak = $6, last_daily_challenge = $7, current_career_id = $8, updated_at = $9
	          WHERE user_id = $10`

	return expectOne(r.db.Exec(query,
		profile.Email,
		profile.OnboardingComplete,
		profile.ThemeMode,
		profile.ThemeColor,
		profile.XP,
		profile.Streak,
		profile.LastDailyChallenge,
		profile.CurrentCareerID,
		profile.UpdatedAt,
		profile.UserID,
	))(ErrProfileNotFound)
}
