package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/db"
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrCareerNotFound   = errors.New("career not found")
	ErrSnapshotNotFound = errors.New("career snapshot not found")
)

type CareerRepository interface {
	// Create stores the track, its snapshot and an empty roadmap together.
	Create(track *model.CareerTrack, snapshot *model.CareerSnapshot) error
	ByID(userID, careerID string) (*model.CareerTrack, error)
	ByUserID(userID string) ([]*model.CareerTrack, error)
	Count(userID string) (int, error)
	// MoveTarget sets the target date only while it still equals from.
	MoveTarget(userID, careerID string, from, to calendar.Date) error
	MarkDailyChallenge(userID, careerID string, day calendar.Date) error
	Snapshot(userID, careerID string) (*model.CareerSnapshot, error)
	// Delete removes the track with its snapshot, roadmap and quests.
	Delete(userID, careerID string) error
}

type careerRepository struct {
	db *sqlx.DB
}

func NewCareerRepository(db *sqlx.DB) CareerRepository {
	return &careerRepository{db: db}
}

func (r *careerRepository) Create(track *model.CareerTrack, snapshot *model.CareerSnapshot) error {
	return db.WithTx(context.Background(), r.db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO career_tracks (
		                       user_id, career_id, title, education_year, experience_level,
		                       focus_areas, target_completion_date, last_daily_challenge, added_at
		                   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			track.UserID,
			track.CareerID,
			track.Title,
			track.EducationYear,
			track.ExperienceLevel,
			track.FocusAreas,
			track.TargetCompletionDate,
			track.LastDailyChallenge,
			track.AddedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`INSERT INTO career_snapshots (user_id, career_id, title, description, fit_score, reason, created_at)
		                  VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			snapshot.UserID,
			snapshot.CareerID,
			snapshot.Title,
			snapshot.Description,
			snapshot.FitScore,
			snapshot.Reason,
			snapshot.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`INSERT INTO roadmaps (user_id, career_id, phases, version, updated_at)
		                  VALUES ($1, $2, $3, $4, $5)`,
			track.UserID,
			track.CareerID,
			model.Phases(nil),
			1,
			track.AddedAt,
		)
		return err
	})
}

func (r *careerRepository) ByID(userID, careerID string) (*model.CareerTrack, error) {
	track := &model.CareerTrack{}
	query := `SELECT * FROM career_tracks WHERE user_id = $1 AND career_id = $2`

	err := r.db.Get(track, query, userID, careerID)
	if err == sql.ErrNoRows {
		return nil, ErrCareerNotFound
	}

	return track, err
}

func (r *careerRepository) ByUserID(userID string) ([]*model.CareerTrack, error) {
	var tracks []*model.CareerTrack
	query := `SELECT * FROM career_tracks WHERE user_id = $1 ORDER BY added_at ASC, career_id ASC`

	err := r.db.Select(&tracks, query, userID)
	if err != nil {
		return nil, err
	}

	return tracks, nil
}

func (r *careerRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM career_tracks WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *careerRepository) MoveTarget(userID, careerID string, from, to calendar.Date) error {
	return db.WithTx(context.Background(), r.db, func(tx *sqlx.Tx) error {
		return moveTarget(tx, userID, careerID, from, to)
	})
}

func (r *careerRepository) MarkDailyChallenge(userID, careerID string, day calendar.Date) error {
	query := `UPDATE career_tracks SET last_daily_challenge = $1 WHERE user_id = $2 AND career_id = $3`
	return expectOne(r.db.Exec(query, day, userID, careerID))(ErrCareerNotFound)
}

func moveTarget(tx *sqlx.Tx, userID, careerID string, from, to calendar.Date) error {
	query := `UPDATE career_tracks SET target_completion_date = $1
	          WHERE user_id = $2 AND career_id = $3 AND target_completion_date = $4`

	result, err := tx.Exec(query, to, userID, careerID, from)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		var exists int
		err = tx.QueryRow(`SELECT COUNT(*) FROM career_tracks WHERE user_id = $1 AND career_id = $2`,
			userID, careerID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrCareerNotFound
		}
		return ErrVersionConflict
	}

	return nil
}

func (r *careerRepository) Snapshot(userID, careerID string) (*model.CareerSnapshot, error) {
	snapshot := &model.CareerSnapshot{}
	query := `SELECT * FROM career_snapshots WHERE user_id = $1 AND career_id = $2`

	err := r.db.Get(snapshot, query, userID, careerID)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}

	return snapshot, err
}

func (r *careerRepository) Delete(userID, careerID string) error {
	return db.WithTx(context.Background(), r.db, func(tx *sqlx.Tx) error {
		// Children first, so this does not depend on the foreign_keys pragma.
		for _, table := range []string{"quests", "roadmaps", "career_snapshots"} {
			_, err := tx.Exec(`DELETE FROM `+table+` WHERE user_id = $1 AND career_id = $2`, userID, careerID)
			if err != nil {
				return err
			}
		}

		return expectOne(tx.Exec(`DELETE FROM career_tracks WHERE user_id = $1 AND career_id = $2`, userID, careerID))(ErrCareerNotFound)
	})
}
