package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/db"
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrRoadmapNotFound = errors.New("roadmap not found")
	// ErrVersionConflict means the roadmap or the target date of its career
	// changed since it was read.
	ErrVersionConflict = errors.New("roadmap was modified concurrently")
)

type RoadmapRepository interface {
	ByCareer(userID, careerID string) (*model.Roadmap, error)
	ByUserID(userID string) ([]*model.Roadmap, error)
	// Update writes phases if the stored version still equals roadmap.Version
	// and bumps the version on success.
	Update(roadmap *model.Roadmap) error
	// CommitAdaptation is Update plus moving the target date of the career
	// from the value read with the roadmap, in one transaction.
	CommitAdaptation(roadmap *model.Roadmap, from, to calendar.Date) error
}

type roadmapRepository struct {
	db *sqlx.DB
}

func NewRoadmapRepository(db *sqlx.DB) RoadmapRepository {
	return &roadmapRepository{db: db}
}

func (r *roadmapRepository) ByCareer(userID, careerID string) (*model.Roadmap, error) {
	roadmap := &model.Roadmap{}
	query := `SELECT * FROM roadmaps WHERE user_id = $1 AND career_id = $2`

	err := r.db.Get(roadmap, query, userID, careerID)
	if err == sql.ErrNoRows {
		return nil, ErrRoadmapNotFound
	}

	return roadmap, err
}

func (r *roadmapRepository) ByUserID(userID string) ([]*model.Roadmap, error) {
	var roadmaps []*model.Roadmap
	query := `SELECT * FROM roadmaps WHERE user_id = $1 ORDER BY career_id`

	err := r.db.Select(&roadmaps, query, userID)
	if err != nil {
		return nil, err
	}

	return roadmaps, nil
}

func (r *roadmapRepository) Update(roadmap *model.Roadmap) error {
	return db.WithTx(context.Background(), r.db, func(tx *sqlx.Tx) error {
		return updateVersioned(tx, roadmap)
	})
}

func (r *roadmapRepository) CommitAdaptation(roadmap *model.Roadmap, from, to calendar.Date) error {
	version, updatedAt := roadmap.Version, roadmap.UpdatedAt
	err := db.WithTx(context.Background(), r.db, func(tx *sqlx.Tx) error {
		err := updateVersioned(tx, roadmap)
		if err != nil {
			return err
		}
		return moveTarget(tx, roadmap.UserID, roadmap.CareerID, from, to)
	})
	if err != nil {
		roadmap.Version, roadmap.UpdatedAt = version, updatedAt
	}
	return err
}

func updateVersioned(tx *sqlx.Tx, roadmap *model.Roadmap) error {
	now := time.Now()
	query := `UPDATE roadmaps
	          SET phases = $1, version = version + 1, updated_at = $2
	          WHERE user_id = $3 AND career_id = $4 AND version = $5`

	result, err := tx.Exec(query, roadmap.Phases, now, roadmap.UserID, roadmap.CareerID, roadmap.Version)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		var exists int
		err = tx.QueryRow(`SELECT COUNT(*) FROM roadmaps WHERE user_id = $1 AND career_id = $2`,
			roadmap.UserID, roadmap.CareerID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrRoadmapNotFound
		}
		return ErrVersionConflict
	}

	roadmap.Version++
	roadmap.UpdatedAt = now
	return nil
}
