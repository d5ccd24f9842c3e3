package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrQuestNotFound        = errors.New("quest not found")
	ErrQuestAlreadyResolved = errors.New("quest already resolved")
)

type QuestRepository interface {
	Create(quest *model.Quest) error
	ByID(userID, questID string) (*model.Quest, error)
	// ForDay returns the latest quest of a kind issued on day.
	ForDay(userID, careerID, kind string, day calendar.Date) (*model.Quest, error)
	// Resolve marks an unresolved quest as answered.
	Resolve(userID, questID string, at time.Time) error
}

type questRepository struct {
	db *sqlx.DB
}

func NewQuestRepository(db *sqlx.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) Create(quest *model.Quest) error {
	query := `INSERT INTO quests (id, user_id, career_id, kind, day, payload, resolved_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		quest.ID,
		quest.UserID,
		quest.CareerID,
		quest.Kind,
		quest.Day,
		quest.Payload,
		quest.ResolvedAt,
		quest.CreatedAt,
	)

	return err
}

func (r *questRepository) ByID(userID, questID string) (*model.Quest, error) {
	quest := &model.Quest{}
	query := `SELECT * FROM quests WHERE id = $1 AND user_id = $2`

	err := r.db.Get(quest, query, questID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrQuestNotFound
	}

	return quest, err
}

func (r *questRepository) ForDay(userID, careerID, kind string, day calendar.Date) (*model.Quest, error) {
	quest := &model.Quest{}
	query := `SELECT * FROM quests
	          WHERE user_id = $1 AND career_id = $2 AND kind = $3 AND day = $4
	          ORDER BY created_at DESC LIMIT 1`

	err := r.db.Get(quest, query, userID, careerID, kind, day)
	if err == sql.ErrNoRows {
		return nil, ErrQuestNotFound
	}

	return quest, err
}

func (r *questRepository) Resolve(userID, questID string, at time.Time) error {
	query := `UPDATE quests SET resolved_at = $1 WHERE id = $2 AND user_id = $3 AND resolved_at IS NULL`

	err := expectOne(r.db.Exec(query, at, questID, userID))(ErrQuestAlreadyResolved)
	if errors.Is(err, ErrQuestAlreadyResolved) {
		if _, lookupErr := r.ByID(userID, questID); lookupErr != nil {
			return lookupErr
		}
	}
	return err
}
