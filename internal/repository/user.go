package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/pathfinder-ai/pathfinder/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	Exists(id string) (bool, error)
	UpdatePassword(userID, passwordHash string) error
	Delete(userID string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, password_hash, security_key_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.SecurityKeyHash,
		user.CreatedAt,
	)

	return err
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Exists(id string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&count)
	return count > 0, err
}

func (r *userRepository) UpdatePassword(userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	return expectOne(r.db.Exec(query, passwordHash, userID))(ErrUserNotFound)
}

func (r *userRepository) Delete(userID string) error {
	query := `DELETE FROM users WHERE id = $1`
	return expectOne(r.db.Exec(query, userID))(ErrUserNotFound)
}

// expectOne maps a result that touched no rows to notFound.
func expectOne(result sql.Result, err error) func(notFound error) error {
	return func(notFound error) error {
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return notFound
		}

		return nil
	}
}
