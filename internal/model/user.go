package model

import (
	"time"
)

type User struct {
	ID              string    `db:"id"`
	Username        string    `db:"username"`
	PasswordHash    string    `db:"password_hash"`
	SecurityKeyHash string    `db:"security_key_hash"`
	CreatedAt       time.Time `db:"created_at"`
}
