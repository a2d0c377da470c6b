package domain

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2id encoded; legacy bcrypt accepted until next login
	CreatedAt    time.Time
}
