package domain

import "time"

type User struct {
	ID          int64
	Subject     string
	Email       string
	DisplayName string
	IsAdmin     bool
	LastSeen    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
