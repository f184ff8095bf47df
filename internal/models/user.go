package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account keyed by its registration number. PasswordHash
// never leaves the service layer; handlers build their own response
// shapes without it.
type User struct {
	RegisterNumber int64
	Name           string
	PasswordHash   []byte
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
