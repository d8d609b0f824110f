// Package model holds the rows persisted by the repository layer. The json
// tags are the wire names used by the HTTP API.
package model

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

var Roles = []Role{RoleMember, RoleAdmin}

// ParseRole reports whether raw names a known role.
func ParseRole(raw string) (Role, bool) { return parseEnum(raw, Roles) }

// User mirrors the `users` table.
type User struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Company      string    `json:"company"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
