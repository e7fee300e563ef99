package models

import (
	"time"
)

// Roles resolved by the session layer. Requests without a valid token act as
// guests and never reach a mutating operation.
const (
	RoleGuest = "guest"
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"not null" json:"username"` // Username can be modified
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"` // Hash
	Avatar     string    `json:"avatar"`
	Bio        string    `gorm:"size:200" json:"bio"`
	Reputation int       `gorm:"default:0" json:"reputation"`
	Role       string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	IsBanned   bool      `gorm:"default:false" json:"isBanned"`               // banned users may read but not mutate
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	// No DeletedAt for hard delete
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
