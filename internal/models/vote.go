package models

import (
	"time"
)

// Vote targets
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// Vote values
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is the ledger record: at most one row per (user, target). Casting again
// replaces the value, it never adds a second row. The composite unique index
// backstops the upsert under concurrent requests.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"userId"`
	TargetType string    `gorm:"size:10;not null;uniqueIndex:idx_votes_user_target" json:"targetType"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"targetId"`
	Value      int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsValidVoteValue checks the vote value is one of the two allowed directions.
func IsValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}

// IsValidTargetType checks the target names a votable entity.
func IsValidTargetType(t string) bool {
	return t == TargetQuestion || t == TargetAnswer
}
