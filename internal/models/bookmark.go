package models

import (
	"time"
)

// Bookmark marks a question saved by a user.
type Bookmark struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_user_question" json:"userId"`
	QuestionID uint      `gorm:"not null;index;uniqueIndex:idx_user_question" json:"questionId"`
	Question   Question  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"question"`
	CreatedAt  time.Time `json:"createdAt"`
}
