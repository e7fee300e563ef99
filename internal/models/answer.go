package models

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	QuestionID uint           `gorm:"not null;index" json:"questionId"`
	Question   Question       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID   uint           `gorm:"not null;index" json:"authorId"`
	Author     User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Score      int            `gorm:"default:0" json:"votes"` // materialized sum of votes, maintained by the vote ledger only
	IsAccepted bool           `gorm:"default:false;index" json:"isAccepted"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	BodyHTML   string `gorm:"-" json:"bodyHtml,omitempty"`
	ViewerVote int    `gorm:"-" json:"viewerVote"`
}
