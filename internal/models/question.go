package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AuthorID    uint           `gorm:"not null;index" json:"authorId"`
	Author      User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Title       string         `gorm:"not null" json:"title"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	Tags        []Tag          `gorm:"many2many:question_tags;" json:"-"`
	Score       int            `gorm:"default:0" json:"votes"`        // materialized sum of votes, maintained by the vote ledger only
	Views       int            `gorm:"default:0" json:"views"`        // incremented at most once per viewer per window
	AnswerCount int            `gorm:"default:0" json:"answersCount"` // count of non-deleted answers
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"` // tombstone: answers stay addressable, mutations rejected

	// 非数据库字段，用于查询时填充
	TagNames     []string `gorm:"-" json:"tags"`
	BodyHTML     string   `gorm:"-" json:"bodyHtml,omitempty"`
	IsBookmarked bool     `gorm:"-" json:"isBookmarked"`
	ViewerVote   int      `gorm:"-" json:"viewerVote"`
	Answers      []Answer `gorm:"-" json:"answers,omitempty"`
}

// FillTagNames copies the loaded tag association into the serialized name set.
func (q *Question) FillTagNames() {
	q.TagNames = make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		q.TagNames = append(q.TagNames, t.Name)
	}
}
