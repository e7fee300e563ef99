package models

import (
	"time"
)

// Tag is a normalized topic slug. The table doubles as the global vocabulary
// for autocomplete; rows are registered lazily the first time a question uses
// the tag.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex;size:30" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
