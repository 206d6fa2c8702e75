package models

import (
	"time"

	"github.com/google/uuid"
)

// UserFavorite is the single authoritative row behind both a user's favorite
// set and a tool's favorited-by set. Both views read this relation, so the
// two sides cannot drift.
type UserFavorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ToolID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"tool_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserFavorite) TableName() string { return "user_favorites" }
