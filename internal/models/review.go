package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	FlagReasonSpam       = "spam"
	FlagReasonOffensive  = "offensive"
	FlagReasonIrrelevant = "irrelevant"
	FlagReasonDuplicate  = "duplicate"
)

// Review is one user's rating of one tool; at most one exists per
// (author, tool) pair.
type Review struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ToolID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_tool_author,priority:1;index" json:"tool_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_tool_author,priority:2" json:"author_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Title   string `gorm:"size:100;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	// Optional per-aspect ratings, e.g. {"ease_of_use": 4, "value": 5}.
	SubRatings datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"sub_ratings"`

	HelpfulCount   int `gorm:"default:0" json:"helpful_count"`
	UnhelpfulCount int `gorm:"default:0" json:"unhelpful_count"`

	IsApproved bool    `gorm:"default:true;index" json:"is_approved"`
	IsFlagged  bool    `gorm:"default:false;index" json:"is_flagged"`
	FlagReason *string `gorm:"size:20" json:"flag_reason,omitempty"`
	IsFeatured bool    `gorm:"default:false" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Valid reports whether the review counts toward its tool's aggregate rating.
func (r *Review) Valid() bool { return r.IsApproved && !r.IsFlagged }

// Flag puts the review into the flagged state with the given reason.
func (r *Review) Flag(reason string) {
	r.IsFlagged = true
	r.FlagReason = &reason
}

// Approve clears the flag state and marks the review approved.
func (r *Review) Approve() {
	r.IsApproved = true
	r.IsFlagged = false
	r.FlagReason = nil
}

// Reject withdraws approval. The flag state is left untouched.
func (r *Review) Reject() {
	r.IsApproved = false
}

func ValidFlagReason(reason string) bool {
	switch reason {
	case FlagReasonSpam, FlagReasonOffensive, FlagReasonIrrelevant, FlagReasonDuplicate:
		return true
	}
	return false
}
