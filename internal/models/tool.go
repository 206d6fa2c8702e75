package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Tool categories form a closed set; anything else is rejected at the DTO
// layer.
var ToolCategories = []string{
	"ai_writing", "image_generation", "code_assistant", "chatbots",
	"audio_video", "productivity", "data_analysis", "marketing",
	"design", "research", "other",
}

const (
	PricingFree       = "free"
	PricingFreemium   = "freemium"
	PricingPaid       = "paid"
	PricingOpenSource = "open_source"
)

const (
	ToolStatusPending   = "pending"
	ToolStatusPublished = "published"
	ToolStatusArchived  = "archived"
)

// Tool is a catalog entry. AverageRating, TotalReviews and FavoriteCount are
// derived fields owned by the aggregation engine; clients can never set them.
type Tool struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	Slug        string    `gorm:"not null;size:120;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Website     string    `gorm:"size:500" json:"website"`
	LogoURL     string    `gorm:"size:500" json:"logo_url"`
	Category    string    `gorm:"size:50;not null;index" json:"category"`

	Tags     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"tags"`
	Features datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"features"`

	PricingType   string  `gorm:"size:20;default:'free'" json:"pricing_type"`
	StartingPrice float64 `gorm:"default:0" json:"starting_price"`
	Currency      string  `gorm:"size:3;default:'USD'" json:"currency"`

	AverageRating float64 `gorm:"default:0;index" json:"average_rating"`
	TotalReviews  int     `gorm:"default:0" json:"total_reviews"`
	FavoriteCount int     `gorm:"default:0" json:"favorite_count"`

	Views      int64 `gorm:"default:0" json:"views"`
	UsageCount int64 `gorm:"default:0" json:"usage_count"`
	Upvotes    int64 `gorm:"default:0" json:"upvotes"`

	IsActive   bool   `gorm:"default:true" json:"is_active"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`
	IsFeatured bool   `gorm:"default:false" json:"is_featured"`
	Status     string `gorm:"size:20;default:'published';index" json:"status"`

	CreatorID *uuid.UUID `gorm:"type:uuid;index" json:"creator_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidCategory(c string) bool {
	for _, v := range ToolCategories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidPricingType(p string) bool {
	switch p {
	case PricingFree, PricingFreemium, PricingPaid, PricingOpenSource:
		return true
	}
	return false
}

func ValidToolStatus(s string) bool {
	switch s {
	case ToolStatusPending, ToolStatusPublished, ToolStatusArchived:
		return true
	}
	return false
}
