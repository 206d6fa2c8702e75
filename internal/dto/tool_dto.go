package dto

import (
	"strings"

	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
)

// CreateToolRequest deliberately has no fields for averageRating,
// totalReviews, favoriteCount or any counter: derived fields cannot be
// supplied by clients.
type CreateToolRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website"`
	LogoURL       string   `json:"logo_url"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Features      []string `json:"features"`
	PricingType   string   `json:"pricing_type"`
	StartingPrice float64  `json:"starting_price"`
	Currency      string   `json:"currency"`
}

func (r *CreateToolRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.Validation("name is required")
	}
	if len(r.Name) > 100 {
		return apperr.Validation("name must be at most 100 characters")
	}
	if !models.ValidCategory(r.Category) {
		return apperr.Validation("unknown category")
	}
	if r.PricingType == "" {
		r.PricingType = models.PricingFree
	}
	if !models.ValidPricingType(r.PricingType) {
		return apperr.Validation("unknown pricing type")
	}
	if r.StartingPrice < 0 {
		return apperr.Validation("starting_price must not be negative")
	}
	if len(r.Tags) > 10 {
		return apperr.Validation("at most 10 tags are allowed")
	}
	if len(r.Features) > 10 {
		return apperr.Validation("at most 10 features are allowed")
	}
	return nil
}

// UpdateToolRequest uses pointers so absent fields stay untouched. Name and
// slug are immutable after creation.
type UpdateToolRequest struct {
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	LogoURL       *string   `json:"logo_url"`
	Category      *string   `json:"category"`
	Tags          *[]string `json:"tags"`
	Features      *[]string `json:"features"`
	PricingType   *string   `json:"pricing_type"`
	StartingPrice *float64  `json:"starting_price"`
	Currency      *string   `json:"currency"`
}

func (r *UpdateToolRequest) Validate() error {
	if r.Category != nil && !models.ValidCategory(*r.Category) {
		return apperr.Validation("unknown category")
	}
	if r.PricingType != nil && !models.ValidPricingType(*r.PricingType) {
		return apperr.Validation("unknown pricing type")
	}
	if r.StartingPrice != nil && *r.StartingPrice < 0 {
		return apperr.Validation("starting_price must not be negative")
	}
	if r.Tags != nil && len(*r.Tags) > 10 {
		return apperr.Validation("at most 10 tags are allowed")
	}
	if r.Features != nil && len(*r.Features) > 10 {
		return apperr.Validation("at most 10 features are allowed")
	}
	return nil
}

// ToolListQuery carries list filters parsed from the query string.
type ToolListQuery struct {
	Category    string
	PricingType string
	Search      string
	Sort        string
	Limit       int
	Offset      int
}

type SetToolStatusRequest struct {
	Status string `json:"status"`
}

func (r *SetToolStatusRequest) Validate() error {
	if !models.ValidToolStatus(r.Status) {
		return apperr.Validation("unknown tool status")
	}
	return nil
}

type FeatureRequest struct {
	Featured bool `json:"featured"`
}
