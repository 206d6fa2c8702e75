package dto

import (
	"strings"

	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
)

type CreateReviewRequest struct {
	Rating     int            `json:"rating"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	SubRatings map[string]int `json:"sub_ratings"`
}

func (r *CreateReviewRequest) Validate() error {
	// Out-of-range ratings are rejected, never clamped.
	if r.Rating < 1 || r.Rating > 5 {
		return apperr.Validation("rating must be an integer between 1 and 5")
	}
	title := strings.TrimSpace(r.Title)
	if len(title) < 3 || len(title) > 100 {
		return apperr.Validation("title must be between 3 and 100 characters")
	}
	if len(strings.TrimSpace(r.Content)) < 10 {
		return apperr.Validation("content must be at least 10 characters")
	}
	for aspect, v := range r.SubRatings {
		if v < 1 || v > 5 {
			return apperr.Validation("sub-rating for " + aspect + " must be between 1 and 5")
		}
	}
	return nil
}

type UpdateReviewRequest struct {
	Rating     *int           `json:"rating"`
	Title      *string        `json:"title"`
	Content    *string        `json:"content"`
	SubRatings map[string]int `json:"sub_ratings"`
}

func (r *UpdateReviewRequest) Validate() error {
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		return apperr.Validation("rating must be an integer between 1 and 5")
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if len(title) < 3 || len(title) > 100 {
			return apperr.Validation("title must be between 3 and 100 characters")
		}
	}
	if r.Content != nil && len(strings.TrimSpace(*r.Content)) < 10 {
		return apperr.Validation("content must be at least 10 characters")
	}
	for aspect, v := range r.SubRatings {
		if v < 1 || v > 5 {
			return apperr.Validation("sub-rating for " + aspect + " must be between 1 and 5")
		}
	}
	return nil
}

type FlagReviewRequest struct {
	Reason string `json:"reason"`
}

func (r *FlagReviewRequest) Validate() error {
	if !models.ValidFlagReason(r.Reason) {
		return apperr.Validation("reason must be one of: spam, offensive, irrelevant, duplicate")
	}
	return nil
}

// ReviewResponse decorates the stored review with its helpfulness score.
type ReviewResponse struct {
	models.Review
	Helpfulness int `json:"helpfulness"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Meta    ListMeta         `json:"meta"`
}

type VoteRequest struct {
	Helpful bool `json:"helpful"`
}
