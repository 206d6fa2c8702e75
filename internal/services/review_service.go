package services

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/aggregate"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewService struct {
	db     *gorm.DB
	engine *aggregate.Engine
}

func NewReviewService(db *gorm.DB, engine *aggregate.Engine) *ReviewService {
	return &ReviewService{db: db, engine: engine}
}

// Create stores a review and synchronously recomputes the tool's aggregates.
// One review per (author, tool) pair.
func (s *ReviewService) Create(authorID, toolID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var toolCount int64
	if err := s.db.Model(&models.Tool{}).Where("id = ?", toolID).Count(&toolCount).Error; err != nil {
		return nil, apperr.Internal("failed to load tool", err)
	}
	if toolCount == 0 {
		return nil, apperr.NotFound("tool not found")
	}

	var existing models.Review
	if err := s.db.Where("tool_id = ? AND author_id = ?", toolID, authorID).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("you have already reviewed this tool")
	}

	review := models.Review{
		ID:         uuid.New(),
		ToolID:     toolID,
		AuthorID:   authorID,
		Rating:     req.Rating,
		Title:      req.Title,
		Content:    req.Content,
		SubRatings: toJSONMap(req.SubRatings),
		IsApproved: true,
	}

	if err := s.db.Create(&review).Error; err != nil {
		// Two concurrent first reviews race past the pre-check; the unique
		// (tool, author) index is the backstop.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("you have already reviewed this tool")
		}
		return nil, apperr.Internal("failed to create review", err)
	}

	if err := s.engine.RecomputeToolRating(toolID); err != nil {
		return &review, err
	}
	return &review, nil
}

// Update edits the author's review and recomputes aggregates.
func (s *ReviewService) Update(reviewID uuid.UUID, req *dto.UpdateReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, apperr.NotFound("review not found")
	}

	updates := map[string]interface{}{}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.SubRatings != nil {
		updates["sub_ratings"] = toJSONMap(req.SubRatings)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&review).Updates(updates).Error; err != nil {
			return nil, apperr.Internal("failed to update review", err)
		}
	}

	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, apperr.Internal("failed to reload review", err)
	}

	if err := s.engine.RecomputeToolRating(review.ToolID); err != nil {
		return &review, err
	}
	return &review, nil
}

// Delete removes a review and recomputes the tool's aggregates.
func (s *ReviewService) Delete(reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return apperr.NotFound("review not found")
	}

	if err := s.db.Delete(&review).Error; err != nil {
		return apperr.Internal("failed to delete review", err)
	}
	return s.engine.RecomputeToolRating(review.ToolID)
}

// Get loads a single review.
func (s *ReviewService) Get(reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, apperr.NotFound("review not found")
	}
	return &review, nil
}

// Author returns the review's owner for authorization checks.
func (s *ReviewService) Author(reviewID uuid.UUID) (uuid.UUID, error) {
	var review models.Review
	if err := s.db.Select("author_id").First(&review, "id = ?", reviewID).Error; err != nil {
		return uuid.Nil, apperr.NotFound("review not found")
	}
	return review.AuthorID, nil
}

// ListForTool returns the valid reviews of a tool with helpfulness scores.
func (s *ReviewService) ListForTool(toolID uuid.UUID, limit, offset int) ([]dto.ReviewResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.Review{}).
		Where("tool_id = ? AND is_approved = ? AND is_flagged = ?", toolID, true, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to count reviews", err)
	}

	var reviews []models.Review
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list reviews", err)
	}
	return decorate(reviews), total, nil
}

// ListFlagged is the admin moderation queue.
func (s *ReviewService) ListFlagged(limit, offset int) ([]dto.ReviewResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.Review{}).Where("is_flagged = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to count flagged reviews", err)
	}

	var reviews []models.Review
	if err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list flagged reviews", err)
	}
	return decorate(reviews), total, nil
}

// Flag moves a review into the flagged state and recomputes aggregates,
// since flagged reviews stop counting.
func (s *ReviewService) Flag(reviewID uuid.UUID, reason string) error {
	if !models.ValidFlagReason(reason) {
		return apperr.Validation("reason must be one of: spam, offensive, irrelevant, duplicate")
	}

	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return apperr.NotFound("review not found")
	}

	review.Flag(reason)
	if err := s.db.Model(&review).Updates(map[string]interface{}{
		"is_flagged":  review.IsFlagged,
		"flag_reason": review.FlagReason,
	}).Error; err != nil {
		return apperr.Internal("failed to flag review", err)
	}
	return s.engine.RecomputeToolRating(review.ToolID)
}

// Approve clears the flag and marks the review approved (admin action).
func (s *ReviewService) Approve(reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return apperr.NotFound("review not found")
	}

	review.Approve()
	if err := s.db.Model(&review).Updates(map[string]interface{}{
		"is_approved": true,
		"is_flagged":  false,
		"flag_reason": nil,
	}).Error; err != nil {
		return apperr.Internal("failed to approve review", err)
	}
	return s.engine.RecomputeToolRating(review.ToolID)
}

// Reject withdraws approval without touching the flag state (admin action).
func (s *ReviewService) Reject(reviewID uuid.UUID) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return apperr.NotFound("review not found")
	}

	review.Reject()
	if err := s.db.Model(&review).Update("is_approved", false).Error; err != nil {
		return apperr.Internal("failed to reject review", err)
	}
	return s.engine.RecomputeToolRating(review.ToolID)
}

// Feature toggles the featured flag (admin action).
func (s *ReviewService) Feature(reviewID uuid.UUID, featured bool) error {
	res := s.db.Model(&models.Review{}).Where("id = ?", reviewID).Update("is_featured", featured)
	if res.Error != nil {
		return apperr.Internal("failed to feature review", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}

// Vote adds a helpful/unhelpful vote.
func (s *ReviewService) Vote(reviewID uuid.UUID, helpful bool) error {
	field := aggregate.VoteUnhelpful
	if helpful {
		field = aggregate.VoteHelpful
	}
	return s.engine.AddVote(reviewID, field)
}

// Unvote removes a helpful/unhelpful vote; counters floor at zero.
func (s *ReviewService) Unvote(reviewID uuid.UUID, helpful bool) error {
	field := aggregate.VoteUnhelpful
	if helpful {
		field = aggregate.VoteHelpful
	}
	return s.engine.RemoveVote(reviewID, field)
}

func decorate(reviews []models.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = dto.ReviewResponse{
			Review:      r,
			Helpfulness: aggregate.HelpfulnessPercentage(r.HelpfulCount, r.UnhelpfulCount),
		}
	}
	return out
}

func toJSONMap(m map[string]int) datatypes.JSON {
	if m == nil {
		m = map[string]int{}
	}
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}
