// Package aggregate owns every derived field: average ratings, review counts,
// favorite counts and the monotonic engagement counters. Nothing else in the
// codebase writes these columns.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterField names a tool counter the engine may bump.
type CounterField string

const (
	CounterViews   CounterField = "views"
	CounterUsage   CounterField = "usage_count"
	CounterUpvotes CounterField = "upvotes"
)

// VoteField names a review helpfulness counter.
type VoteField string

const (
	VoteHelpful   VoteField = "helpful_count"
	VoteUnhelpful VoteField = "unhelpful_count"
)

type Engine struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Round2 rounds to two decimal places. Rounding, not truncation.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Summarize computes the rounded mean and count for a set of ratings. An
// empty set yields 0/0.
func Summarize(ratings []int) (avg float64, count int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Round2(float64(sum) / float64(len(ratings))), len(ratings)
}

// HelpfulnessPercentage is round(helpful/(helpful+unhelpful)*100), or 0 when
// there are no votes at all.
func HelpfulnessPercentage(helpful, unhelpful int) int {
	total := helpful + unhelpful
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(helpful) / float64(total) * 100))
}

// RecomputeToolRating rewrites averageRating/totalReviews from the live set
// of valid reviews (approved and not flagged). The tool row is locked FOR
// UPDATE before the reviews are read, so concurrent recomputes for one tool
// serialize and the last writer always reads the freshest review set. It is
// idempotent: re-running it always converges to the same values.
func (e *Engine) RecomputeToolRating(toolID uuid.UUID) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := e.lockTool(tx, toolID); err != nil {
			return err
		}

		var ratings []int
		if err := tx.Model(&models.Review{}).
			Where("tool_id = ? AND is_approved = ? AND is_flagged = ?", toolID, true, false).
			Pluck("rating", &ratings).Error; err != nil {
			return apperr.Internal("failed to load review ratings", err)
		}

		avg, count := Summarize(ratings)

		if err := tx.Model(&models.Tool{}).Where("id = ?", toolID).
			Updates(map[string]interface{}{
				"average_rating": avg,
				"total_reviews":  count,
			}).Error; err != nil {
			return apperr.Internal("failed to update tool aggregates", err)
		}
		return nil
	})
}

// AddFavorite records the favorite on the relation and refreshes the tool's
// favorite count in one transaction. Favoriting an already-favorited tool is
// a no-op.
func (e *Engine) AddFavorite(userID, toolID uuid.UUID) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := e.requireUserAndTool(tx, userID, toolID); err != nil {
			return err
		}
		res := tx.Exec(
			`INSERT INTO user_favorites (user_id, tool_id, created_at) VALUES (?, ?, NOW()) ON CONFLICT DO NOTHING`,
			userID, toolID,
		)
		if res.Error != nil {
			return apperr.Internal("failed to add favorite", res.Error)
		}
		return e.refreshFavoriteCount(tx, toolID)
	})
}

// RemoveFavorite is the inverse of AddFavorite; removing a non-favorited tool
// is a no-op, not an error.
func (e *Engine) RemoveFavorite(userID, toolID uuid.UUID) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		if err := e.requireUserAndTool(tx, userID, toolID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND tool_id = ?", userID, toolID).
			Delete(&models.UserFavorite{}).Error; err != nil {
			return apperr.Internal("failed to remove favorite", err)
		}
		return e.refreshFavoriteCount(tx, toolID)
	})
}

func (e *Engine) requireUserAndTool(tx *gorm.DB, userID, toolID uuid.UUID) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return apperr.Internal("failed to load user", err)
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return e.lockTool(tx, toolID)
}

// lockTool takes the tool's row lock for the rest of the transaction. Every
// writer of a derived tool column goes through here, so two transactions
// never interleave a read-then-write on the same tool.
func (e *Engine) lockTool(tx *gorm.DB, toolID uuid.UUID) error {
	var tool models.Tool
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").First(&tool, "id = ?", toolID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("tool not found")
	}
	if err != nil {
		return apperr.Internal("failed to lock tool", err)
	}
	return nil
}

func (e *Engine) refreshFavoriteCount(tx *gorm.DB, toolID uuid.UUID) error {
	err := tx.Exec(
		`UPDATE tools SET favorite_count = (SELECT COUNT(*) FROM user_favorites WHERE tool_id = ?) WHERE id = ?`,
		toolID, toolID,
	).Error
	if err != nil {
		return apperr.Internal("failed to refresh favorite count", err)
	}
	return nil
}

// IncrementCounter bumps a tool engagement counter with a single atomic
// UPDATE, never read-modify-write in application code.
func (e *Engine) IncrementCounter(toolID uuid.UUID, field CounterField) error {
	switch field {
	case CounterViews, CounterUsage, CounterUpvotes:
	default:
		return apperr.Validation(fmt.Sprintf("unknown counter field %q", field))
	}
	res := e.db.Model(&models.Tool{}).Where("id = ?", toolID).
		UpdateColumn(string(field), gorm.Expr(string(field)+" + 1"))
	if res.Error != nil {
		return apperr.Internal("failed to increment counter", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tool not found")
	}
	return nil
}

// AddVote bumps a review helpfulness counter atomically.
func (e *Engine) AddVote(reviewID uuid.UUID, field VoteField) error {
	if err := validVoteField(field); err != nil {
		return err
	}
	res := e.db.Model(&models.Review{}).Where("id = ?", reviewID).
		UpdateColumn(string(field), gorm.Expr(string(field)+" + 1"))
	if res.Error != nil {
		return apperr.Internal("failed to add vote", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}

// RemoveVote decrements a helpfulness counter, flooring at zero. Removing a
// vote from a zero counter is a no-op.
func (e *Engine) RemoveVote(reviewID uuid.UUID, field VoteField) error {
	if err := validVoteField(field); err != nil {
		return err
	}
	res := e.db.Model(&models.Review{}).Where("id = ?", reviewID).
		UpdateColumn(string(field), gorm.Expr("GREATEST("+string(field)+" - 1, 0)"))
	if res.Error != nil {
		return apperr.Internal("failed to remove vote", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}

func validVoteField(field VoteField) error {
	switch field {
	case VoteHelpful, VoteUnhelpful:
		return nil
	}
	return apperr.Validation(fmt.Sprintf("unknown vote field %q", field))
}
