package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/aggregate"
	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/harshxd2006/Nexus-Ai/internal/dto"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ToolService struct {
	db     *gorm.DB
	engine *aggregate.Engine
}

func NewToolService(db *gorm.DB, engine *aggregate.Engine) *ToolService {
	return &ToolService{db: db, engine: engine}
}

// Create registers a new catalog entry. The slug is generated once from the
// name and never changes afterwards.
func (s *ToolService) Create(creatorID uuid.UUID, req *dto.CreateToolRequest) (*models.Tool, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var existing models.Tool
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("a tool with this name already exists")
	}

	slug, err := s.uniqueSlug(Slugify(req.Name))
	if err != nil {
		return nil, err
	}

	tool := models.Tool{
		ID:            uuid.New(),
		Name:          req.Name,
		Slug:          slug,
		Description:   req.Description,
		Website:       req.Website,
		LogoURL:       req.LogoURL,
		Category:      req.Category,
		Tags:          toJSONArray(req.Tags),
		Features:      toJSONArray(req.Features),
		PricingType:   req.PricingType,
		StartingPrice: req.StartingPrice,
		Currency:      defaultCurrency(req.Currency),
		Status:        models.ToolStatusPublished,
		IsActive:      true,
		CreatorID:     &creatorID,
	}

	if err := s.db.Create(&tool).Error; err != nil {
		// The pre-check races with concurrent creates; the unique indexes on
		// name and slug are the backstop.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("a tool with this name already exists")
		}
		return nil, apperr.Internal("failed to create tool", err)
	}
	return &tool, nil
}

// GetByID loads a tool and atomically bumps its view counter.
func (s *ToolService) GetByID(id uuid.UUID, countView bool) (*models.Tool, error) {
	var tool models.Tool
	if err := s.db.First(&tool, "id = ?", id).Error; err != nil {
		return nil, apperr.NotFound("tool not found")
	}
	if countView {
		if err := s.engine.IncrementCounter(tool.ID, aggregate.CounterViews); err != nil {
			return nil, err
		}
		tool.Views++
	}
	return &tool, nil
}

// GetBySlug is the public lookup path.
func (s *ToolService) GetBySlug(slug string, countView bool) (*models.Tool, error) {
	var tool models.Tool
	if err := s.db.First(&tool, "slug = ?", slug).Error; err != nil {
		return nil, apperr.NotFound("tool not found")
	}
	if countView {
		if err := s.engine.IncrementCounter(tool.ID, aggregate.CounterViews); err != nil {
			return nil, err
		}
		tool.Views++
	}
	return &tool, nil
}

// List returns published tools matching the query filters.
func (s *ToolService) List(q *dto.ToolListQuery) ([]models.Tool, int64, error) {
	query := s.db.Model(&models.Tool{}).
		Where("status = ? AND is_active = ?", models.ToolStatusPublished, true)

	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.PricingType != "" {
		query = query.Where("pricing_type = ?", q.PricingType)
	}
	if q.Search != "" {
		query = query.Where("name ILIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("failed to count tools", err)
	}

	switch q.Sort {
	case "views":
		query = query.Order("views DESC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("average_rating DESC")
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var tools []models.Tool
	if err := query.Limit(limit).Offset(q.Offset).Find(&tools).Error; err != nil {
		return nil, 0, apperr.Internal("failed to list tools", err)
	}
	return tools, total, nil
}

// Update edits mutable fields. Derived fields and the slug are untouchable
// here; authorization happens before this is called.
func (s *ToolService) Update(toolID uuid.UUID, req *dto.UpdateToolRequest) (*models.Tool, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var tool models.Tool
	if err := s.db.First(&tool, "id = ?", toolID).Error; err != nil {
		return nil, apperr.NotFound("tool not found")
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		updates["tags"] = toJSONArray(*req.Tags)
	}
	if req.Features != nil {
		updates["features"] = toJSONArray(*req.Features)
	}
	if req.PricingType != nil {
		updates["pricing_type"] = *req.PricingType
	}
	if req.StartingPrice != nil {
		updates["starting_price"] = *req.StartingPrice
	}
	if req.Currency != nil {
		updates["currency"] = defaultCurrency(*req.Currency)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&tool).Updates(updates).Error; err != nil {
			return nil, apperr.Internal("failed to update tool", err)
		}
	}

	if err := s.db.First(&tool, "id = ?", toolID).Error; err != nil {
		return nil, apperr.Internal("failed to reload tool", err)
	}
	return &tool, nil
}

// Delete removes a tool and every review referencing it.
func (s *ToolService) Delete(toolID uuid.UUID) error {
	var tool models.Tool
	if err := s.db.First(&tool, "id = ?", toolID).Error; err != nil {
		return apperr.NotFound("tool not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tool_id = ?", toolID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tool_id = ?", toolID).Delete(&models.UserFavorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tool).Error
	})
	if err != nil {
		return apperr.Internal("failed to delete tool", err)
	}
	return nil
}

// Owner returns the tool's creator for authorization checks. Tools whose
// creator deleted their account have no owner.
func (s *ToolService) Owner(toolID uuid.UUID) (uuid.UUID, error) {
	var tool models.Tool
	if err := s.db.Select("creator_id").First(&tool, "id = ?", toolID).Error; err != nil {
		return uuid.Nil, apperr.NotFound("tool not found")
	}
	if tool.CreatorID == nil {
		return uuid.Nil, nil
	}
	return *tool.CreatorID, nil
}

func (s *ToolService) Upvote(toolID uuid.UUID) error {
	return s.engine.IncrementCounter(toolID, aggregate.CounterUpvotes)
}

func (s *ToolService) TrackUsage(toolID uuid.UUID) error {
	return s.engine.IncrementCounter(toolID, aggregate.CounterUsage)
}

func (s *ToolService) Favorite(userID, toolID uuid.UUID) error {
	return s.engine.AddFavorite(userID, toolID)
}

func (s *ToolService) Unfavorite(userID, toolID uuid.UUID) error {
	return s.engine.RemoveFavorite(userID, toolID)
}

// ListFavorites returns the tools a user has favorited.
func (s *ToolService) ListFavorites(userID uuid.UUID) ([]models.Tool, error) {
	var tools []models.Tool
	err := s.db.
		Joins("JOIN user_favorites uf ON uf.tool_id = tools.id").
		Where("uf.user_id = ?", userID).
		Order("uf.created_at DESC").
		Find(&tools).Error
	if err != nil {
		return nil, apperr.Internal("failed to list favorites", err)
	}
	return tools, nil
}

// Feature toggles the featured flag (admin action).
func (s *ToolService) Feature(toolID uuid.UUID, featured bool) error {
	return s.adminFlag(toolID, "is_featured", featured)
}

// Verify toggles the verified flag (admin action).
func (s *ToolService) Verify(toolID uuid.UUID, verified bool) error {
	return s.adminFlag(toolID, "is_verified", verified)
}

// SetStatus moves a tool between pending/published/archived (admin action).
func (s *ToolService) SetStatus(toolID uuid.UUID, status string) error {
	if !models.ValidToolStatus(status) {
		return apperr.Validation("unknown tool status")
	}
	res := s.db.Model(&models.Tool{}).Where("id = ?", toolID).Update("status", status)
	if res.Error != nil {
		return apperr.Internal("failed to set tool status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tool not found")
	}
	return nil
}

func (s *ToolService) adminFlag(toolID uuid.UUID, column string, value bool) error {
	res := s.db.Model(&models.Tool{}).Where("id = ?", toolID).Update(column, value)
	if res.Error != nil {
		return apperr.Internal("failed to update tool", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tool not found")
	}
	return nil
}

// uniqueSlug appends a numeric suffix when two distinct names collapse to the
// same slug.
func (s *ToolService) uniqueSlug(base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var n int64
		if err := s.db.Model(&models.Tool{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
			return "", apperr.Internal("failed to check slug", err)
		}
		if n == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func toJSONArray(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

func defaultCurrency(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
