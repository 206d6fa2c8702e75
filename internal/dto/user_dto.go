package dto

import (
	"strings"

	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
)

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

func (r *UpdateProfileRequest) Validate() error {
	name := strings.TrimSpace(r.DisplayName)
	if name == "" {
		return apperr.Validation("display_name is required")
	}
	if len(name) > 100 {
		return apperr.Validation("display_name must be at most 100 characters")
	}
	return nil
}

type BanUserRequest struct {
	Banned bool `json:"banned"`
}
