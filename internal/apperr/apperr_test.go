package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		code   string
		status int
	}{
		{KindUnauthenticated, "unauthenticated", fiber.StatusUnauthorized},
		{KindForbidden, "forbidden", fiber.StatusForbidden},
		{KindNotFound, "not_found", fiber.StatusNotFound},
		{KindValidation, "validation", fiber.StatusBadRequest},
		{KindConflict, "conflict", fiber.StatusConflict},
		{KindInternal, "internal", fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.kind.Code())
		assert.Equal(t, tc.status, tc.kind.HTTPStatus())
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := NotFound("tool not found")
	wrapped := fmt.Errorf("loading tool: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))

	// Errors outside the taxonomy are treated as internal.
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load tool", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load tool: connection refused", err.Error())
}
