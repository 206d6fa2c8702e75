package dto

import (
	"testing"

	"github.com/harshxd2006/Nexus-Ai/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterRequestValidate(t *testing.T) {
	ok := RegisterRequest{DisplayName: "Ada", Email: "ada@example.com", Password: "s3cretpass"}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.DisplayName = "   "
	assertValidation(t, bad.Validate())

	bad = ok
	bad.Email = "not-an-email"
	assertValidation(t, bad.Validate())

	bad = ok
	bad.Password = "short"
	assertValidation(t, bad.Validate())
}

func TestCreateToolRequestValidate(t *testing.T) {
	ok := CreateToolRequest{Name: "ChatGPT", Category: "ai_writing"}
	require.NoError(t, ok.Validate())
	// Pricing defaults to free when omitted.
	assert.Equal(t, "free", ok.PricingType)

	bad := CreateToolRequest{Name: "", Category: "ai_writing"}
	assertValidation(t, bad.Validate())

	bad = CreateToolRequest{Name: "X", Category: "time-travel"}
	assertValidation(t, bad.Validate())

	bad = CreateToolRequest{Name: "X", Category: "ai_writing", PricingType: "donation"}
	assertValidation(t, bad.Validate())

	bad = CreateToolRequest{Name: "X", Category: "ai_writing", StartingPrice: -1}
	assertValidation(t, bad.Validate())

	bad = CreateToolRequest{Name: "X", Category: "ai_writing", Tags: make([]string, 11)}
	assertValidation(t, bad.Validate())
}

func TestUpdateToolRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateToolRequest{}).Validate())

	bad := "nope"
	assertValidation(t, (&UpdateToolRequest{Category: &bad}).Validate())
	assertValidation(t, (&UpdateToolRequest{PricingType: &bad}).Validate())

	price := -0.01
	assertValidation(t, (&UpdateToolRequest{StartingPrice: &price}).Validate())
}

func TestCreateReviewRequestValidate(t *testing.T) {
	ok := CreateReviewRequest{
		Rating:     4,
		Title:      "Solid tool",
		Content:    "Does what it says on the tin.",
		SubRatings: map[string]int{"ease_of_use": 5},
	}
	assert.NoError(t, ok.Validate())

	// Ratings outside 1..5 are rejected outright, never clamped.
	for _, rating := range []int{0, 6, -1, 100} {
		bad := ok
		bad.Rating = rating
		assertValidation(t, bad.Validate())
	}

	bad := ok
	bad.Title = "ab"
	assertValidation(t, bad.Validate())

	bad = ok
	bad.Content = "too short"
	assertValidation(t, bad.Validate())

	bad = ok
	bad.SubRatings = map[string]int{"value": 0}
	assertValidation(t, bad.Validate())
}

func TestUpdateReviewRequestValidate(t *testing.T) {
	assert.NoError(t, (&UpdateReviewRequest{}).Validate())

	six := 6
	assertValidation(t, (&UpdateReviewRequest{Rating: &six}).Validate())

	tiny := "no"
	assertValidation(t, (&UpdateReviewRequest{Title: &tiny}).Validate())
}

func TestFlagReviewRequestValidate(t *testing.T) {
	assert.NoError(t, (&FlagReviewRequest{Reason: "spam"}).Validate())
	assertValidation(t, (&FlagReviewRequest{Reason: "meh"}).Validate())
	assertValidation(t, (&FlagReviewRequest{}).Validate())
}

func TestSetToolStatusRequestValidate(t *testing.T) {
	assert.NoError(t, (&SetToolStatusRequest{Status: "published"}).Validate())
	assertValidation(t, (&SetToolStatusRequest{Status: "live"}).Validate())
}

func TestChangePasswordRequestValidate(t *testing.T) {
	ok := ChangePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"}
	assert.NoError(t, ok.Validate())
	assertValidation(t, (&ChangePasswordRequest{NewPassword: "newpassword"}).Validate())
	assertValidation(t, (&ChangePasswordRequest{CurrentPassword: "old", NewPassword: "short"}).Validate())
}
