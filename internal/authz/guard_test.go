package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caller(role string) Caller {
	return Caller{ID: uuid.New(), Role: role, Active: true, Known: true}
}

func TestAuthorizeRulePrecedence(t *testing.T) {
	guard := Guard{DenyBannedWrites: true}
	owner := uuid.New()

	t.Run("no identity denies as unauthenticated", func(t *testing.T) {
		d := guard.Authorize(Caller{}, ActionCreateReview, uuid.Nil)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonUnauthenticated, d.Reason)
	})

	t.Run("deleted user behind a valid token denies as unauthenticated", func(t *testing.T) {
		d := guard.Authorize(Caller{ID: uuid.New(), Known: false}, ActionCreateTool, uuid.Nil)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonUnauthenticated, d.Reason)
	})

	t.Run("non-admin denied admin action", func(t *testing.T) {
		d := guard.Authorize(caller(models.RoleUser), ActionBanUser, uuid.New())
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonForbidden, d.Reason)
	})

	t.Run("non-owner denied owner action", func(t *testing.T) {
		d := guard.Authorize(caller(models.RoleUser), ActionUpdateTool, owner)
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonForbidden, d.Reason)
	})

	t.Run("owner allowed owner action", func(t *testing.T) {
		c := caller(models.RoleUser)
		d := guard.Authorize(c, ActionUpdateTool, c.ID)
		assert.True(t, d.Allowed)
	})

	t.Run("self mismatch denied", func(t *testing.T) {
		d := guard.Authorize(caller(models.RoleUser), ActionChangePassword, uuid.New())
		require.False(t, d.Allowed)
		assert.Equal(t, ReasonForbidden, d.Reason)
	})

	t.Run("plain authenticated action allowed", func(t *testing.T) {
		c := caller(models.RoleUser)
		d := guard.Authorize(c, ActionCreateTool, c.ID)
		assert.True(t, d.Allowed)
	})
}

func TestAuthorizeAdminOverride(t *testing.T) {
	guard := Guard{DenyBannedWrites: true}
	owner := uuid.New()
	admin := caller(models.RoleAdmin)

	// Delete-as-moderation crosses ownership; plain update does not.
	assert.True(t, guard.Authorize(admin, ActionDeleteTool, owner).Allowed)
	assert.True(t, guard.Authorize(admin, ActionDeleteReview, owner).Allowed)
	assert.False(t, guard.Authorize(admin, ActionUpdateTool, owner).Allowed)
	assert.False(t, guard.Authorize(admin, ActionUpdateReview, owner).Allowed)

	// Moderation itself is admin-only.
	assert.True(t, guard.Authorize(admin, ActionApproveReview, uuid.Nil).Allowed)
	assert.True(t, guard.Authorize(admin, ActionBanUser, owner).Allowed)

	// Admins may read other users' private profile fields.
	assert.True(t, guard.Authorize(admin, ActionReadOwnProfile, owner).Allowed)
	assert.False(t, guard.Authorize(caller(models.RoleUser), ActionReadOwnProfile, owner).Allowed)
}

func TestAuthorizeBannedPolicy(t *testing.T) {
	banned := caller(models.RoleUser)
	banned.Banned = true
	inactive := caller(models.RoleUser)
	inactive.Active = false

	strict := Guard{DenyBannedWrites: true}
	lenient := Guard{DenyBannedWrites: false}

	// Banned users are denied every mutation under the default policy,
	// even operations they would otherwise own.
	d := strict.Authorize(banned, ActionCreateReview, banned.ID)
	require.False(t, d.Allowed)
	assert.Equal(t, ReasonForbidden, d.Reason)
	assert.False(t, strict.Authorize(banned, ActionUpdateProfile, banned.ID).Allowed)
	assert.False(t, strict.Authorize(inactive, ActionCreateTool, inactive.ID).Allowed)

	// Privileged reads are untouched by the write policy.
	assert.True(t, strict.Authorize(banned, ActionReadOwnProfile, banned.ID).Allowed)

	// The policy is configurable.
	assert.True(t, lenient.Authorize(banned, ActionCreateReview, banned.ID).Allowed)
	assert.True(t, lenient.Authorize(inactive, ActionCreateTool, inactive.ID).Allowed)
}

func TestAuthorizeIsPure(t *testing.T) {
	guard := Guard{DenyBannedWrites: true}
	c := caller(models.RoleUser)
	owner := uuid.New()

	first := guard.Authorize(c, ActionDeleteReview, owner)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, guard.Authorize(c, ActionDeleteReview, owner))
	}
}

func TestAuthorizeUnknownAction(t *testing.T) {
	guard := Guard{}
	d := guard.Authorize(caller(models.RoleAdmin), Action("nope"), uuid.Nil)
	require.False(t, d.Allowed)
	assert.Equal(t, ReasonForbidden, d.Reason)
}
