// Package authz centralizes the allow/deny decision for every mutating or
// privileged-read action. The decision is a pure function of the caller, the
// action and the resource owner, so it is testable without a network layer.
package authz

import (
	"github.com/google/uuid"
	"github.com/harshxd2006/Nexus-Ai/internal/models"
)

// Action names every guarded operation.
type Action string

const (
	ActionCreateTool     Action = "tool.create"
	ActionUpdateTool     Action = "tool.update"
	ActionDeleteTool     Action = "tool.delete"
	ActionUpvoteTool     Action = "tool.upvote"
	ActionTrackUsage     Action = "tool.track_usage"
	ActionFavoriteTool   Action = "tool.favorite"
	ActionCreateReview   Action = "review.create"
	ActionUpdateReview   Action = "review.update"
	ActionDeleteReview   Action = "review.delete"
	ActionVoteReview     Action = "review.vote"
	ActionFlagReview     Action = "review.flag"
	ActionUpdateProfile  Action = "user.update_profile"
	ActionChangePassword Action = "user.change_password"
	ActionDeleteAccount  Action = "user.delete_account"
	ActionReadOwnProfile Action = "user.read_profile"

	ActionApproveReview  Action = "admin.review.approve"
	ActionRejectReview   Action = "admin.review.reject"
	ActionFeatureReview  Action = "admin.review.feature"
	ActionFeatureTool    Action = "admin.tool.feature"
	ActionSetToolStatus  Action = "admin.tool.status"
	ActionVerifyTool     Action = "admin.tool.verify"
	ActionBanUser        Action = "admin.user.ban"
	ActionVerifyUser     Action = "admin.user.verify"
	ActionListUsers      Action = "admin.user.list"
	ActionListFlagged    Action = "admin.review.list_flagged"
)

// Reason reports why a request was denied.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

// Caller is the verified identity a decision is made for. Known is false when
// the token's subject no longer resolves to a stored user.
type Caller struct {
	ID     uuid.UUID
	Role   string
	Active bool
	Banned bool
	Known  bool
}

// CallerFor builds a Caller from a loaded user record.
func CallerFor(u *models.User) Caller {
	if u == nil {
		return Caller{}
	}
	return Caller{ID: u.ID, Role: u.Role, Active: u.IsActive, Banned: u.IsBanned, Known: true}
}

// Decision is the guard's answer plus a denial reason and message.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason, msg string) Decision {
	return Decision{Reason: reason, Message: msg}
}

// requirement describes what an action demands of its caller. Mutating
// actions fall under the banned/inactive write-denial policy; AdminOverride
// lets admins bypass an ownership or self requirement.
type requirement struct {
	Admin         bool
	Owner         bool
	Self          bool
	AdminOverride bool
	Mutating      bool
}

var requirements = map[Action]requirement{
	ActionCreateTool:   {Mutating: true},
	ActionUpdateTool:   {Owner: true, Mutating: true},
	ActionDeleteTool:   {Owner: true, AdminOverride: true, Mutating: true},
	ActionUpvoteTool:   {Mutating: true},
	ActionTrackUsage:   {Mutating: true},
	ActionFavoriteTool: {Mutating: true},

	ActionCreateReview: {Mutating: true},
	ActionUpdateReview: {Owner: true, Mutating: true},
	ActionDeleteReview: {Owner: true, AdminOverride: true, Mutating: true},
	ActionVoteReview:   {Mutating: true},
	ActionFlagReview:   {Mutating: true},

	ActionUpdateProfile:  {Self: true, Mutating: true},
	ActionChangePassword: {Self: true, Mutating: true},
	ActionDeleteAccount:  {Self: true, Mutating: true},
	ActionReadOwnProfile: {Self: true, AdminOverride: true},

	ActionApproveReview: {Admin: true, Mutating: true},
	ActionRejectReview:  {Admin: true, Mutating: true},
	ActionFeatureReview: {Admin: true, Mutating: true},
	ActionFeatureTool:   {Admin: true, Mutating: true},
	ActionSetToolStatus: {Admin: true, Mutating: true},
	ActionVerifyTool:    {Admin: true, Mutating: true},
	ActionBanUser:       {Admin: true, Mutating: true},
	ActionVerifyUser:    {Admin: true, Mutating: true},
	ActionListUsers:     {Admin: true},
	ActionListFlagged:   {Admin: true},
}

// Guard evaluates access decisions under a configurable moderation policy.
type Guard struct {
	// DenyBannedWrites denies every mutating action for banned or inactive
	// accounts. Banned users can still authenticate and read.
	DenyBannedWrites bool
}

// Authorize decides whether caller may perform action on a resource owned by
// ownerID. Pass uuid.Nil when the action has no owner (create-style actions);
// for self-scoped actions ownerID is the target user's ID. Rules apply most
// specific first.
func (g Guard) Authorize(caller Caller, action Action, ownerID uuid.UUID) Decision {
	if !caller.Known || caller.ID == uuid.Nil {
		return deny(ReasonUnauthenticated, "authentication required")
	}

	req, ok := requirements[action]
	if !ok {
		// Unknown actions are never allowed.
		return deny(ReasonForbidden, "unknown action")
	}

	if g.DenyBannedWrites && req.Mutating {
		if caller.Banned {
			return deny(ReasonForbidden, "account is banned")
		}
		if !caller.Active {
			return deny(ReasonForbidden, "account is deactivated")
		}
	}

	isAdmin := caller.Role == models.RoleAdmin

	if req.Admin && !isAdmin {
		return deny(ReasonForbidden, "admin access required")
	}

	if req.Owner && caller.ID != ownerID {
		if req.AdminOverride && isAdmin {
			return allow()
		}
		return deny(ReasonForbidden, "you do not own this resource")
	}

	if req.Self && caller.ID != ownerID {
		if req.AdminOverride && isAdmin {
			return allow()
		}
		return deny(ReasonForbidden, "you can only act on your own account")
	}

	return allow()
}
