// Package policy decides whether a caller's role permits an action. It is
// stateless: the caller supplies the role and, for owner-scoped actions, the
// resource owner's id.
package policy

import "github.com/dmitrijs2005/motomarket/internal/server/models"

// Action is something a caller may attempt.
type Action string

const (
	ActionCreateListing   Action = "create_listing"
	ActionViewListing     Action = "view_listing"
	ActionUpdateListing   Action = "update_listing"
	ActionWithdrawListing Action = "withdraw_listing"
	ActionApproveListing  Action = "approve_listing"
	ActionRejectListing   Action = "reject_listing"
	ActionMarkSold        Action = "mark_sold"
	ActionViewAnyListing  Action = "view_any_listing"
	ActionListPending     Action = "list_pending"
	ActionSetRole         Action = "set_role"
	ActionListUsers       Action = "list_users"
)

// grant says how a role may perform an action.
type grant int

const (
	deny grant = iota
	// ownerOnly allows the action when callerID == ownerID.
	ownerOnly
	always
)

var matrix = map[models.Role]map[Action]grant{
	models.RoleModerator: {
		ActionCreateListing:   ownerOnly,
		ActionViewListing:     always,
		ActionUpdateListing:   ownerOnly,
		ActionWithdrawListing: ownerOnly,
		ActionApproveListing:  always,
		ActionRejectListing:   always,
		ActionMarkSold:        always,
		ActionViewAnyListing:  always,
		ActionListPending:     always,
	},
	models.RoleUser: {
		ActionCreateListing:   ownerOnly,
		ActionViewListing:     ownerOnly,
		ActionUpdateListing:   ownerOnly,
		ActionWithdrawListing: ownerOnly,
		ActionMarkSold:        ownerOnly,
	},
}

// Can reports whether role may perform action on a resource owned by
// ownerID, on behalf of callerID. Admins may do everything. Roles that are
// not recognised are evaluated as RoleUser. Listing content never affects
// the decision.
//
// Viewing an approved listing is public and is not routed through Can; for
// ActionViewListing the policy only answers whether the caller may see a
// listing in any status.
func Can(role models.Role, action Action, ownerID, callerID string) bool {
	if role == models.RoleAdmin {
		return true
	}
	perms, ok := matrix[role]
	if !ok {
		perms = matrix[models.RoleUser]
	}
	switch perms[action] {
	case always:
		return true
	case ownerOnly:
		return callerID != "" && callerID == ownerID
	default:
		return false
	}
}

// Privileged reports whether role may see listings regardless of status.
func Privileged(role models.Role) bool {
	return Can(role, ActionViewAnyListing, "", "")
}
