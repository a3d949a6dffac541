package policy

import (
	"testing"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	const (
		owner = "seller-1"
		other = "buyer-2"
	)

	tests := []struct {
		name   string
		role   models.Role
		action Action
		caller string
		want   bool
	}{
		{"admin sets role", models.RoleAdmin, ActionSetRole, other, true},
		{"admin approves", models.RoleAdmin, ActionApproveListing, other, true},
		{"admin lists users", models.RoleAdmin, ActionListUsers, other, true},
		{"admin views any", models.RoleAdmin, ActionViewAnyListing, other, true},

		{"moderator approves", models.RoleModerator, ActionApproveListing, other, true},
		{"moderator rejects", models.RoleModerator, ActionRejectListing, other, true},
		{"moderator lists pending", models.RoleModerator, ActionListPending, other, true},
		{"moderator marks sold", models.RoleModerator, ActionMarkSold, other, true},
		{"moderator cannot set role", models.RoleModerator, ActionSetRole, other, false},
		{"moderator cannot list users", models.RoleModerator, ActionListUsers, other, false},
		{"moderator cannot edit others' listing", models.RoleModerator, ActionUpdateListing, other, false},

		{"user creates own", models.RoleUser, ActionCreateListing, owner, true},
		{"user cannot create for someone else", models.RoleUser, ActionCreateListing, other, false},
		{"user views own", models.RoleUser, ActionViewListing, owner, true},
		{"user cannot view others' unpublished", models.RoleUser, ActionViewListing, other, false},
		{"user updates own", models.RoleUser, ActionUpdateListing, owner, true},
		{"user withdraws own", models.RoleUser, ActionWithdrawListing, owner, true},
		{"user marks own sold", models.RoleUser, ActionMarkSold, owner, true},
		{"user cannot mark others sold", models.RoleUser, ActionMarkSold, other, false},
		{"owner cannot self-approve", models.RoleUser, ActionApproveListing, owner, false},
		{"owner cannot reject", models.RoleUser, ActionRejectListing, owner, false},
		{"user cannot set role", models.RoleUser, ActionSetRole, owner, false},
		{"user cannot list pending", models.RoleUser, ActionListPending, owner, false},
		{"anonymous is never owner", models.RoleUser, ActionUpdateListing, "", false},

		{"unknown role acts as user (own)", models.Role("root"), ActionUpdateListing, owner, true},
		{"unknown role acts as user (approve)", models.Role("root"), ActionApproveListing, owner, false},
		{"empty role acts as user", models.Role(""), ActionSetRole, owner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.action, owner, tt.caller))
		})
	}
}

func TestCan_AnonymousOwnerNeverMatches(t *testing.T) {
	assert.False(t, Can(models.RoleUser, ActionUpdateListing, "", ""))
}

func TestPrivileged(t *testing.T) {
	assert.True(t, Privileged(models.RoleAdmin))
	assert.True(t, Privileged(models.RoleModerator))
	assert.False(t, Privileged(models.RoleUser))
	assert.False(t, Privileged(models.Role("ghost")))
}
