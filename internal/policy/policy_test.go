package policy_test

import (
	"testing"

	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/policy"
)

func TestCanModify(t *testing.T) {
	tests := []struct {
		name    string
		actor   policy.Actor
		ownerID uint
		want    bool
	}{
		{"owner may modify", policy.Actor{ID: 7, Role: models.RoleUser}, 7, true},
		{"other user may not", policy.Actor{ID: 8, Role: models.RoleUser}, 7, false},
		{"admin overrides", policy.Actor{ID: 99, Role: models.RoleAdmin}, 7, true},
		{"admin owner", policy.Actor{ID: 7, Role: models.RoleAdmin}, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.CanModify(tt.actor, tt.ownerID); got != tt.want {
				t.Errorf("CanModify(%+v, %d) = %v, want %v", tt.actor, tt.ownerID, got, tt.want)
			}
		})
	}
}

func TestCanViewUserScoped(t *testing.T) {
	self := policy.Actor{ID: 3, Role: models.RoleUser}
	other := policy.Actor{ID: 4, Role: models.RoleUser}
	admin := policy.Actor{ID: 5, Role: models.RoleAdmin}

	if !policy.CanViewUserScoped(self, 3) {
		t.Error("user should view their own scoped listings")
	}
	if policy.CanViewUserScoped(other, 3) {
		t.Error("user should not view another user's scoped listings")
	}
	if !policy.CanViewUserScoped(admin, 3) {
		t.Error("admin should view any user's scoped listings")
	}
}

func TestCanJoin(t *testing.T) {
	if !policy.CanJoin(models.ProjectStatusOpen) {
		t.Error("open project should accept members")
	}
	if policy.CanJoin(models.ProjectStatusInProgress) {
		t.Error("in-progress project should not accept members")
	}
	if policy.CanJoin(models.ProjectStatusCompleted) {
		t.Error("completed project should not accept members")
	}
}

func TestCanLeave(t *testing.T) {
	if policy.CanLeave(models.MemberRoleLeader) {
		t.Error("leader should not be able to leave")
	}
	if !policy.CanLeave(models.MemberRoleMember) {
		t.Error("member should be able to leave")
	}
}
