// Package policy decides whether an authenticated actor may perform an
// action on an entity it does not necessarily own. The rules are uniform
// across posts, comments, and projects: admins override, owners pass,
// everyone else is denied. Existence checks happen before any of these
// rules so a missing entity reports NotFound, never Forbidden.
package policy

import "github.com/campfire-dev/campfire/internal/models"

// Actor is the minimal identity the policy needs.
type Actor struct {
	ID   uint
	Role string
}

func ActorFromUser(u models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanModify reports whether the actor may edit or delete an entity owned
// by ownerID. ownerID is the author for posts and comments and the
// leader for projects.
func CanModify(actor Actor, ownerID uint) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}

// CanViewUserScoped guards listings tied to a single user: profile
// stats, "my posts", "my liked posts". Admins may inspect any user.
func CanViewUserScoped(actor Actor, targetUserID uint) bool {
	return actor.IsAdmin() || actor.ID == targetUserID
}

// CanJoin reports whether a project in the given status accepts new
// members. Membership uniqueness is enforced separately by the store.
func CanJoin(status string) bool {
	return status == models.ProjectStatusOpen
}

// CanLeave denies a leader leaving their own project; a project must
// keep its leader until it is deleted.
func CanLeave(memberRole string) bool {
	return memberRole != models.MemberRoleLeader
}
