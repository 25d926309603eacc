package services_test

import (
	"errors"
	"testing"

	"github.com/campfire-dev/campfire/internal/apperr"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/services"
)

func TestCreateProjectCreatesLeaderMembership(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)
	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)

	view, err := projects.Create(asActor(leader), services.CreateProjectInput{Title: "proj"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if view.Status != models.ProjectStatusOpen {
		t.Errorf("status = %q, want %q", view.Status, models.ProjectStatusOpen)
	}
	if view.MemberCount != 1 {
		t.Errorf("member count = %d, want 1", view.MemberCount)
	}

	var member models.ProjectMember
	if err := database.Where("project_id = ? AND user_id = ?", view.ID, leader.ID).First(&member).Error; err != nil {
		t.Fatalf("leader membership missing: %v", err)
	}
	if member.Role != models.MemberRoleLeader {
		t.Errorf("leader membership role = %q, want %q", member.Role, models.MemberRoleLeader)
	}
}

func TestCreateProjectRejectsUnknownStatus(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)
	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)

	_, err := projects.Create(asActor(leader), services.CreateProjectInput{Title: "p", Status: "recruiting"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestUpdateProjectKeepsOmittedFields(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)
	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)

	created, err := projects.Create(asActor(leader), services.CreateProjectInput{
		Title:          "proj",
		Description:    "desc",
		DiscordWebhook: "https://discord.example/hook",
		SlackWebhook:   "https://slack.example/hook",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Only status is sent; everything else must survive.
	view, err := projects.Update(asActor(leader), created.ID, services.UpdateProjectInput{
		Status: strPtr(models.ProjectStatusCompleted),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.Status != models.ProjectStatusCompleted {
		t.Errorf("status = %q, want %q", view.Status, models.ProjectStatusCompleted)
	}
	if view.Title != "proj" || view.Description != "desc" {
		t.Errorf("title/description changed: %q / %q", view.Title, view.Description)
	}

	var stored models.Project
	if err := database.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.DiscordWebhook != "https://discord.example/hook" {
		t.Errorf("discord webhook cleared: %q", stored.DiscordWebhook)
	}
	if stored.SlackWebhook != "https://slack.example/hook" {
		t.Errorf("slack webhook cleared: %q", stored.SlackWebhook)
	}

	if _, err := projects.Update(asActor(leader), created.ID, services.UpdateProjectInput{
		Title: strPtr("   "),
	}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("blank title: got %v, want ErrValidation", err)
	}
}

func TestJoinOpenProject(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)

	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)
	joiner := seedUser(t, database, "J", "j@example.com", models.RoleUser)
	project := seedProject(t, database, leader, "p", models.ProjectStatusOpen)

	member, err := projects.Join(asActor(joiner), project.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if member.Role != models.MemberRoleMember {
		t.Errorf("role = %q, want %q", member.Role, models.MemberRoleMember)
	}

	// Joining again conflicts on the (user, project) unique index.
	if _, err := projects.Join(asActor(joiner), project.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("double join: got %v, want ErrConflict", err)
	}
}

func TestJoinClosedProject(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)

	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)
	joiner := seedUser(t, database, "J", "j@example.com", models.RoleUser)

	for _, status := range []string{models.ProjectStatusInProgress, models.ProjectStatusCompleted} {
		project := seedProject(t, database, leader, "p-"+status, status)

		if _, err := projects.Join(asActor(joiner), project.ID); !errors.Is(err, apperr.ErrProjectNotOpen) {
			t.Errorf("join %s project: got %v, want ErrProjectNotOpen", status, err)
		}

		if n := countRows(t, database, &models.ProjectMember{}, "project_id = ? AND user_id = ?", project.ID, joiner.ID); n != 0 {
			t.Errorf("membership rows after rejected join = %d, want 0", n)
		}
	}
}

func TestLeaveProject(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)

	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)
	member := seedUser(t, database, "M", "m@example.com", models.RoleUser)
	project := seedProject(t, database, leader, "p", models.ProjectStatusOpen)

	if _, err := projects.Join(asActor(member), project.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := projects.Leave(asActor(leader), project.ID); !errors.Is(err, apperr.ErrLeaderCannotLeave) {
		t.Fatalf("leader leave: got %v, want ErrLeaderCannotLeave", err)
	}
	if !errors.Is(apperr.ErrLeaderCannotLeave, apperr.ErrForbidden) {
		t.Error("leader-cannot-leave should map to Forbidden")
	}

	if err := projects.Leave(asActor(member), project.ID); err != nil {
		t.Fatalf("member leave: %v", err)
	}
	if n := countRows(t, database, &models.ProjectMember{}, "project_id = ? AND user_id = ?", project.ID, member.ID); n != 0 {
		t.Errorf("membership rows after leave = %d, want 0", n)
	}

	// A non-member leaving has no membership row to remove.
	outsider := seedUser(t, database, "O", "o@example.com", models.RoleUser)
	if err := projects.Leave(asActor(outsider), project.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("outsider leave: got %v, want ErrNotFound", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)

	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)
	member := seedUser(t, database, "M", "m@example.com", models.RoleUser)
	project := seedProject(t, database, leader, "p", models.ProjectStatusOpen)

	if _, err := projects.Join(asActor(member), project.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := projects.CreateComment(asActor(member), project.ID, "hi"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := projects.Delete(asActor(leader), project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if n := countRows(t, database, &models.ProjectMember{}, "project_id = ?", project.ID); n != 0 {
		t.Errorf("membership rows = %d, want 0", n)
	}
	if n := countRows(t, database, &models.ProjectComment{}, "project_id = ?", project.ID); n != 0 {
		t.Errorf("comment rows = %d, want 0", n)
	}
	if n := countRows(t, database, &models.Project{}, "id = ?", project.ID); n != 0 {
		t.Errorf("project rows = %d, want 0", n)
	}
}

func TestDeleteProjectOwnership(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)

	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)
	other := seedUser(t, database, "O", "o@example.com", models.RoleUser)
	admin := seedUser(t, database, "A", "a@example.com", models.RoleAdmin)
	project := seedProject(t, database, leader, "p", models.ProjectStatusOpen)

	if err := projects.Delete(asActor(other), project.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-leader delete: got %v, want ErrForbidden", err)
	}

	if err := projects.Delete(asActor(admin), project.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	// Missing project reports NotFound even for a non-owner.
	if err := projects.Delete(asActor(other), project.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deleted project: got %v, want ErrNotFound", err)
	}
}

func TestProjectComments(t *testing.T) {
	database := newTestDB(t)
	projects := services.NewProjectService(database, nil)

	leader := seedUser(t, database, "L", "l@example.com", models.RoleUser)
	member := seedUser(t, database, "M", "m@example.com", models.RoleUser)
	project := seedProject(t, database, leader, "p", models.ProjectStatusOpen)

	if _, err := projects.CreateComment(asActor(member), project.ID, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty body: got %v, want ErrValidation", err)
	}

	comment, err := projects.CreateComment(asActor(member), project.ID, "hello")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	views, err := projects.ListComments(project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Body != "hello" {
		t.Errorf("comments = %+v, want one saying hello", views)
	}

	if err := projects.DeleteComment(asActor(leader), comment.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("leader deleting another author's comment: got %v, want ErrForbidden", err)
	}
	if err := projects.DeleteComment(asActor(member), comment.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}
