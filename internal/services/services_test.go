package services_test

import (
	"testing"

	"github.com/campfire-dev/campfire/db"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/policy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
// The pool is pinned to one connection so every query sees the same
// in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return database
}

func seedUser(t *testing.T, database *gorm.DB, name, email, role string) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}

	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return user
}

func seedPost(t *testing.T, database *gorm.DB, author models.User, title string) models.Post {
	t.Helper()

	post := models.Post{AuthorID: author.ID, Title: title, Body: "body of " + title}

	if err := database.Create(&post).Error; err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}

	return post
}

func seedProject(t *testing.T, database *gorm.DB, leader models.User, title, status string) models.Project {
	t.Helper()

	project := models.Project{LeaderID: leader.ID, Title: title, Status: status}

	if err := database.Create(&project).Error; err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}

	member := models.ProjectMember{
		UserID:    leader.ID,
		ProjectID: project.ID,
		Role:      models.MemberRoleLeader,
	}

	if err := database.Create(&member).Error; err != nil {
		t.Fatalf("seed leader membership: %v", err)
	}

	return project
}

func strPtr(s string) *string {
	return &s
}

func asActor(user models.User) policy.Actor {
	return policy.Actor{ID: user.ID, Role: user.Role}
}

func countRows(t *testing.T, database *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := database.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}

	return n
}
