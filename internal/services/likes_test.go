package services_test

import (
	"errors"
	"testing"

	"github.com/campfire-dev/campfire/internal/apperr"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/services"
)

func TestTogglePostLikeRoundTrip(t *testing.T) {
	database := newTestDB(t)
	likes := services.NewLikeService(database)

	author := seedUser(t, database, "A", "a@example.com", models.RoleUser)
	fan := seedUser(t, database, "B", "b@example.com", models.RoleUser)
	post := seedPost(t, database, author, "p")

	result, err := likes.TogglePostLike(asActor(fan), post.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !result.Liked || result.Count != 1 {
		t.Errorf("first toggle = %+v, want liked=true count=1", result)
	}

	result, err = likes.TogglePostLike(asActor(fan), post.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if result.Liked || result.Count != 0 {
		t.Errorf("second toggle = %+v, want liked=false count=0", result)
	}

	if n := countRows(t, database, &models.PostLike{}, "post_id = ?", post.ID); n != 0 {
		t.Errorf("like rows = %d, want 0", n)
	}
}

func TestTogglePostLikeCountsPerUser(t *testing.T) {
	database := newTestDB(t)
	likes := services.NewLikeService(database)

	author := seedUser(t, database, "A", "a@example.com", models.RoleUser)
	fan1 := seedUser(t, database, "B", "b@example.com", models.RoleUser)
	fan2 := seedUser(t, database, "C", "c@example.com", models.RoleUser)
	post := seedPost(t, database, author, "p")

	if _, err := likes.TogglePostLike(asActor(fan1), post.ID); err != nil {
		t.Fatalf("fan1: %v", err)
	}

	result, err := likes.TogglePostLike(asActor(fan2), post.ID)
	if err != nil {
		t.Fatalf("fan2: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("count = %d, want 2", result.Count)
	}

	// fan1 unlikes; fan2's like stays.
	result, err = likes.TogglePostLike(asActor(fan1), post.ID)
	if err != nil {
		t.Fatalf("fan1 unlike: %v", err)
	}
	if result.Liked || result.Count != 1 {
		t.Errorf("after unlike = %+v, want liked=false count=1", result)
	}
}

func TestTogglePostLikeMissingPost(t *testing.T) {
	database := newTestDB(t)
	likes := services.NewLikeService(database)
	fan := seedUser(t, database, "B", "b@example.com", models.RoleUser)

	if _, err := likes.TogglePostLike(asActor(fan), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestToggleCommentLikeRoundTrip(t *testing.T) {
	database := newTestDB(t)
	likes := services.NewLikeService(database)
	comments := services.NewCommentService(database)

	author := seedUser(t, database, "A", "a@example.com", models.RoleUser)
	fan := seedUser(t, database, "B", "b@example.com", models.RoleUser)
	post := seedPost(t, database, author, "p")

	comment, err := comments.Create(asActor(author), post.ID, "hello")
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}

	result, err := likes.ToggleCommentLike(asActor(fan), comment.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !result.Liked || result.Count != 1 {
		t.Errorf("toggle = %+v, want liked=true count=1", result)
	}

	result, err = likes.ToggleCommentLike(asActor(fan), comment.ID)
	if err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if result.Liked || result.Count != 0 {
		t.Errorf("untoggle = %+v, want liked=false count=0", result)
	}
}
