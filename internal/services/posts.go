package services

import (
	"errors"
	"strings"
	"time"

	"github.com/campfire-dev/campfire/internal/apperr"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/policy"
	"gorm.io/gorm"
)

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

type CreatePostInput struct {
	Title string
	Body  string
	Tags  []string
}

type UpdatePostInput struct {
	Title string
	Body  string
	Tags  []string
}

type PostView struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	AuthorID     uint      `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	Tags         []string  `json:"tags"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// normalizeTags trims, drops empties, and dedupes while keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}

	return out
}

func (s *PostService) Create(actor policy.Actor, input CreatePostInput) (PostView, error) {
	if strings.TrimSpace(input.Title) == "" {
		return PostView{}, apperr.Validationf("title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return PostView{}, apperr.Validationf("body is required")
	}

	post := models.Post{
		AuthorID: actor.ID,
		Title:    strings.TrimSpace(input.Title),
		Body:     input.Body,
	}

	tags := normalizeTags(input.Tags)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		for _, tag := range tags {
			if err := tx.Create(&models.PostTag{PostID: post.ID, Tag: tag}).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return PostView{}, apperr.Storage(err)
	}

	return s.Get(post.ID)
}

func (s *PostService) Get(id uint) (PostView, error) {
	var post models.Post

	if err := s.db.Preload("Author").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PostView{}, apperr.NotFoundf("post")
		}
		return PostView{}, apperr.Storage(err)
	}

	return s.toView(post)
}

// postPageSize is the fixed page size of the public post listing.
const postPageSize = 20

// List returns one page of posts, newest first. Pages are 1-based;
// anything below 1 means the first page.
func (s *PostService) List(page int) ([]PostView, error) {
	if page < 1 {
		page = 1
	}

	var posts []models.Post

	if err := s.db.Preload("Author").Preload("Tags").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * postPageSize).
		Limit(postPageSize).
		Find(&posts).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return s.toViews(posts)
}

// ListByAuthor serves "my posts". User-scoped: only the user themselves
// or an admin may call it.
func (s *PostService) ListByAuthor(actor policy.Actor, userID uint) ([]PostView, error) {
	if !policy.CanViewUserScoped(actor, userID) {
		return nil, apperr.ErrForbidden
	}

	var posts []models.Post

	if err := s.db.Preload("Author").Preload("Tags").
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return s.toViews(posts)
}

// ListLiked serves "my liked posts", same scoping rule as ListByAuthor.
func (s *PostService) ListLiked(actor policy.Actor, userID uint) ([]PostView, error) {
	if !policy.CanViewUserScoped(actor, userID) {
		return nil, apperr.ErrForbidden
	}

	var posts []models.Post

	if err := s.db.Preload("Author").Preload("Tags").
		Joins("JOIN post_likes ON post_likes.post_id = posts.id").
		Where("post_likes.user_id = ?", userID).
		Order("post_likes.created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return s.toViews(posts)
}

func (s *PostService) Update(actor policy.Actor, id uint, input UpdatePostInput) (PostView, error) {
	var post models.Post

	// Existence before ownership: a missing post is NotFound regardless
	// of who asks.
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PostView{}, apperr.NotFoundf("post")
		}
		return PostView{}, apperr.Storage(err)
	}

	if !policy.CanModify(actor, post.AuthorID) {
		return PostView{}, apperr.ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" {
		return PostView{}, apperr.Validationf("title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return PostView{}, apperr.Validationf("body is required")
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Body = input.Body
	tags := normalizeTags(input.Tags)

	// Tag replacement and the field update commit together or not at all.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&post).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}

		for _, tag := range tags {
			if err := tx.Create(&models.PostTag{PostID: post.ID, Tag: tag}).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return PostView{}, apperr.Storage(err)
	}

	return s.Get(post.ID)
}

// Delete removes the post and every row hanging off it in dependency
// order: likes on its comments, its own likes, its tags, its comments,
// then the post. One transaction; a failure anywhere rolls back all of it.
func (s *PostService) Delete(actor policy.Actor, id uint) error {
	var post models.Post

	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("post")
		}
		return apperr.Storage(err)
	}

	if !policy.CanModify(actor, post.AuthorID) {
		return apperr.ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", post.ID)

		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&post).Error
	})

	if err != nil {
		return apperr.Storage(err)
	}

	return nil
}

func (s *PostService) toView(post models.Post) (PostView, error) {
	var likeCount, commentCount int64

	if err := s.db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount).Error; err != nil {
		return PostView{}, apperr.Storage(err)
	}
	if err := s.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		return PostView{}, apperr.Storage(err)
	}

	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Tag)
	}

	return PostView{
		ID:           post.ID,
		Title:        post.Title,
		Body:         post.Body,
		AuthorID:     post.AuthorID,
		AuthorName:   post.Author.Name,
		Tags:         tags,
		LikeCount:    likeCount,
		CommentCount: commentCount,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}, nil
}

func (s *PostService) toViews(posts []models.Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))

	for _, post := range posts {
		view, err := s.toView(post)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}
