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

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CommentView struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	LikeCount  int64     `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *CommentService) Create(actor policy.Actor, postID uint, body string) (CommentView, error) {
	if strings.TrimSpace(body) == "" {
		return CommentView{}, apperr.Validationf("comment body is required")
	}

	var post models.Post

	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentView{}, apperr.NotFoundf("post")
		}
		return CommentView{}, apperr.Storage(err)
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: actor.ID,
		Body:     body,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return CommentView{}, apperr.Storage(err)
	}

	return s.Get(comment.ID)
}

func (s *CommentService) Get(id uint) (CommentView, error) {
	var comment models.Comment

	if err := s.db.Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentView{}, apperr.NotFoundf("comment")
		}
		return CommentView{}, apperr.Storage(err)
	}

	return s.toView(comment)
}

func (s *CommentService) ListByPost(postID uint) ([]CommentView, error) {
	var post models.Post

	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("post")
		}
		return nil, apperr.Storage(err)
	}

	var comments []models.Comment

	if err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		view, err := s.toView(comment)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *CommentService) Update(actor policy.Actor, id uint, body string) (CommentView, error) {
	var comment models.Comment

	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentView{}, apperr.NotFoundf("comment")
		}
		return CommentView{}, apperr.Storage(err)
	}

	if !policy.CanModify(actor, comment.AuthorID) {
		return CommentView{}, apperr.ErrForbidden
	}

	if strings.TrimSpace(body) == "" {
		return CommentView{}, apperr.Validationf("comment body is required")
	}

	comment.Body = body

	if err := s.db.Save(&comment).Error; err != nil {
		return CommentView{}, apperr.Storage(err)
	}

	return s.Get(comment.ID)
}

// Delete removes the comment and its likes atomically.
func (s *CommentService) Delete(actor policy.Actor, id uint) error {
	var comment models.Comment

	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("comment")
		}
		return apperr.Storage(err)
	}

	if !policy.CanModify(actor, comment.AuthorID) {
		return apperr.ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})

	if err != nil {
		return apperr.Storage(err)
	}

	return nil
}

func (s *CommentService) toView(comment models.Comment) (CommentView, error) {
	var likeCount int64

	if err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount).Error; err != nil {
		return CommentView{}, apperr.Storage(err)
	}

	return CommentView{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.Author.Name,
		Body:       comment.Body,
		LikeCount:  likeCount,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}, nil
}
