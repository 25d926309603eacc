package services

import (
	"errors"

	"github.com/campfire-dev/campfire/internal/apperr"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/policy"
	"gorm.io/gorm"
)

// LikeService toggles likes on posts and comments. Counts are aggregated
// at read time from the like tables; there is no denormalized counter
// column to drift.
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

type ToggleResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

func (s *LikeService) TogglePostLike(actor policy.Actor, postID uint) (ToggleResult, error) {
	var post models.Post

	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResult{}, apperr.NotFoundf("post")
		}
		return ToggleResult{}, apperr.Storage(err)
	}

	var liked bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike

		err := tx.Where("user_id = ? AND post_id = ?", actor.ID, postID).First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.PostLike{UserID: actor.ID, PostID: postID}).Error; err != nil {
			// A concurrent toggle won the insert; the like exists, which
			// is the state this call was after anyway.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				liked = true
				return nil
			}
			return err
		}

		liked = true
		return nil
	})

	if err != nil {
		return ToggleResult{}, apperr.Storage(err)
	}

	var count int64
	if err := s.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return ToggleResult{}, apperr.Storage(err)
	}

	return ToggleResult{Liked: liked, Count: count}, nil
}

func (s *LikeService) ToggleCommentLike(actor policy.Actor, commentID uint) (ToggleResult, error) {
	var comment models.Comment

	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResult{}, apperr.NotFoundf("comment")
		}
		return ToggleResult{}, apperr.Storage(err)
	}

	var liked bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CommentLike

		err := tx.Where("user_id = ? AND comment_id = ?", actor.ID, commentID).First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.CommentLike{UserID: actor.ID, CommentID: commentID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				liked = true
				return nil
			}
			return err
		}

		liked = true
		return nil
	})

	if err != nil {
		return ToggleResult{}, apperr.Storage(err)
	}

	var count int64
	if err := s.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return ToggleResult{}, apperr.Storage(err)
	}

	return ToggleResult{Liked: liked, Count: count}, nil
}
