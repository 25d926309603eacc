package services

import (
	"errors"
	"strings"
	"time"

	"github.com/campfire-dev/campfire/internal/apperr"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/policy"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Bio      string
}

type UpdateProfileInput struct {
	Name            string
	Email           string
	Bio             *string
	CurrentPassword string
	NewPassword     string
}

type UserView struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStats struct {
	Posts         int64 `json:"posts"`
	Comments      int64 `json:"comments"`
	LikesReceived int64 `json:"likes_received"`
}

func toUserView(user models.User) UserView {
	return UserView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}

func (s *UserService) Register(input RegisterInput) (UserView, error) {
	if strings.TrimSpace(input.Name) == "" {
		return UserView{}, apperr.Validationf("name is required")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return UserView{}, apperr.Validationf("email is required")
	}
	if len(input.Password) < 8 {
		return UserView{}, apperr.Validationf("password must be at least 8 characters")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserView{}, apperr.Storage(err)
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser,
		Bio:          input.Bio,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserView{}, apperr.Conflictf("email already exists")
		}
		return UserView{}, apperr.Storage(err)
	}

	return toUserView(user), nil
}

// Login checks the credentials and returns the user. The same error is
// returned for an unknown email and a wrong password.
func (s *UserService) Login(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperr.ErrInvalidCredentials
		}
		return models.User{}, apperr.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) Get(id uint) (UserView, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserView{}, apperr.NotFoundf("user")
		}
		return UserView{}, apperr.Storage(err)
	}

	return toUserView(user), nil
}

func (s *UserService) UpdateProfile(actor policy.Actor, input UpdateProfileInput) (UserView, error) {
	var user models.User

	if err := s.db.First(&user, actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserView{}, apperr.ErrUnauthenticated
		}
		return UserView{}, apperr.Storage(err)
	}

	updates := make(map[string]interface{})

	if input.Name != "" {
		updates["name"] = strings.TrimSpace(input.Name)
	}

	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}

	if input.Email != "" {
		newEmail := strings.ToLower(strings.TrimSpace(input.Email))

		if newEmail != user.Email {
			var existing models.User
			err := s.db.Where("email = ? AND id != ?", newEmail, user.ID).First(&existing).Error
			if err == nil {
				return UserView{}, apperr.Conflictf("email already exists")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return UserView{}, apperr.Storage(err)
			}
		}

		updates["email"] = newEmail
	}

	if input.NewPassword != "" {
		if input.CurrentPassword == "" {
			return UserView{}, apperr.Validationf("current password is required to change password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			return UserView{}, apperr.Validationf("current password is incorrect")
		}
		if len(input.NewPassword) < 8 {
			return UserView{}, apperr.Validationf("password must be at least 8 characters")
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return UserView{}, apperr.Storage(err)
		}

		updates["password_hash"] = string(passwordHash)
	}

	if len(updates) == 0 {
		return UserView{}, apperr.Validationf("no fields to update")
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserView{}, apperr.Conflictf("email already exists")
		}
		return UserView{}, apperr.Storage(err)
	}

	return s.Get(user.ID)
}

// Stats aggregates a user's profile numbers. User-scoped: visible only
// to the user themselves or an admin.
func (s *UserService) Stats(actor policy.Actor, userID uint) (UserStats, error) {
	var user models.User

	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserStats{}, apperr.NotFoundf("user")
		}
		return UserStats{}, apperr.Storage(err)
	}

	if !policy.CanViewUserScoped(actor, userID) {
		return UserStats{}, apperr.ErrForbidden
	}

	var stats UserStats

	if err := s.db.Model(&models.Post{}).Where("author_id = ?", userID).Count(&stats.Posts).Error; err != nil {
		return UserStats{}, apperr.Storage(err)
	}
	if err := s.db.Model(&models.Comment{}).Where("author_id = ?", userID).Count(&stats.Comments).Error; err != nil {
		return UserStats{}, apperr.Storage(err)
	}

	var postLikes, commentLikes int64

	if err := s.db.Model(&models.PostLike{}).
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Where("posts.author_id = ?", userID).
		Count(&postLikes).Error; err != nil {
		return UserStats{}, apperr.Storage(err)
	}
	if err := s.db.Model(&models.CommentLike{}).
		Joins("JOIN comments ON comments.id = comment_likes.comment_id").
		Where("comments.author_id = ?", userID).
		Count(&commentLikes).Error; err != nil {
		return UserStats{}, apperr.Storage(err)
	}

	stats.LikesReceived = postLikes + commentLikes

	return stats, nil
}

// Delete removes a user and everything they own: their posts with all
// dependent rows, their comments and likes elsewhere, the projects they
// lead, and their memberships. Only the user themselves or an admin may
// do this, and it is one transaction.
func (s *UserService) Delete(actor policy.Actor, userID uint) error {
	var user models.User

	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("user")
		}
		return apperr.Storage(err)
	}

	if !policy.CanModify(actor, user.ID) {
		return apperr.ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ownPostIDs := func() *gorm.DB {
			return tx.Model(&models.Post{}).Select("id").Where("author_id = ?", user.ID)
		}
		ledProjectIDs := func() *gorm.DB {
			return tx.Model(&models.Project{}).Select("id").Where("leader_id = ?", user.ID)
		}

		// Likes on comments under the user's posts, likes on the user's
		// own comments, and likes the user placed.
		commentsOnOwnPosts := tx.Model(&models.Comment{}).Select("id").Where("post_id IN (?)", ownPostIDs())
		if err := tx.Where("comment_id IN (?)", commentsOnOwnPosts).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		ownComments := tx.Model(&models.Comment{}).Select("id").Where("author_id = ?", user.ID)
		if err := tx.Where("comment_id IN (?)", ownComments).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id IN (?)", ownPostIDs()).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id IN (?)", ownPostIDs()).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)", ownPostIDs()).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		// Projects led by the user go away entirely; memberships and
		// comments elsewhere are single-row deletes.
		if err := tx.Where("project_id IN (?)", ledProjectIDs()).Delete(&models.ProjectComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id IN (?)", ledProjectIDs()).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("leader_id = ?", user.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.ProjectComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})

	if err != nil {
		return apperr.Storage(err)
	}

	return nil
}
