package services

import (
	"errors"
	"strings"
	"time"

	"github.com/campfire-dev/campfire/internal/apperr"
	"github.com/campfire-dev/campfire/internal/models"
	"github.com/campfire-dev/campfire/internal/policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectNotifier receives best-effort notifications about project
// activity. Failures are the notifier's problem; the triggering
// operation has already committed.
type ProjectNotifier interface {
	MemberJoined(project models.Project, user models.User)
	CommentPosted(project models.Project, user models.User, body string)
}

type ProjectService struct {
	db       *gorm.DB
	notifier ProjectNotifier // may be nil
}

func NewProjectService(db *gorm.DB, notifier ProjectNotifier) *ProjectService {
	return &ProjectService{db: db, notifier: notifier}
}

type CreateProjectInput struct {
	Title          string
	Description    string
	Status         string
	Links          datatypes.JSON
	DiscordWebhook string
	SlackWebhook   string
}

// UpdateProjectInput carries partial updates. Nil fields are left
// unchanged; a nil Links keeps the stored value.
type UpdateProjectInput struct {
	Title          *string
	Description    *string
	Status         *string
	Links          datatypes.JSON
	DiscordWebhook *string
	SlackWebhook   *string
}

type ProjectView struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       string         `json:"status"`
	Links        datatypes.JSON `json:"links,omitempty"`
	LeaderID     uint           `json:"leader_id"`
	LeaderName   string         `json:"leader_name"`
	MemberCount  int64          `json:"member_count"`
	CommentCount int64          `json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type MemberView struct {
	UserID   uint      `json:"user_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type ProjectCommentView struct {
	ID         uint      `json:"id"`
	ProjectID  uint      `json:"project_id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create inserts the project and its leader's membership row in one
// transaction, so a project is never observable without a leader member.
func (s *ProjectService) Create(actor policy.Actor, input CreateProjectInput) (ProjectView, error) {
	if strings.TrimSpace(input.Title) == "" {
		return ProjectView{}, apperr.Validationf("title is required")
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusOpen
	}
	if !models.ValidProjectStatus(status) {
		return ProjectView{}, apperr.Validationf("invalid status %q", status)
	}

	project := models.Project{
		LeaderID:       actor.ID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Status:         status,
		Links:          input.Links,
		DiscordWebhook: input.DiscordWebhook,
		SlackWebhook:   input.SlackWebhook,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		member := models.ProjectMember{
			UserID:    actor.ID,
			ProjectID: project.ID,
			Role:      models.MemberRoleLeader,
		}

		return tx.Create(&member).Error
	})

	if err != nil {
		return ProjectView{}, apperr.Storage(err)
	}

	return s.Get(project.ID)
}

func (s *ProjectService) Get(id uint) (ProjectView, error) {
	var project models.Project

	if err := s.db.Preload("Leader").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectView{}, apperr.NotFoundf("project")
		}
		return ProjectView{}, apperr.Storage(err)
	}

	return s.toView(project)
}

// List returns all projects, optionally filtered by status.
func (s *ProjectService) List(status string) ([]ProjectView, error) {
	if status != "" && !models.ValidProjectStatus(status) {
		return nil, apperr.Validationf("invalid status %q", status)
	}

	query := s.db.Preload("Leader").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return s.toViews(projects)
}

// ListMine returns projects the actor belongs to, led or joined.
func (s *ProjectService) ListMine(actor policy.Actor) ([]ProjectView, error) {
	var projects []models.Project

	if err := s.db.Preload("Leader").
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", actor.ID).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return s.toViews(projects)
}

func (s *ProjectService) Update(actor policy.Actor, id uint, input UpdateProjectInput) (ProjectView, error) {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectView{}, apperr.NotFoundf("project")
		}
		return ProjectView{}, apperr.Storage(err)
	}

	if !policy.CanModify(actor, project.LeaderID) {
		return ProjectView{}, apperr.ErrForbidden
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ProjectView{}, apperr.Validationf("title cannot be empty")
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return ProjectView{}, apperr.Validationf("invalid status %q", *input.Status)
		}
		project.Status = *input.Status
	}
	if input.Links != nil {
		project.Links = input.Links
	}
	if input.DiscordWebhook != nil {
		project.DiscordWebhook = *input.DiscordWebhook
	}
	if input.SlackWebhook != nil {
		project.SlackWebhook = *input.SlackWebhook
	}

	if err := s.db.Save(&project).Error; err != nil {
		return ProjectView{}, apperr.Storage(err)
	}

	return s.Get(project.ID)
}

// Delete removes the project's comments and memberships, then the
// project itself, in one transaction.
func (s *ProjectService) Delete(actor policy.Actor, id uint) error {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("project")
		}
		return apperr.Storage(err)
	}

	if !policy.CanModify(actor, project.LeaderID) {
		return apperr.ErrForbidden
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})

	if err != nil {
		return apperr.Storage(err)
	}

	return nil
}

// Join adds the actor as a member of an open project. Joining a project
// that is not recruiting is rejected before any write; the unique
// (user, project) index turns a duplicate join into a Conflict.
func (s *ProjectService) Join(actor policy.Actor, id uint) (MemberView, error) {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MemberView{}, apperr.NotFoundf("project")
		}
		return MemberView{}, apperr.Storage(err)
	}

	if !policy.CanJoin(project.Status) {
		return MemberView{}, apperr.ErrProjectNotOpen
	}

	member := models.ProjectMember{
		UserID:    actor.ID,
		ProjectID: project.ID,
		Role:      models.MemberRoleMember,
	}

	if err := s.db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return MemberView{}, apperr.Conflictf("already a member")
		}
		return MemberView{}, apperr.Storage(err)
	}

	var user models.User
	if err := s.db.First(&user, actor.ID).Error; err != nil {
		return MemberView{}, apperr.Storage(err)
	}

	if s.notifier != nil {
		s.notifier.MemberJoined(project, user)
	}

	return MemberView{
		UserID:   user.ID,
		Name:     user.Name,
		Role:     member.Role,
		JoinedAt: member.CreatedAt,
	}, nil
}

// Leave removes the actor's membership row. Leaders cannot leave; they
// delete the project instead. No cascade: a departing member's comments
// stay.
func (s *ProjectService) Leave(actor policy.Actor, id uint) error {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("project")
		}
		return apperr.Storage(err)
	}

	var member models.ProjectMember

	if err := s.db.Where("project_id = ? AND user_id = ?", project.ID, actor.ID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("membership")
		}
		return apperr.Storage(err)
	}

	if !policy.CanLeave(member.Role) {
		return apperr.ErrLeaderCannotLeave
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return apperr.Storage(err)
	}

	return nil
}

func (s *ProjectService) Members(id uint) ([]MemberView, error) {
	var project models.Project

	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("project")
		}
		return nil, apperr.Storage(err)
	}

	var members []models.ProjectMember

	if err := s.db.Preload("User").
		Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	views := make([]MemberView, 0, len(members))
	for _, member := range members {
		views = append(views, MemberView{
			UserID:   member.UserID,
			Name:     member.User.Name,
			Role:     member.Role,
			JoinedAt: member.CreatedAt,
		})
	}

	return views, nil
}

func (s *ProjectService) CreateComment(actor policy.Actor, projectID uint, body string) (ProjectCommentView, error) {
	if strings.TrimSpace(body) == "" {
		return ProjectCommentView{}, apperr.Validationf("comment body is required")
	}

	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectCommentView{}, apperr.NotFoundf("project")
		}
		return ProjectCommentView{}, apperr.Storage(err)
	}

	comment := models.ProjectComment{
		ProjectID: project.ID,
		AuthorID:  actor.ID,
		Body:      body,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return ProjectCommentView{}, apperr.Storage(err)
	}

	var user models.User
	if err := s.db.First(&user, actor.ID).Error; err != nil {
		return ProjectCommentView{}, apperr.Storage(err)
	}

	if s.notifier != nil {
		s.notifier.CommentPosted(project, user, comment.Body)
	}

	return ProjectCommentView{
		ID:         comment.ID,
		ProjectID:  comment.ProjectID,
		AuthorID:   comment.AuthorID,
		AuthorName: user.Name,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

func (s *ProjectService) ListComments(projectID uint) ([]ProjectCommentView, error) {
	var project models.Project

	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("project")
		}
		return nil, apperr.Storage(err)
	}

	var comments []models.ProjectComment

	if err := s.db.Preload("Author").
		Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	views := make([]ProjectCommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, ProjectCommentView{
			ID:         comment.ID,
			ProjectID:  comment.ProjectID,
			AuthorID:   comment.AuthorID,
			AuthorName: comment.Author.Name,
			Body:       comment.Body,
			CreatedAt:  comment.CreatedAt,
		})
	}

	return views, nil
}

func (s *ProjectService) DeleteComment(actor policy.Actor, commentID uint) error {
	var comment models.ProjectComment

	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("comment")
		}
		return apperr.Storage(err)
	}

	if !policy.CanModify(actor, comment.AuthorID) {
		return apperr.ErrForbidden
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return apperr.Storage(err)
	}

	return nil
}

func (s *ProjectService) toView(project models.Project) (ProjectView, error) {
	var memberCount, commentCount int64

	if err := s.db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount).Error; err != nil {
		return ProjectView{}, apperr.Storage(err)
	}
	if err := s.db.Model(&models.ProjectComment{}).Where("project_id = ?", project.ID).Count(&commentCount).Error; err != nil {
		return ProjectView{}, apperr.Storage(err)
	}

	return ProjectView{
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Status:       project.Status,
		Links:        project.Links,
		LeaderID:     project.LeaderID,
		LeaderName:   project.Leader.Name,
		MemberCount:  memberCount,
		CommentCount: commentCount,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}, nil
}

func (s *ProjectService) toViews(projects []models.Project) ([]ProjectView, error) {
	views := make([]ProjectView, 0, len(projects))

	for _, project := range projects {
		view, err := s.toView(project)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}
