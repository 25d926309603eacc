package handlers

import (
	"net/http"

	"github.com/campfire-dev/campfire/internal/services"
	"github.com/campfire-dev/campfire/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type ProjectHandler struct {
	projects *services.ProjectService
	hub      *Hub // may be nil
}

func NewProjectHandler(projects *services.ProjectService, hub *Hub) *ProjectHandler {
	return &ProjectHandler{projects: projects, hub: hub}
}

type CreateProjectRequest struct {
	Title          string         `json:"title" binding:"required"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	Links          datatypes.JSON `json:"links"`
	DiscordWebhook string         `json:"discord_webhook"`
	SlackWebhook   string         `json:"slack_webhook"`
}

// UpdateProjectRequest is a partial update; absent fields keep their
// stored values.
type UpdateProjectRequest struct {
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Status         *string        `json:"status"`
	Links          datatypes.JSON `json:"links"`
	DiscordWebhook *string        `json:"discord_webhook"`
	SlackWebhook   *string        `json:"slack_webhook"`
}

type ProjectCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.projects.Create(actor, services.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Links:          req.Links,
		DiscordWebhook: req.DiscordWebhook,
		SlackWebhook:   req.SlackWebhook,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, view)
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	views, err := h.projects.List(ctx.Query("status"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, views)
}

func (h *ProjectHandler) ListMine(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	views, err := h.projects.ListMine(actor)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, views)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.projects.Get(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.projects.Update(actor, projectID, services.UpdateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Links:          req.Links,
		DiscordWebhook: req.DiscordWebhook,
		SlackWebhook:   req.SlackWebhook,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projects.Delete(actor, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ProjectHandler) Join(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.projects.Join(actor, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(projectID, "member_joined", member.Name+" joined the project")
	}

	ctx.JSON(http.StatusCreated, member)
}

func (h *ProjectHandler) Leave(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projects.Leave(actor, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(projectID, "member_left", "a member left the project")
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ProjectHandler) Members(ctx *gin.Context) {
	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	members, err := h.projects.Members(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func (h *ProjectHandler) CreateComment(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ProjectCommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.projects.CreateComment(actor, projectID, req.Body)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(projectID, "comment_posted", view.AuthorName+" commented")
	}

	ctx.JSON(http.StatusCreated, view)
}

func (h *ProjectHandler) ListComments(ctx *gin.Context) {
	projectID, err := utils.ParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.projects.ListComments(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, views)
}

func (h *ProjectHandler) DeleteComment(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	commentID, err := utils.ParamID(ctx, "comment_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projects.DeleteComment(actor, commentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
