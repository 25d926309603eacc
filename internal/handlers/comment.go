package handlers

import (
	"net/http"

	"github.com/campfire-dev/campfire/internal/services"
	"github.com/campfire-dev/campfire/internal/utils"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
	likes    *services.LikeService
}

func NewCommentHandler(comments *services.CommentService, likes *services.LikeService) *CommentHandler {
	return &CommentHandler{comments: comments, likes: likes}
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *CommentHandler) Update(ctx *gin.Context) {
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

	var req UpdateCommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.comments.Update(actor, commentID, req.Body)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (h *CommentHandler) Delete(ctx *gin.Context) {
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

	if err := h.comments.Delete(actor, commentID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *CommentHandler) ToggleLike(ctx *gin.Context) {
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

	result, err := h.likes.ToggleCommentLike(actor, commentID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
