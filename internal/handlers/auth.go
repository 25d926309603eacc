package handlers

import (
	"net/http"

	"github.com/campfire-dev/campfire/internal/auth"
	"github.com/campfire-dev/campfire/internal/services"
	"github.com/campfire-dev/campfire/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users        *services.UserService
	tokens       *auth.TokenManager
	cookieDomain string
}

func NewAuthHandler(users *services.UserService, tokens *auth.TokenManager, cookieDomain string) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cookieDomain: cookieDomain}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Bio      string `json:"bio"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email" binding:"omitempty,email"`
	Bio             *string `json:"bio"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" binding:"omitempty,min=8"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.setAuthCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Login(req.Email, req.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.setAuthCookie(ctx, token, 60*60*24*7)

	view, err := h.users.Get(user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": view, "token": token})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	view, err := h.users.Get(currentUser.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": view})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.setAuthCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProfileRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	view, err := h.users.UpdateProfile(actor, services.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		Bio:             req.Bio,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": view})
}

// Stats serves a user's profile numbers. The service enforces the
// self-or-admin rule.
func (h *AuthHandler) Stats(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.users.Stats(actor, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// DeleteAccount deletes a user and all owned content. Admins may delete
// any user; everyone else only themselves.
func (h *AuthHandler) DeleteAccount(ctx *gin.Context) {
	actor, err := utils.CurrentActor(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, err := utils.ParamID(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.Delete(actor, userID); err != nil {
		respondError(ctx, err)
		return
	}

	if actor.ID == userID {
		h.setAuthCookie(ctx, "", -1)
	}

	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) setAuthCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
