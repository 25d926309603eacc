package utils

import (
	"fmt"
	"strconv"

	"github.com/campfire-dev/campfire/internal/middleware"
	"github.com/campfire-dev/campfire/internal/policy"
	"github.com/campfire-dev/campfire/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("invalid user type in context")
	}

	return authenticatedUser, nil
}

// CurrentActor converts the authenticated user in the gin context into
// the identity the policy layer works with.
func CurrentActor(ctx *gin.Context) (policy.Actor, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return policy.Actor{}, err
	}

	return policy.Actor{ID: user.ID, Role: user.Role}, nil
}

// ParamID parses a numeric path parameter.
func ParamID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return uint(id), nil
}
