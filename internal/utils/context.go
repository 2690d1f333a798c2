package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/launchbase-dev/launchbase/internal/middleware"
	"github.com/launchbase-dev/launchbase/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetCurrentTeam(ctx *gin.Context) (middleware.CurrentTeam, error) {
	team, exists := ctx.Get(types.ContextTeamKey)

	if !exists {
		return middleware.CurrentTeam{}, fmt.Errorf("No team in context")
	}

	currentTeam, ok := team.(middleware.CurrentTeam)

	if !ok {
		return middleware.CurrentTeam{}, fmt.Errorf("Invalid team type in context")
	}

	return currentTeam, nil
}
