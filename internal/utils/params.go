package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New("missing " + name)
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(id), nil
}

func GetMemberID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "member_id")
}

func GetInvitationID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "invitation_id")
}
