package middleware

import (
	"errors"

	"github.com/Vathanak-H/ScholarAward/internal/auth"
	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, 401, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		ctx.Abort()
		return
	}

	claim, err := m.app.JWTService.VerifyJwtToken(token)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, 401, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		ctx.Abort()
		return
	}

	if claim.Type != constant.JWT_TYPE_ACCESS {
		m.app.Logger.Debugf("Invalid token type: %s", claim.Type)
		util.ResponseFailed(ctx, 401, "Invalid access token type", util.GenerateErrorMessages(errors.New("invalid access token type"), "unauthorized"), nil)
		ctx.Abort()
		return
	}

	ctx.Set("user", claim.User)
	ctx.Next()
}

// AdminMiddleware must run after AuthMiddleware; it reads the user the auth
// middleware stored.
func (m Middleware) AdminMiddleware(ctx *gin.Context) {
	user, exists := ctx.Get("user")
	if !exists {
		util.ResponseFailed(ctx, 401, "", util.GenerateErrorMessages(errors.New("user not found in context"), "unauthorized"), nil)
		ctx.Abort()
		return
	}

	payload, ok := user.(auth.JWTPayload)
	if !ok || payload.Role != constant.UserRoleAdmin {
		m.app.Logger.Debug("Admin access denied")
		util.ResponseFailed(ctx, 403, "Admin access required", util.GenerateErrorMessages(errors.New("forbidden"), "forbidden"), nil)
		ctx.Abort()
		return
	}

	ctx.Next()
}
