package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	*baseController
}

// ListUsers is the admin user directory, filterable by role.
func (uc UserController) ListUsers(ctx *gin.Context) {
	role := constant.UserRole(ctx.Query("role"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", strconv.Itoa(constant.DefaultPageSize)))

	users, total, err := uc.app.Repository.User.List(ctx, nil, role, page, pageSize)
	if err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"users":     users,
		"total":     total,
		"totalPage": util.CalculateTotalPage(total, pageSize),
	})
}

// CreateUser provisions an account with an explicit role. Self-service
// registration only ever creates students; admins come through here.
func (uc UserController) CreateUser(ctx *gin.Context) {
	type Request struct {
		Username  string            `json:"username" binding:"required,strNotEmpty,max=50"`
		Password  string            `json:"password" binding:"required,min=8,max=72"`
		RealName  string            `json:"realName" binding:"required,strNotEmpty,max=100"`
		Role      constant.UserRole `json:"role" binding:"required,oneof=student admin"`
		Email     string            `json:"email" binding:"omitempty,email"`
		StudentID string            `json:"studentId" binding:"omitempty,max=50"`
		Class     string            `json:"class" binding:"omitempty,max=100"`
		Major     string            `json:"major" binding:"omitempty,max=100"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	if existing, err := uc.app.Repository.User.GetByUsername(ctx, nil, body.Username); err == nil && existing != nil {
		util.ResponseFailed(ctx, http.StatusConflict, "Username already taken", util.GenerateErrorMessages(errors.New(ErrUsernameTaken), "username"), nil)
		return
	}

	user := model.User{
		Username:  body.Username,
		RealName:  body.RealName,
		Role:      body.Role,
		Email:     body.Email,
		StudentID: body.StudentID,
		Class:     body.Class,
		Major:     body.Major,
	}
	if err := uc.app.Repository.User.Create(ctx, nil, &user, body.Password); err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": user,
	})
}

func (uc UserController) UpdateProfile(ctx *gin.Context) {
	type Request struct {
		Email     string `json:"email" binding:"required,email"`
		RealName  string `json:"realName" binding:"required,strNotEmpty,max=100"`
		StudentID string `json:"studentId" binding:"omitempty,max=50"`
		Class     string `json:"class" binding:"omitempty,max=100"`
		Major     string `json:"major" binding:"omitempty,max=100"`
	}
	var body Request

	user, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	updated := model.User{
		Email:     body.Email,
		RealName:  body.RealName,
		StudentID: body.StudentID,
		Class:     body.Class,
		Major:     body.Major,
	}
	updated.ID = user.ID
	if err := uc.app.Repository.User.UpdateProfile(ctx, nil, &updated); err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": updated,
	})
}

func (uc UserController) ChangePassword(ctx *gin.Context) {
	type Request struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
	}
	var body Request

	authUser, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	user, err := uc.app.Repository.User.GetById(ctx, nil, authUser.ID)
	if err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	if err := util.ComparePassword(user.PasswordHash, body.OldPassword); err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid credentials", util.GenerateErrorMessages(err, "oldPassword"), nil)
		return
	}

	if err := uc.app.Repository.User.UpdatePassword(ctx, nil, user.ID, body.NewPassword); err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}

// UpdateUser lets an admin edit any account's profile fields.
func (uc UserController) UpdateUser(ctx *gin.Context) {
	type Request struct {
		Email     string `json:"email" binding:"required,email"`
		RealName  string `json:"realName" binding:"required,strNotEmpty,max=100"`
		StudentID string `json:"studentId" binding:"omitempty,max=50"`
		Class     string `json:"class" binding:"omitempty,max=100"`
		Major     string `json:"major" binding:"omitempty,max=100"`
	}
	var body Request

	userId := ctx.Param("userId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	updated := model.User{
		Email:     body.Email,
		RealName:  body.RealName,
		StudentID: body.StudentID,
		Class:     body.Class,
		Major:     body.Major,
	}
	updated.ID = userId
	if err := uc.app.Repository.User.UpdateProfile(ctx, nil, &updated); err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": updated,
	})
}

// ResetPassword lets an admin set a new password for any account.
func (uc UserController) ResetPassword(ctx *gin.Context) {
	type Request struct {
		Password string `json:"password" binding:"required,min=8,max=72"`
	}
	var body Request

	userId := ctx.Param("userId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := uc.app.Repository.User.UpdatePassword(ctx, nil, userId, body.Password); err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"userId": userId,
	})
}

func (uc UserController) DeleteUser(ctx *gin.Context) {
	userId := ctx.Param("userId")

	if err := uc.app.Repository.User.Delete(ctx, nil, userId); err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"userId": userId,
	})
}
