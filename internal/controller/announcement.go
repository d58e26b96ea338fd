package controller

import (
	"net/http"
	"strconv"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	*baseController
}

func (ac AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", strconv.Itoa(constant.DefaultPageSize)))

	announcements, total, err := ac.app.Repository.Announcement.List(ctx, nil, page, pageSize)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"announcements": announcements,
		"total":         total,
		"totalPage":     util.CalculateTotalPage(total, pageSize),
	})
}

func (ac AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	announcementId := ctx.Param("announcementId")

	announcement, err := ac.app.Repository.Announcement.GetById(ctx, nil, announcementId)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"announcement": announcement,
	})
}

type announcementRequest struct {
	Title   string `json:"title" binding:"required,strNotEmpty,max=200"`
	Content string `json:"content" binding:"omitempty,max=10000"`
}

func (ac AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var body announcementRequest

	author, err := ac.getAuthUser(ctx)
	if err != nil {
		ac.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ac.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	announcement := model.Announcement{
		Title:    body.Title,
		Content:  body.Content,
		AuthorID: author.ID,
	}
	if err := ac.app.Repository.Announcement.Create(ctx, nil, &announcement); err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"announcement": announcement,
	})
}

func (ac AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	var body announcementRequest

	announcementId := ctx.Param("announcementId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ac.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	announcement := model.Announcement{
		Title:   body.Title,
		Content: body.Content,
	}
	announcement.ID = announcementId
	if err := ac.app.Repository.Announcement.Update(ctx, nil, &announcement); err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"announcement": announcement,
	})
}

func (ac AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	announcementId := ctx.Param("announcementId")

	if err := ac.app.Repository.Announcement.Delete(ctx, nil, announcementId); err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"announcementId": announcementId,
	})
}
