package controller

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	*baseController
}

const (
	ErrFileRequired = "file is required"
	ErrFileTooLarge = "file exceeds the upload size limit"
)

// StageAttachment uploads one evidence file to object storage and returns
// the reference the client later embeds in its application submission. The
// database is not touched; unreferenced staged files are swept by the
// cleanup consumer.
func (uc UploadController) StageAttachment(ctx *gin.Context) {
	user, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "No file uploaded", util.GenerateErrorMessages(errors.New(ErrFileRequired), "file"), nil)
		return
	}

	if fileHeader.Size > uc.app.Config.Upload.MaxFileSize {
		util.ResponseFailed(ctx, http.StatusRequestEntityTooLarge, "File too large", util.GenerateErrorMessages(errors.New(ErrFileTooLarge), "file"), nil)
		return
	}

	info, err := util.UploadFileToS3ByFileHeader(fileHeader, &util.FileUploadOptions{
		DirectoryPath: util.GetAttachmentDirectoryPath(user.ID),
		UniquePrefix:  true,
		Bucket:        uc.app.Config.Minio.BUCKET,
		S3:            uc.app.S3,
	})
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload file", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"file": gin.H{
			"isExisting":   false,
			"originalName": fileHeader.Filename,
			"storedName":   filepath.Base(info.Key),
			"storedPath":   info.Key,
			"size":         fileHeader.Size,
			"mimeType":     fileHeader.Header.Get("Content-Type"),
		},
	})
}

// DownloadAttachment hands out a short-lived presigned URL for an attachment
// row. Students may only reach attachments of their own applications.
func (uc UploadController) DownloadAttachment(ctx *gin.Context) {
	attachmentId := ctx.Param("attachmentId")

	user, err := uc.getAuthUser(ctx)
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	var attachment *model.Attachment
	if user.Role == constant.UserRoleAdmin {
		attachment, err = uc.app.Repository.Attachment.GetById(ctx, nil, attachmentId)
	} else {
		attachment, err = uc.app.Repository.Attachment.GetByIdForUser(ctx, nil, attachmentId, user.ID)
	}
	if err != nil {
		uc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	url, err := attachment.ToPresignedUrl(ctx, uc.app.S3, uc.app.Config.Minio.BUCKET)
	if err != nil {
		uc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to generate download url", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"url":          url,
		"originalName": attachment.OriginalName,
	})
}
