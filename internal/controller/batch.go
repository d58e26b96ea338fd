package controller

import (
	"net/http"
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

type BatchController struct {
	*baseController
}

func (bc BatchController) ListBatches(ctx *gin.Context) {
	batches, err := bc.app.Repository.Batch.List(ctx, nil)
	if err != nil {
		bc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"batches": batches,
	})
}

func (bc BatchController) ListOpenBatches(ctx *gin.Context) {
	batches, err := bc.app.Repository.Batch.ListOpen(ctx, nil)
	if err != nil {
		bc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"batches": batches,
	})
}

func (bc BatchController) GetBatch(ctx *gin.Context) {
	batchId := ctx.Param("batchId")

	batch, err := bc.app.Repository.Batch.GetById(ctx, nil, batchId)
	if err != nil {
		bc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"batch": batch,
	})
}

type batchRequest struct {
	Name        string               `json:"name" binding:"required,strNotEmpty,max=100"`
	Description string               `json:"description" binding:"omitempty,max=1000"`
	StartDate   *time.Time           `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
	Status      constant.BatchStatus `json:"status" binding:"omitempty,oneof=open closed"`
}

func (bc BatchController) CreateBatch(ctx *gin.Context) {
	var body batchRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		bc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	batch := model.Batch{
		Name:        body.Name,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Status:      body.Status,
	}
	if err := bc.app.Repository.Batch.Create(ctx, nil, &batch); err != nil {
		bc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"batch": batch,
	})
}

func (bc BatchController) UpdateBatch(ctx *gin.Context) {
	var body batchRequest

	batchId := ctx.Param("batchId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		bc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	batch := model.Batch{
		Name:        body.Name,
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Status:      body.Status,
	}
	batch.ID = batchId
	if err := bc.app.Repository.Batch.Update(ctx, nil, &batch); err != nil {
		bc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"batch": batch,
	})
}

func (bc BatchController) DeleteBatch(ctx *gin.Context) {
	batchId := ctx.Param("batchId")

	if err := bc.app.Repository.Batch.Delete(ctx, nil, batchId); err != nil {
		bc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"batchId": batchId,
	})
}
