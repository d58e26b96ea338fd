package controller

import (
	"fmt"
	"net/http"

	"github.com/Vathanak-H/ScholarAward/internal/export"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

type RankingController struct {
	*baseController
}

func (rc RankingController) GetBatchRanking(ctx *gin.Context) {
	batchId := ctx.Param("batchId")

	ranked, err := rc.app.Repository.Application.RankBatch(ctx, nil, batchId)
	if err != nil {
		rc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"ranking": ranked,
	})
}

// ExportBatchRanking streams the ranking as an xlsx workbook.
func (rc RankingController) ExportBatchRanking(ctx *gin.Context) {
	batchId := ctx.Param("batchId")

	batch, err := rc.app.Repository.Batch.GetById(ctx, nil, batchId)
	if err != nil {
		rc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	ranked, err := rc.app.Repository.Application.RankBatch(ctx, nil, batchId)
	if err != nil {
		rc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	rules, err := rc.app.Repository.Category.GetRules(ctx, nil)
	if err != nil {
		rc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	catalog, err := rc.app.Repository.Category.ListWithItems(ctx, nil)
	if err != nil {
		rc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	buf, err := export.WriteRankingWorkbook(batch.Name, rules, catalog, ranked)
	if err != nil {
		rc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to build workbook", util.GenerateErrorMessages(err), nil)
		return
	}

	fileName := fmt.Sprintf("ranking-%s.xlsx", batch.Name)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
