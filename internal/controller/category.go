package controller

import (
	"errors"
	"net/http"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	*baseController
}

// GetCatalog returns the full scoring catalog: categories with their items
// and every rubric cell. Students use it to fill the submission form.
func (cc CategoryController) GetCatalog(ctx *gin.Context) {
	categories, err := cc.app.Repository.Category.ListWithItems(ctx, nil)
	if err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"categories": categories,
		"levels":     constant.AwardLevels,
		"grades":     constant.AwardGrades,
	})
}

func (cc CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := cc.app.Repository.Category.List(ctx, nil)
	if err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"categories": categories,
	})
}

func (cc CategoryController) CreateCategory(ctx *gin.Context) {
	type Request struct {
		Name        string `json:"name" binding:"required,strNotEmpty,max=100"`
		Description string `json:"description" binding:"omitempty,max=1000"`
		ScoreRatio  int    `json:"scoreRatio" binding:"required,gte=0,lte=100"`
		HasScoreCap bool   `json:"hasScoreCap"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	category := model.Category{
		Name:        body.Name,
		Description: body.Description,
		ScoreRatio:  body.ScoreRatio,
		HasScoreCap: body.HasScoreCap,
	}
	if err := cc.app.Repository.Category.Create(ctx, nil, &category); err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"category": category,
	})
}

func (cc CategoryController) UpdateCategory(ctx *gin.Context) {
	type Request struct {
		Name        string `json:"name" binding:"required,strNotEmpty,max=100"`
		Description string `json:"description" binding:"omitempty,max=1000"`
		ScoreRatio  int    `json:"scoreRatio" binding:"required,gte=0,lte=100"`
		HasScoreCap bool   `json:"hasScoreCap"`
	}
	var body Request

	categoryId := ctx.Param("categoryId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	category := model.Category{
		Name:        body.Name,
		Description: body.Description,
		ScoreRatio:  body.ScoreRatio,
		HasScoreCap: body.HasScoreCap,
	}
	category.ID = categoryId
	if err := cc.app.Repository.Category.Update(ctx, nil, &category); err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"category": category,
	})
}

func (cc CategoryController) DeleteCategory(ctx *gin.Context) {
	categoryId := ctx.Param("categoryId")

	if err := cc.app.Repository.Category.Delete(ctx, nil, categoryId); err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"categoryId": categoryId,
	})
}

func (cc CategoryController) CreateItem(ctx *gin.Context) {
	type Request struct {
		Name string `json:"name" binding:"required,strNotEmpty,max=200"`
	}
	var body Request

	categoryId := ctx.Param("categoryId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	item := model.Item{
		CategoryID: categoryId,
		Name:       body.Name,
	}
	if err := cc.app.Repository.Category.CreateItem(ctx, nil, &item); err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"item": item,
	})
}

func (cc CategoryController) DeleteItem(ctx *gin.Context) {
	itemId := ctx.Param("itemId")

	if err := cc.app.Repository.Category.DeleteItem(ctx, nil, itemId); err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"itemId": itemId,
	})
}

func (cc CategoryController) UpdateRubricScore(ctx *gin.Context) {
	type Request struct {
		Level     constant.AwardLevel `json:"level" binding:"required"`
		Grade     constant.AwardGrade `json:"grade" binding:"required"`
		BaseScore int                 `json:"baseScore" binding:"gte=0,lte=1000"`
	}
	var body Request

	itemId := ctx.Param("itemId")

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	if !body.Level.Valid() || !body.Grade.Valid() {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Unknown level or grade", util.GenerateErrorMessages(errors.New("unknown level or grade"), "level"), nil)
		return
	}

	if err := cc.app.Repository.Category.UpdateRubricScore(ctx, nil, itemId, body.Level, body.Grade, body.BaseScore); err != nil {
		cc.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"itemId":    itemId,
		"level":     body.Level,
		"grade":     body.Grade,
		"baseScore": body.BaseScore,
	})
}
