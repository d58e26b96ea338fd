package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/mailer"
	"github.com/Vathanak-H/ScholarAward/internal/queue"
	"github.com/Vathanak-H/ScholarAward/internal/reconcile"
	"github.com/Vathanak-H/ScholarAward/internal/repository"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationController struct {
	*baseController
}

const (
	ErrBatchClosed          = "batch is not accepting submissions"
	ErrApplicationFinalized = "application has already been approved"
)

// publishFileCleanup hands pruned object paths to the cleanup queue. The save
// already committed, so a publish failure is logged, never surfaced.
func (b *baseController) publishFileCleanup(paths []string) {
	if b.app.Queue == nil || len(paths) == 0 {
		return
	}

	payload := queue.NewFileCleanupPayload(paths)
	body, err := json.Marshal(payload)
	if err != nil {
		b.app.Logger.Errorf("Failed to marshal cleanup payload: %v", err)
		return
	}

	if err := b.app.Queue.Publish(queue.QueueFileCleanup, body); err != nil {
		b.app.Logger.Errorf("Failed to publish cleanup job for %d paths: %v", len(paths), err)
	}
}

// respondRepositoryError maps the repository's sentinel and validation errors
// onto HTTP statuses.
func respondRepositoryError(ctx *gin.Context, err error) {
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, ve.Field), nil)
	case errors.Is(err, repository.ErrApplicationLocked):
		util.ResponseFailed(ctx, http.StatusConflict, ErrApplicationFinalized, util.GenerateErrorMessages(err), nil)
	case errors.Is(err, repository.ErrReviewCommentRequired):
		util.ResponseFailed(ctx, http.StatusBadRequest, "Comment required", util.GenerateErrorMessages(err, "comment"), nil)
	case errors.Is(err, repository.ErrBatchHasApplications), errors.Is(err, repository.ErrReferencedByMaterials):
		util.ResponseFailed(ctx, http.StatusConflict, "Resource in use", util.GenerateErrorMessages(err), nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.ResponseFailed(ctx, http.StatusNotFound, "Not found", util.GenerateErrorMessages(err), nil)
	default:
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Internal error", util.GenerateErrorMessages(err), nil)
	}
}

func (ac ApplicationController) SaveApplication(ctx *gin.Context) {
	type Request struct {
		BatchID   string                    `json:"batchId" binding:"required,strNotEmpty"`
		Materials []reconcile.MaterialInput `json:"materials" binding:"required,min=1,dive"`
	}
	var body Request

	user, err := ac.getAuthUser(ctx)
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

	batch, err := ac.app.Repository.Batch.GetById(ctx, nil, body.BatchID)
	if err != nil {
		respondRepositoryError(ctx, err)
		return
	}
	if batch.Status != constant.BatchStatusOpen {
		util.ResponseFailed(ctx, http.StatusConflict, ErrBatchClosed, util.GenerateErrorMessages(errors.New(ErrBatchClosed), "batchId"), nil)
		return
	}

	result, err := ac.app.Repository.Application.Save(ctx, nil, user.ID, body.BatchID, body.Materials)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	ac.publishFileCleanup(result.RemovedPaths)

	util.ResponseSuccess(ctx, gin.H{
		"applicationId": result.ApplicationID,
		"totalScore":    result.TotalScore,
	})
}

func (ac ApplicationController) GetMyApplications(ctx *gin.Context) {
	user, err := ac.getAuthUser(ctx)
	if err != nil {
		ac.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	apps, err := ac.app.Repository.Application.ListByUser(ctx, nil, user.ID)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"applications": apps,
	})
}

// CheckApplication tells the student whether they already applied to a batch.
func (ac ApplicationController) CheckApplication(ctx *gin.Context) {
	batchId := ctx.Param("batchId")

	user, err := ac.getAuthUser(ctx)
	if err != nil {
		ac.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	app, err := ac.app.Repository.Application.GetByUserAndBatch(ctx, nil, user.ID, batchId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.ResponseSuccess(ctx, gin.H{
			"applied": false,
		})
		return
	}
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"applied":       true,
		"applicationId": app.ID,
		"status":        app.Status,
	})
}

func (ac ApplicationController) GetApplicationDetail(ctx *gin.Context) {
	applicationId := ctx.Param("applicationId")

	user, err := ac.getAuthUser(ctx)
	if err != nil {
		ac.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return
	}

	// Admins may read any application, students only their own.
	requestingUserId := user.ID
	if user.Role == constant.UserRoleAdmin {
		requestingUserId = ""
	}

	detail, err := ac.app.Repository.Application.GetDetail(ctx, nil, applicationId, requestingUserId)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"application":    detail.Application,
		"categoryScores": detail.CategoryScores,
		"total":          detail.Total,
	})
}

func (ac ApplicationController) ListApplications(ctx *gin.Context) {
	status := constant.ApplicationStatus(ctx.Query("status"))
	if status != "" && !status.Valid() {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid status filter", util.GenerateErrorMessages(errors.New("unknown status"), "status"), nil)
		return
	}

	apps, err := ac.app.Repository.Application.ListAll(ctx, nil, status)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"applications": apps,
	})
}

func (ac ApplicationController) ReviewApplication(ctx *gin.Context) {
	type Request struct {
		Status  constant.ApplicationStatus `json:"status" binding:"required,oneof=approved rejected"`
		Comment string                     `json:"comment" binding:"omitempty,max=2000"`
	}
	var body Request

	applicationId := ctx.Param("applicationId")

	reviewer, err := ac.getAuthUser(ctx)
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

	if err := ac.app.Repository.Application.Review(ctx, nil, applicationId, body.Status, body.Comment, reviewer.ID); err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	ac.notifyReviewDecision(ctx, applicationId, body.Status, body.Comment)

	util.ResponseSuccess(ctx, gin.H{
		"applicationId": applicationId,
		"status":        body.Status,
	})
}

// notifyReviewDecision queues the decision mail. The review is already
// committed; notification failures are logged and swallowed.
func (ac ApplicationController) notifyReviewDecision(ctx *gin.Context, applicationId string, status constant.ApplicationStatus, comment string) {
	detail, err := ac.app.Repository.Application.GetDetail(ctx, nil, applicationId, "")
	if err != nil {
		ac.app.Logger.Errorf("Failed to load application %s for review mail: %v", applicationId, err)
		return
	}

	student := detail.Application.User
	if student.Email == "" {
		return
	}

	data := mailer.ReviewDecisionData{
		RealName:   student.RealName,
		BatchName:  detail.Application.Batch.Name,
		Status:     string(status),
		Comment:    comment,
		TotalScore: detail.Total.String(),
	}

	if ac.app.Queue != nil {
		job, err := queue.NewReviewDecisionMailJob(student.RealName, student.Email, data)
		if err != nil {
			ac.app.Logger.Errorf("Failed to build review mail job: %v", err)
			return
		}
		body, err := json.Marshal(job)
		if err != nil {
			ac.app.Logger.Errorf("Failed to marshal review mail job: %v", err)
			return
		}
		if err := ac.app.Queue.Publish(queue.QueueMail, body); err != nil {
			ac.app.Logger.Errorf("Failed to publish review mail job: %v", err)
		}
		return
	}

	if ac.app.Mailer != nil {
		if _, err := ac.app.Mailer.Send(mailer.REVIEW_DECISION_TEMPLATE, student.RealName, student.Email, data); err != nil {
			ac.app.Logger.Errorf("Failed to send review mail: %v", err)
		}
	}
}

func (ac ApplicationController) DeleteApplication(ctx *gin.Context) {
	applicationId := ctx.Param("applicationId")

	removedPaths, err := ac.app.Repository.Application.Delete(ctx, nil, applicationId)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	ac.publishFileCleanup(removedPaths)

	util.ResponseSuccess(ctx, gin.H{
		"applicationId": applicationId,
	})
}

func (ac ApplicationController) GetStats(ctx *gin.Context) {
	stats, err := ac.app.Repository.Application.GetStats(ctx, nil)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"stats": stats,
	})
}

// GetStudentStats reports per-student submission state for admins, with
// optional batchId and class query filters.
func (ac ApplicationController) GetStudentStats(ctx *gin.Context) {
	batchId := ctx.Query("batchId")
	class := ctx.Query("class")

	stats, err := ac.app.Repository.Application.GetStudentStats(ctx, nil, batchId, class)
	if err != nil {
		ac.app.Logger.Error(err)
		respondRepositoryError(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"students":             stats.Students,
		"totalStudents":        stats.TotalStudents,
		"submittedStudents":    stats.SubmittedStudents,
		"notSubmittedStudents": stats.NotSubmittedStudents,
		"byClass":              stats.ByClass,
	})
}
