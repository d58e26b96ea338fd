package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/awarding"
	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/reconcile"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Batch{},
		&model.Category{},
		&model.Item{},
		&model.RubricEntry{},
		&model.Application{},
		&model.MaterialEntry{},
		&model.Attachment{},
		&model.Announcement{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(openTestDB(t), util.NewLogger(), nil)
}

type testCatalog struct {
	user     model.User
	batch    model.Batch
	academic model.Category
	sports   model.Category
	paper    model.Item
	medal    model.Item
}

// seedCatalog builds one student, one open batch and a two-category rubric:
// academic (ratio 60, no cap) with a "paper" item scoring 80 at
// national/first, and sports (ratio 40, capped) with a "medal" item scoring
// 30 at provincial/second.
func seedCatalog(t *testing.T, repo *Repository) testCatalog {
	t.Helper()
	ctx := context.Background()

	user := model.User{Username: "student1", RealName: "Student One", Role: constant.UserRoleStudent}
	if err := repo.User.Create(ctx, nil, &user, "password123"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	batch := model.Batch{Name: "Fall 2026", Status: constant.BatchStatusOpen}
	if err := repo.Batch.Create(ctx, nil, &batch); err != nil {
		t.Fatalf("create batch: %v", err)
	}

	academic := model.Category{Name: "Academic", ScoreRatio: 60}
	if err := repo.Category.Create(ctx, nil, &academic); err != nil {
		t.Fatalf("create category: %v", err)
	}
	sports := model.Category{Name: "Sports", ScoreRatio: 40, HasScoreCap: true}
	if err := repo.Category.Create(ctx, nil, &sports); err != nil {
		t.Fatalf("create category: %v", err)
	}

	paper := model.Item{CategoryID: academic.ID, Name: "Published paper"}
	if err := repo.Category.CreateItem(ctx, nil, &paper); err != nil {
		t.Fatalf("create item: %v", err)
	}
	medal := model.Item{CategoryID: sports.ID, Name: "Competition medal"}
	if err := repo.Category.CreateItem(ctx, nil, &medal); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := repo.Category.UpdateRubricScore(ctx, nil, paper.ID, constant.AwardLevelNational, constant.AwardGradeFirst, 80); err != nil {
		t.Fatalf("update rubric: %v", err)
	}
	if err := repo.Category.UpdateRubricScore(ctx, nil, medal.ID, constant.AwardLevelProvincial, constant.AwardGradeSecond, 30); err != nil {
		t.Fatalf("update rubric: %v", err)
	}

	return testCatalog{user: user, batch: batch, academic: academic, sports: sports, paper: paper, medal: medal}
}

func TestCreateItemSeedsFullRubricGrid(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	category := model.Category{Name: "Academic", ScoreRatio: 100}
	if err := repo.Category.Create(ctx, nil, &category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	item := model.Item{CategoryID: category.ID, Name: "Paper"}
	if err := repo.Category.CreateItem(ctx, nil, &item); err != nil {
		t.Fatalf("create item: %v", err)
	}

	var count int64
	if err := repo.DB.Model(&model.RubricEntry{}).Where("item_id = ?", item.ID).Count(&count).Error; err != nil {
		t.Fatalf("count rubric entries: %v", err)
	}
	want := int64(len(constant.AwardLevels) * len(constant.AwardGrades))
	if count != want {
		t.Errorf("expected %d seeded rubric cells, got %d", want, count)
	}

	var nonZero int64
	if err := repo.DB.Model(&model.RubricEntry{}).Where("item_id = ? AND base_score <> 0", item.ID).Count(&nonZero).Error; err != nil {
		t.Fatalf("count non-zero cells: %v", err)
	}
	if nonZero != 0 {
		t.Errorf("every seeded cell must start at 0, got %d non-zero", nonZero)
	}
}

func TestSaveCreatesApplicationWithAggregatedScore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
		{CategoryID: cat.sports.ID, ItemID: cat.medal.ID, AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond},
	}

	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// 80*60% + 30*40% = 48.00 + 12.00 = 60.00
	if result.TotalScore != awarding.Score(6000) {
		t.Errorf("total = %s, expected 60.00", result.TotalScore)
	}

	var app model.Application
	if err := repo.DB.First(&app, "id = ?", result.ApplicationID).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if app.Status != constant.ApplicationStatusPending {
		t.Errorf("status = %s, expected pending", app.Status)
	}
	if app.TotalScore != result.TotalScore {
		t.Errorf("stored total %s disagrees with returned %s", app.TotalScore, result.TotalScore)
	}
	if app.SubmittedAt == nil {
		t.Errorf("submittedAt must be set")
	}
}

func TestSaveTeamAwardHalvesScore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst, AwardType: constant.AwardTypeTeam},
	}

	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// (80/2)*60% = 24.00
	if result.TotalScore != awarding.Score(2400) {
		t.Errorf("total = %s, expected 24.00", result.TotalScore)
	}
}

func TestSaveResubmissionUpdatesInPlace(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}

	first, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	var firstEntry model.MaterialEntry
	if err := repo.DB.First(&firstEntry, "application_id = ?", first.ApplicationID).Error; err != nil {
		t.Fatalf("load material: %v", err)
	}

	second, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if second.ApplicationID != first.ApplicationID {
		t.Errorf("resubmission must reuse the application row")
	}

	var appCount, entryCount int64
	repo.DB.Model(&model.Application{}).Count(&appCount)
	repo.DB.Model(&model.MaterialEntry{}).Count(&entryCount)
	if appCount != 1 || entryCount != 1 {
		t.Errorf("expected 1 application and 1 material, got %d/%d", appCount, entryCount)
	}

	var secondEntry model.MaterialEntry
	repo.DB.First(&secondEntry, "application_id = ?", first.ApplicationID)
	if secondEntry.ID != firstEntry.ID {
		t.Errorf("material row must be updated in place, id changed %s -> %s", firstEntry.ID, secondEntry.ID)
	}
}

func TestSavePrunesOmittedMaterialsAndReturnsPaths(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	files := []reconcile.FileRef{
		{OriginalName: "medal.png", StoredName: "x_medal.png", StoredPath: "attachments/u1/x_medal.png", Size: 100, MimeType: "image/png"},
	}
	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
		{CategoryID: cat.sports.ID, ItemID: cat.medal.ID, AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond, Files: &files},
	}

	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("first save: %v", err)
	}

	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials[:1])
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(result.RemovedPaths) != 1 || result.RemovedPaths[0] != "attachments/u1/x_medal.png" {
		t.Errorf("pruned material's attachment path must be returned, got %v", result.RemovedPaths)
	}

	var entryCount, attCount int64
	repo.DB.Model(&model.MaterialEntry{}).Count(&entryCount)
	repo.DB.Model(&model.Attachment{}).Count(&attCount)
	if entryCount != 1 || attCount != 0 {
		t.Errorf("expected 1 material and 0 attachments, got %d/%d", entryCount, attCount)
	}

	// 80*60% only
	if result.TotalScore != awarding.Score(4800) {
		t.Errorf("total = %s, expected 48.00", result.TotalScore)
	}
}

func TestSaveNilFilesLeavesAttachmentsUntouched(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	files := []reconcile.FileRef{
		{OriginalName: "paper.pdf", StoredName: "x_paper.pdf", StoredPath: "attachments/u1/x_paper.pdf", Size: 100, MimeType: "application/pdf"},
	}
	withFiles := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst, Files: &files},
	}
	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, withFiles); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Same material resubmitted without a files field at all.
	withoutFiles := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, withoutFiles)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(result.RemovedPaths) != 0 {
		t.Errorf("nil files must not prune, got %v", result.RemovedPaths)
	}
	var attCount int64
	repo.DB.Model(&model.Attachment{}).Count(&attCount)
	if attCount != 1 {
		t.Errorf("attachment must survive, got %d rows", attCount)
	}

	// An explicit empty list prunes.
	empty := []reconcile.FileRef{}
	pruning := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst, Files: &empty},
	}
	result, err = repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, pruning)
	if err != nil {
		t.Fatalf("third save: %v", err)
	}
	if len(result.RemovedPaths) != 1 {
		t.Errorf("empty files list must prune, got %v", result.RemovedPaths)
	}
	repo.DB.Model(&model.Attachment{}).Count(&attCount)
	if attCount != 0 {
		t.Errorf("expected 0 attachments after prune, got %d", attCount)
	}
}

func TestSaveKeptAttachmentSurvivesResubmission(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	files := []reconcile.FileRef{
		{OriginalName: "paper.pdf", StoredName: "x_paper.pdf", StoredPath: "attachments/u1/x_paper.pdf", Size: 100, MimeType: "application/pdf"},
	}
	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst, Files: &files},
	}
	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("first save: %v", err)
	}

	var att model.Attachment
	if err := repo.DB.First(&att).Error; err != nil {
		t.Fatalf("load attachment: %v", err)
	}

	keep := []reconcile.FileRef{{ID: att.ID, IsExisting: true}}
	materials[0].Files = &keep
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(result.RemovedPaths) != 0 {
		t.Errorf("kept attachment must not be pruned, got %v", result.RemovedPaths)
	}
	var after model.Attachment
	if err := repo.DB.First(&after, "id = ?", att.ID).Error; err != nil {
		t.Errorf("kept attachment row must survive: %v", err)
	}
}

func TestSaveDuplicateMaterialKeyRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond},
	}

	_, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSaveUnknownLevelRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: "galactic", AwardGrade: constant.AwardGradeFirst},
	}

	_, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSaveItemOutsideCategoryRejected(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.medal.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}

	_, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for item outside category, got %v", err)
	}
}

func TestSaveApprovedApplicationIsLocked(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Application.Review(ctx, nil, result.ApplicationID, constant.ApplicationStatusApproved, "", cat.user.ID); err != nil {
		t.Fatalf("review: %v", err)
	}

	_, err = repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if !errors.Is(err, ErrApplicationLocked) {
		t.Fatalf("expected ErrApplicationLocked, got %v", err)
	}
}

func TestSaveAfterRejectionResetsReviewFields(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Application.Review(ctx, nil, result.ApplicationID, constant.ApplicationStatusRejected, "missing proof", cat.user.ID); err != nil {
		t.Fatalf("review: %v", err)
	}

	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	var app model.Application
	repo.DB.First(&app, "id = ?", result.ApplicationID)
	if app.Status != constant.ApplicationStatusPending {
		t.Errorf("status = %s, expected pending after resubmission", app.Status)
	}
	if app.ReviewComment != "" || app.ReviewerID != nil || app.ReviewedAt != nil {
		t.Errorf("review fields must be cleared, got %+v", app)
	}
}

func TestReviewRejectRequiresComment(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	err = repo.Application.Review(ctx, nil, result.ApplicationID, constant.ApplicationStatusRejected, "", cat.user.ID)
	if !errors.Is(err, ErrReviewCommentRequired) {
		t.Fatalf("expected ErrReviewCommentRequired, got %v", err)
	}

	// blank padding is not a comment either
	err = repo.Application.Review(ctx, nil, result.ApplicationID, constant.ApplicationStatusRejected, "  \t\n ", cat.user.ID)
	if !errors.Is(err, ErrReviewCommentRequired) {
		t.Fatalf("expected ErrReviewCommentRequired for whitespace comment, got %v", err)
	}

	var app model.Application
	if err := repo.DB.First(&app, "id = ?", result.ApplicationID).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if app.Status != constant.ApplicationStatusPending {
		t.Errorf("rejected review attempt must not change status, got %s", app.Status)
	}
}

func TestReviewApprovedIsTerminal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Application.Review(ctx, nil, result.ApplicationID, constant.ApplicationStatusApproved, "", cat.user.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	err = repo.Application.Review(ctx, nil, result.ApplicationID, constant.ApplicationStatusRejected, "changed my mind", cat.user.ID)
	if !errors.Is(err, ErrApplicationLocked) {
		t.Fatalf("expected ErrApplicationLocked, got %v", err)
	}
}

func TestGetDetailBreakdownMatchesStoredTotal(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
		{CategoryID: cat.sports.ID, ItemID: cat.medal.ID, AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	detail, err := repo.Application.GetDetail(ctx, nil, result.ApplicationID, cat.user.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}

	if detail.Total != result.TotalScore {
		t.Errorf("detail total %s disagrees with stored %s", detail.Total, result.TotalScore)
	}
	if len(detail.CategoryScores) != 2 {
		t.Fatalf("expected 2 category scores, got %d", len(detail.CategoryScores))
	}

	var sum awarding.Score
	for _, cs := range detail.CategoryScores {
		sum += cs.Contribution
	}
	if sum != detail.Total {
		t.Errorf("contributions sum to %s, total says %s", sum, detail.Total)
	}
}

func TestGetDetailOtherUsersApplicationHidden(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = repo.Application.GetDetail(ctx, nil, result.ApplicationID, "someone-else")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestRankBatchOrdersByScoreThenReviewTime(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	second := model.User{Username: "student2", RealName: "Student Two", Role: constant.UserRoleStudent}
	if err := repo.User.Create(ctx, nil, &second, "password123"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	third := model.User{Username: "student3", RealName: "Student Three", Role: constant.UserRoleStudent}
	if err := repo.User.Create(ctx, nil, &third, "password123"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// user: paper at national/first -> 48.00
	// second: medal at provincial/second -> 12.00
	// third: same as second -> 12.00, reviewed later
	save := func(userId string, in []reconcile.MaterialInput) string {
		t.Helper()
		res, err := repo.Application.Save(ctx, nil, userId, cat.batch.ID, in)
		if err != nil {
			t.Fatalf("save for %s: %v", userId, err)
		}
		if err := repo.Application.Review(ctx, nil, res.ApplicationID, constant.ApplicationStatusApproved, "", cat.user.ID); err != nil {
			t.Fatalf("approve for %s: %v", userId, err)
		}
		return res.ApplicationID
	}

	paper := []reconcile.MaterialInput{{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst}}
	medal := []reconcile.MaterialInput{{CategoryID: cat.sports.ID, ItemID: cat.medal.ID, AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond}}

	topId := save(cat.user.ID, paper)
	earlyId := save(second.ID, medal)
	lateId := save(third.ID, medal)

	// Force distinct review times for the tie.
	base := time.Now().Add(-time.Hour)
	repo.DB.Model(&model.Application{}).Where("id = ?", earlyId).Update("reviewed_at", base)
	repo.DB.Model(&model.Application{}).Where("id = ?", lateId).Update("reviewed_at", base.Add(time.Minute))

	ranked, err := repo.Application.RankBatch(ctx, nil, cat.batch.ID)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}

	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked applications, got %d", len(ranked))
	}
	if ranked[0].ApplicationID != topId {
		t.Errorf("highest score must rank first")
	}
	if ranked[1].ApplicationID != earlyId || ranked[2].ApplicationID != lateId {
		t.Errorf("tie must break by earlier review: got %s then %s", ranked[1].ApplicationID, ranked[2].ApplicationID)
	}
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("rank %d carries Rank=%d", i+1, r.Rank)
		}
	}

	// Ranking totals recompute through the aggregator; they must agree with
	// what save persisted.
	var topApp model.Application
	repo.DB.First(&topApp, "id = ?", topId)
	if ranked[0].TotalScore != topApp.TotalScore {
		t.Errorf("ranking total %s disagrees with stored %s", ranked[0].TotalScore, topApp.TotalScore)
	}
}

func TestRankBatchOnlyApprovedApplications(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("save: %v", err)
	}

	ranked, err := repo.Application.RankBatch(ctx, nil, cat.batch.ID)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("pending applications must not rank, got %d", len(ranked))
	}
}

func TestDeleteApplicationReturnsAttachmentPaths(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	files := []reconcile.FileRef{
		{OriginalName: "paper.pdf", StoredName: "x_paper.pdf", StoredPath: "attachments/u1/x_paper.pdf", Size: 100, MimeType: "application/pdf"},
	}
	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst, Files: &files},
	}
	result, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	paths, err := repo.Application.Delete(ctx, nil, result.ApplicationID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(paths) != 1 || paths[0] != "attachments/u1/x_paper.pdf" {
		t.Errorf("expected the attachment path, got %v", paths)
	}

	var appCount, entryCount, attCount int64
	repo.DB.Model(&model.Application{}).Count(&appCount)
	repo.DB.Model(&model.MaterialEntry{}).Count(&entryCount)
	repo.DB.Model(&model.Attachment{}).Count(&attCount)
	if appCount != 0 || entryCount != 0 || attCount != 0 {
		t.Errorf("expected everything gone, got %d/%d/%d", appCount, entryCount, attCount)
	}
}

func TestCategoryDeleteGuardedByMaterialReferences(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("save: %v", err)
	}

	err := repo.Category.Delete(ctx, nil, cat.academic.ID)
	if !errors.Is(err, ErrReferencedByMaterials) {
		t.Fatalf("expected ErrReferencedByMaterials, got %v", err)
	}

	err = repo.Category.DeleteItem(ctx, nil, cat.paper.ID)
	if !errors.Is(err, ErrReferencedByMaterials) {
		t.Fatalf("expected ErrReferencedByMaterials for item, got %v", err)
	}

	// The untouched category still deletes cleanly.
	if err := repo.Category.Delete(ctx, nil, cat.sports.ID); err != nil {
		t.Fatalf("unreferenced category delete: %v", err)
	}
}

func TestBatchDeleteGuardedByApplications(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("save: %v", err)
	}

	err := repo.Batch.Delete(ctx, nil, cat.batch.ID)
	if !errors.Is(err, ErrBatchHasApplications) {
		t.Fatalf("expected ErrBatchHasApplications, got %v", err)
	}
}

func TestUpdateRubricScoreUnknownCell(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	err := repo.Category.UpdateRubricScore(ctx, nil, cat.paper.ID, "galactic", constant.AwardGradeFirst, 50)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for unknown cell, got %v", err)
	}
}

func TestCreateReadsBackTimestamps(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := model.User{Username: "student1", RealName: "Student One", Role: constant.UserRoleStudent}
	if err := repo.User.Create(ctx, nil, &user, "password123"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	var loaded model.User
	if err := repo.DB.First(&loaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if loaded.CreatedAt == nil || loaded.UpdatedAt == nil {
		t.Fatalf("created/updated timestamps must survive a readback, got %v/%v", loaded.CreatedAt, loaded.UpdatedAt)
	}
	if time.Since(*loaded.CreatedAt) > time.Minute {
		t.Errorf("createdAt = %s, expected roughly now", loaded.CreatedAt)
	}
}

func TestGetStudentStatsCountsSubmissions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	cat := seedCatalog(t, repo)

	idle := model.User{Username: "student2", RealName: "Student Two", Class: "B", Role: constant.UserRoleStudent}
	if err := repo.User.Create(ctx, nil, &idle, "password123"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	admin := model.User{Username: "admin1", RealName: "Admin", Role: constant.UserRoleAdmin}
	if err := repo.User.Create(ctx, nil, &admin, "password123"); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	materials := []reconcile.MaterialInput{
		{CategoryID: cat.academic.ID, ItemID: cat.paper.ID, AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}
	if _, err := repo.Application.Save(ctx, nil, cat.user.ID, cat.batch.ID, materials); err != nil {
		t.Fatalf("save: %v", err)
	}

	stats, err := repo.Application.GetStudentStats(ctx, nil, cat.batch.ID, "")
	if err != nil {
		t.Fatalf("student stats: %v", err)
	}

	if stats.TotalStudents != 2 {
		t.Fatalf("total students = %d, expected 2 (admins excluded)", stats.TotalStudents)
	}
	if stats.SubmittedStudents != 1 || stats.NotSubmittedStudents != 1 {
		t.Errorf("submitted/not = %d/%d, expected 1/1", stats.SubmittedStudents, stats.NotSubmittedStudents)
	}

	byUser := make(map[string]StudentStatsRow, len(stats.Students))
	for _, row := range stats.Students {
		byUser[row.UserID] = row
	}

	applied := byUser[cat.user.ID]
	if !applied.Submitted {
		t.Errorf("student with an application must be marked submitted")
	}
	if applied.TotalScore == nil || *applied.TotalScore != awarding.Score(4800) {
		t.Errorf("total score = %v, expected 48.00", applied.TotalScore)
	}
	if applied.Status == nil || *applied.Status != constant.ApplicationStatusPending {
		t.Errorf("status = %v, expected pending", applied.Status)
	}
	if applied.BatchName == nil || *applied.BatchName != cat.batch.Name {
		t.Errorf("batch name = %v, expected %q", applied.BatchName, cat.batch.Name)
	}

	missing := byUser[idle.ID]
	if missing.Submitted || missing.Status != nil || missing.TotalScore != nil {
		t.Errorf("student without an application must have empty submission columns, got %+v", missing)
	}
}

func TestGetStudentStatsClassFilter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	seedCatalog(t, repo)

	other := model.User{Username: "student2", RealName: "Student Two", Class: "B", Role: constant.UserRoleStudent}
	if err := repo.User.Create(ctx, nil, &other, "password123"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	stats, err := repo.Application.GetStudentStats(ctx, nil, "", "B")
	if err != nil {
		t.Fatalf("student stats: %v", err)
	}
	if stats.TotalStudents != 1 {
		t.Fatalf("total students = %d, expected only class B", stats.TotalStudents)
	}
	if stats.Students[0].UserID != other.ID {
		t.Errorf("row user = %s, expected %s", stats.Students[0].UserID, other.ID)
	}
	if cs := stats.ByClass["B"]; cs == nil || cs.Total != 1 || cs.NotSubmitted != 1 {
		t.Errorf("byClass[B] = %+v, expected total 1 not submitted 1", cs)
	}
}
