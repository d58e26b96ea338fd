package reconcile

import (
	"errors"
	"testing"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
)

func existingEntry(id, categoryId, itemId string) model.MaterialEntry {
	entry := model.MaterialEntry{
		ApplicationID: "app-1",
		CategoryID:    categoryId,
		ItemID:        itemId,
		AwardLevel:    constant.AwardLevelNational,
		AwardGrade:    constant.AwardGradeFirst,
		AwardType:     constant.AwardTypeIndividual,
	}
	entry.ID = id
	return entry
}

func TestMaterialsClassifiesInsertsUpdatesDeletes(t *testing.T) {
	existing := []model.MaterialEntry{
		existingEntry("m1", "cat-a", "item-1"),
		existingEntry("m2", "cat-a", "item-2"),
	}
	incoming := []MaterialInput{
		{CategoryID: "cat-a", ItemID: "item-1", AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond},
		{CategoryID: "cat-b", ItemID: "item-9", AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}

	plan, err := Materials("app-1", existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.Updates))
	}
	update := plan.Updates[0].Entry
	if update.ID != "m1" {
		t.Errorf("update must carry the persisted id, got %q", update.ID)
	}
	if update.AwardLevel != constant.AwardLevelProvincial || update.AwardGrade != constant.AwardGradeSecond {
		t.Errorf("update must carry the submitted award, got %s/%s", update.AwardLevel, update.AwardGrade)
	}

	if len(plan.Inserts) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(plan.Inserts))
	}
	if plan.Inserts[0].Entry.ID != "" {
		t.Errorf("insert must not carry an id, got %q", plan.Inserts[0].Entry.ID)
	}
	if plan.Inserts[0].Entry.ApplicationID != "app-1" {
		t.Errorf("insert must belong to the application, got %q", plan.Inserts[0].Entry.ApplicationID)
	}

	if len(plan.Deletes) != 1 {
		t.Fatalf("expected 1 delete, got %d", len(plan.Deletes))
	}
	if plan.Deletes[0].ID != "m2" {
		t.Errorf("expected m2 to be pruned, got %q", plan.Deletes[0].ID)
	}
}

func TestMaterialsIdempotentResubmission(t *testing.T) {
	existing := []model.MaterialEntry{
		existingEntry("m1", "cat-a", "item-1"),
	}
	incoming := []MaterialInput{
		{CategoryID: "cat-a", ItemID: "item-1", AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}

	plan, err := Materials("app-1", existing, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Inserts) != 0 || len(plan.Deletes) != 0 {
		t.Errorf("resubmitting the same materials must not insert or delete, got %d/%d", len(plan.Inserts), len(plan.Deletes))
	}
	if len(plan.Updates) != 1 || plan.Updates[0].Entry.ID != "m1" {
		t.Errorf("resubmission must update the same row in place")
	}
}

func TestMaterialsRejectsDuplicateKeys(t *testing.T) {
	incoming := []MaterialInput{
		{CategoryID: "cat-a", ItemID: "item-1", AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
		{CategoryID: "cat-a", ItemID: "item-1", AwardLevel: constant.AwardLevelProvincial, AwardGrade: constant.AwardGradeSecond},
	}

	_, err := Materials("app-1", nil, incoming)
	var dup *DuplicateMaterialError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateMaterialError, got %v", err)
	}
	if dup.Key.CategoryID != "cat-a" || dup.Key.ItemID != "item-1" {
		t.Errorf("wrong duplicate key: %+v", dup.Key)
	}
}

func TestMaterialsDefaultsAwardTypeToIndividual(t *testing.T) {
	incoming := []MaterialInput{
		{CategoryID: "cat-a", ItemID: "item-1", AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}

	plan, err := Materials("app-1", nil, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Inserts[0].Entry.AwardType != constant.AwardTypeIndividual {
		t.Errorf("expected individual, got %s", plan.Inserts[0].Entry.AwardType)
	}
}

func TestMaterialsCarriesFilesPointer(t *testing.T) {
	files := []FileRef{{OriginalName: "proof.pdf", StoredPath: "attachments/u1/x_proof.pdf"}}
	incoming := []MaterialInput{
		{CategoryID: "cat-a", ItemID: "item-1", AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst, Files: &files},
		{CategoryID: "cat-a", ItemID: "item-2", AwardLevel: constant.AwardLevelNational, AwardGrade: constant.AwardGradeFirst},
	}

	plan, err := Materials("app-1", nil, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Inserts[0].Files == nil || len(*plan.Inserts[0].Files) != 1 {
		t.Errorf("files slice must travel with its material")
	}
	if plan.Inserts[1].Files != nil {
		t.Errorf("omitted files field must stay nil")
	}
}
