// Package reconcile diffs a submitted application payload against the rows
// already persisted for it. It decides inserts, in-place updates and prunes
// for materials and their attachments without touching the store itself; the
// repository applies the resulting plans inside one transaction.
package reconcile

import (
	"fmt"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
)

// MaterialKey is the natural key of a material within one application.
type MaterialKey struct {
	CategoryID string
	ItemID     string
}

// DuplicateMaterialError reports an incoming list that declares the same
// (category, item) twice. This is a caller contract violation, never merged
// silently.
type DuplicateMaterialError struct {
	Key MaterialKey
}

func (e *DuplicateMaterialError) Error() string {
	return fmt.Sprintf("material for category %s item %s declared more than once", e.Key.CategoryID, e.Key.ItemID)
}

// MaterialInput is one declared award in a submission payload. Files is a
// pointer on purpose: nil means the caller said nothing about attachments
// (leave them untouched), an empty slice means prune them all.
type MaterialInput struct {
	CategoryID string              `json:"categoryId" binding:"required"`
	ItemID     string              `json:"itemId" binding:"required"`
	AwardLevel constant.AwardLevel `json:"awardLevel" binding:"required"`
	AwardGrade constant.AwardGrade `json:"awardGrade" binding:"required"`
	AwardType  constant.AwardType  `json:"awardType"`
	Files      *[]FileRef          `json:"files"`
}

func (in MaterialInput) Key() MaterialKey {
	return MaterialKey{CategoryID: in.CategoryID, ItemID: in.ItemID}
}

// MaterialChange pairs the entry to write with the attachment refs submitted
// for it. Entry.Score is zero here; the repository resolves it from the
// rubric before persisting.
type MaterialChange struct {
	Entry model.MaterialEntry
	Files *[]FileRef
}

type MaterialPlan struct {
	Inserts []MaterialChange
	Updates []MaterialChange
	Deletes []model.MaterialEntry
}

// Materials computes the upsert-and-prune diff between the materials already
// persisted for an application and an incoming submission. Incoming entries
// whose key matches an existing row become updates carrying the existing id;
// unmatched incoming entries become inserts; existing rows whose key is
// absent from the submission are deleted. Plan order follows input order, so
// the diff is deterministic.
func Materials(applicationID string, existing []model.MaterialEntry, incoming []MaterialInput) (MaterialPlan, error) {
	existingByKey := make(map[MaterialKey]model.MaterialEntry, len(existing))
	for _, entry := range existing {
		existingByKey[MaterialKey{CategoryID: entry.CategoryID, ItemID: entry.ItemID}] = entry
	}

	var plan MaterialPlan
	seen := make(map[MaterialKey]bool, len(incoming))
	for _, in := range incoming {
		key := in.Key()
		if seen[key] {
			return MaterialPlan{}, &DuplicateMaterialError{Key: key}
		}
		seen[key] = true

		entry := model.MaterialEntry{
			ApplicationID: applicationID,
			CategoryID:    in.CategoryID,
			ItemID:        in.ItemID,
			AwardLevel:    in.AwardLevel,
			AwardGrade:    in.AwardGrade,
			AwardType:     in.AwardType,
		}
		if entry.AwardType == "" {
			entry.AwardType = constant.AwardTypeIndividual
		}

		if prev, ok := existingByKey[key]; ok {
			entry.BaseModel = prev.BaseModel
			plan.Updates = append(plan.Updates, MaterialChange{Entry: entry, Files: in.Files})
		} else {
			plan.Inserts = append(plan.Inserts, MaterialChange{Entry: entry, Files: in.Files})
		}
	}

	for _, entry := range existing {
		if !seen[MaterialKey{CategoryID: entry.CategoryID, ItemID: entry.ItemID}] {
			plan.Deletes = append(plan.Deletes, entry)
		}
	}

	return plan, nil
}
