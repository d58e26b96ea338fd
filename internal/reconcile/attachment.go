package reconcile

import "github.com/Vathanak-H/ScholarAward/internal/model"

// FileRef is one attachment reference in a submission. A ref carrying a
// persisted id (or the explicit isExisting marker) points at a row that must
// survive; anything else is freshly staged metadata from the upload endpoint.
type FileRef struct {
	ID         string `json:"id"`
	IsExisting bool   `json:"isExisting"`

	OriginalName string `json:"originalName"`
	StoredName   string `json:"storedName"`
	StoredPath   string `json:"storedPath"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

func (f FileRef) existing() bool {
	return f.IsExisting || f.ID != ""
}

type AttachmentPlan struct {
	Inserts []model.Attachment
	Keeps   []model.Attachment
	Deletes []model.Attachment
}

// Attachments diffs the persisted attachment rows of one material against
// the refs submitted for it. Existing rows referenced by id are kept
// untouched, new refs become metadata rows, and everything unreferenced is
// pruned, including all of them when incoming is empty. Callers must not
// invoke this at all when the submission omitted the files field. Refs
// marked existing but pointing at no persisted row are dropped rather than
// re-inserted; the bytes they referenced are gone.
func Attachments(materialEntryID string, existing []model.Attachment, incoming []FileRef) AttachmentPlan {
	keepIDs := make(map[string]bool, len(incoming))

	var plan AttachmentPlan
	for _, ref := range incoming {
		if ref.existing() {
			if ref.ID != "" {
				keepIDs[ref.ID] = true
			}
			continue
		}

		plan.Inserts = append(plan.Inserts, model.Attachment{
			MaterialEntryID: materialEntryID,
			OriginalName:    ref.OriginalName,
			StoredName:      ref.StoredName,
			StoredPath:      ref.StoredPath,
			Size:            ref.Size,
			MimeType:        ref.MimeType,
		})
	}

	for _, att := range existing {
		if keepIDs[att.ID] {
			plan.Keeps = append(plan.Keeps, att)
		} else {
			plan.Deletes = append(plan.Deletes, att)
		}
	}

	return plan
}
