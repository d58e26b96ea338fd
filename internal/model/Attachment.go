package model

import (
	"context"
	"errors"
	"time"

	"github.com/minio/minio-go/v7"
)

// Attachment is the metadata row for one staged evidence file. The bytes
// live in object storage and are written before the save transaction runs;
// rows here are only ever kept, inserted or deleted, never re-uploaded.
type Attachment struct {
	BaseModel
	MaterialEntryID string `gorm:"type:text;not null;index" json:"materialEntryId"`
	OriginalName    string `gorm:"type:text;not null" json:"originalName"`
	StoredName      string `gorm:"type:text;not null" json:"storedName"`
	StoredPath      string `gorm:"type:text;not null;uniqueIndex" json:"storedPath"`
	Size            int64  `gorm:"type:bigint;not null" json:"size"`
	MimeType        string `gorm:"type:varchar(100);not null" json:"mimeType"`
}

func (a Attachment) TableName() string {
	return "attachments"
}

func (a Attachment) ToPresignedUrl(ctx context.Context, s3 *minio.Client, bucket string) (string, error) {
	if bucket == "" || a.StoredPath == "" {
		return "", errors.New("bucket name and stored path cannot be empty")
	}

	presignedURL, err := s3.PresignedGetObject(
		ctx,
		bucket,
		a.StoredPath,
		// 60min expiration time
		time.Minute*60,
		nil,
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
