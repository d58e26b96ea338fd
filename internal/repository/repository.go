package repository

import (
	"github.com/Vathanak-H/ScholarAward/internal/cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db          *gorm.DB
	logger      *zap.SugaredLogger
	rubricCache *cache.RubricCache
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// tx := r.DB.Begin()
	// defer tx.Commit()
	// Then pass tx to the repository function. and use tx.Rollback() if error occurred
	DB           *gorm.DB
	User         *UserRepository
	Batch        *BatchRepository
	Category     *CategoryRepository
	Application  *ApplicationRepository
	Attachment   *AttachmentRepository
	Announcement *AnnouncementRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger, rubricCache *cache.RubricCache) *baseRepository {
	return &baseRepository{db: db, logger: logger, rubricCache: rubricCache}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger, rubricCache *cache.RubricCache) *Repository {
	br := newBaseRepository(db, logger, rubricCache)
	_categoryRepo := &CategoryRepository{baseRepository: br}

	return &Repository{
		DB:           db,
		User:         &UserRepository{baseRepository: br},
		Batch:        &BatchRepository{baseRepository: br},
		Category:     _categoryRepo,
		Application:  &ApplicationRepository{baseRepository: br, category: _categoryRepo},
		Attachment:   &AttachmentRepository{baseRepository: br},
		Announcement: &AnnouncementRepository{baseRepository: br},
	}
}

func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx transaction rolled back: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}
