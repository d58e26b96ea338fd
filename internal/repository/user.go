package repository

import (
	"context"

	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"gorm.io/gorm"
)

type UserRepository struct {
	*baseRepository
}

func (ur UserRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.User, error) {
	ur.logger.Debugf("Get user by id: %s \n", id)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var user model.User
	if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (ur UserRepository) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*model.User, error) {
	ur.logger.Debugf("Get user by username: %s \n", username)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var user model.User
	if err := db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Create hashes the given plaintext password before the row is written.
func (ur *UserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User, password string) error {
	ur.logger.Debugf("Create user: %s \n", user.Username)

	if user.Username == "" {
		return &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if user.Role == "" {
		user.Role = constant.UserRoleStudent
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.User{}).Create(user).Error
}

func (ur UserRepository) List(ctx context.Context, tx *gorm.DB, role constant.UserRole, page, pageSize int) ([]model.User, int64, error) {
	ur.logger.Debugf("List users role: %q page: %d pageSize: %d \n", role, page, pageSize)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constant.DefaultPageSize
	}

	query := db.WithContext(ctx).Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateProfile writes the mutable profile fields only. Username, role and
// password are managed by their own operations.
func (ur *UserRepository) UpdateProfile(ctx context.Context, tx *gorm.DB, user *model.User) error {
	ur.logger.Debugf("Update user profile: %s \n", user.ID)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Select("email", "real_name", "student_id", "class", "major").
		Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, tx *gorm.DB, id, password string) error {
	ur.logger.Debugf("Update password for user: %s \n", id)

	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (ur *UserRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	ur.logger.Debugf("Delete user: %s \n", id)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
