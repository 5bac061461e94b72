package repository

import (
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by exact username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameFold finds a user by username ignoring case
func (r *GormUserRepository) FindByUsernameFold(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByShortCode finds a user by short code
func (r *GormUserRepository) FindByShortCode(code string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("short_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists reports whether any case variant of username is taken
func (r *GormUserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	return count > 0, err
}

// ShortCodeExists reports whether a short code is already issued
func (r *GormUserRepository) ShortCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("short_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
