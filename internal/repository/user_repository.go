package repository

import (
	"errors"

	"github.com/halcyonchat/halcyon-backend/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) ListAll(excludeID string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id <> ?", excludeID).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Search(query string, excludeID string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.Where("id <> ? AND (LOWER(username) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?))",
		excludeID, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateAvatar(userID string, avatar string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar", avatar).Error
}
