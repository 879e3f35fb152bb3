// Package users manages user accounts: manager-only CRUD with bcrypt
// password hashing and the trash/restore/purge lifecycle.
package users

import (
	"context"
	"errors"
	"strings"

	"salescrm/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("users: user not found")
	ErrEmailTaken  = errors.New("users: email already registered")
	ErrUnknownRole = errors.New("users: unknown role")
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// Create registers a user with a hashed password and the named role.
func (s *Service) Create(ctx context.Context, name, email, password, roleName string) (*models.User, error) {
	var role models.Role
	if err := s.DB.WithContext(ctx).Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownRole
		}
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hash),
		RoleID:   role.ID,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	user.Role = role
	return &user, nil
}

// Update edits name/email and, when password is non-empty, rehashes it.
func (s *Service) Update(ctx context.Context, id uint, name, email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Name = name
	user.Email = strings.ToLower(strings.TrimSpace(email))
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies email+password and returns the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Preload("Role").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrNotFound
	}
	return &user, nil
}

// List returns active users excluding the requester, with roles preloaded.
func (s *Service) List(ctx context.Context, excludeID uint) ([]models.User, error) {
	var out []models.User
	err := s.DB.WithContext(ctx).Preload("Role").
		Where("id <> ?", excludeID).
		Order("created_at desc").Find(&out).Error
	return out, err
}

// Get returns one active user.
func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Exists reports whether the user id refers to an active user. Used as the
// session verifier at bootstrap.
func (s *Service) Exists(ctx context.Context, id uint) bool {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// SoftDelete tombstones users.
func (s *Service) SoftDelete(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&models.User{}).Error
}

// ListTrashed returns soft-deleted users.
func (s *Service) ListTrashed(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.DB.WithContext(ctx).Unscoped().Preload("Role").
		Where("users.deleted_at IS NOT NULL").
		Order("users.deleted_at desc").Find(&out).Error
	return out, err
}

// Restore clears the tombstone on a trashed user.
func (s *Service) Restore(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Unscoped().Model(&models.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Purge permanently removes trashed users.
func (s *Service) Purge(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Unscoped().
		Where("id IN ? AND deleted_at IS NOT NULL", ids).
		Delete(&models.User{}).Error
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(strings.ToLower(err.Error()), "unique") ||
		strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
