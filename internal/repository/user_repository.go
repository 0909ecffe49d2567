package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homecare-app-server/internal/models"
)

// FindUser returns nil, nil when the id is unknown.
func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error
	if missing, err := notFound(err); missing || err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail returns nil, nil when no account uses email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, "email = ?", email).Error
	if missing, err := notFound(err); missing || err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and its role assignments. A taken email
// yields models.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrEmailTaken
	}
	return err
}

// ListUsersByRole returns the users holding role, ordered by name.
func (s *Store) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Roles").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role = ?", role).
		Order("users.full_name ASC").
		Find(&users).Error
	return users, err
}

func (s *Store) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

// FindActiveRefreshToken returns the stored token when it is neither revoked nor expired.
func (s *Store) FindActiveRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?", token, userID, false, time.Now()).
		First(&stored).Error
	if missing, err := notFound(err); missing || err != nil {
		return nil, err
	}
	return &stored, nil
}

// RevokeRefreshToken marks token revoked. Unknown or already revoked tokens are ignored.
func (s *Store) RevokeRefreshToken(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Updates(map[string]interface{}{"is_revoked": true, "expires_at": time.Now()}).Error
}

// SaveUser writes the user's own columns; roles are left untouched.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}
