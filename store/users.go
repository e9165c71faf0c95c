package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/lexora/lexora-server/internal/errors"
	"github.com/lexora/lexora-server/users"
	"gorm.io/gorm"
)

// UserStore implements users.UserRepo.
type UserStore struct {
	db *gorm.DB
}

var _ users.UserRepo = (*UserStore)(nil)

func toUserModel(u *users.User) *userModel {
	m := &userModel{
		ID:         u.ID,
		ProviderID: u.ProviderID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role.String(),
		Picture:    u.Picture,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if !u.LastLoginAt.IsZero() {
		lastLogin := u.LastLoginAt
		m.LastLoginAt = &lastLogin
	}
	return m
}

func (m *userModel) toUser() *users.User {
	u := &users.User{
		ID:         m.ID,
		ProviderID: m.ProviderID,
		Email:      m.Email,
		Name:       m.Name,
		Role:       users.RoleType(m.Role),
		Picture:    m.Picture,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.LastLoginAt != nil {
		u.LastLoginAt = *m.LastLoginAt
	}
	return u
}

func (s *UserStore) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	err := s.db.WithContext(ctx).Create(toUserModel(user)).Error
	if isDuplicate(err) {
		return apperrors.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("[Store Create] user: %w", err)
	}
	return nil
}

func (s *UserStore) Update(ctx context.Context, user *users.User) error {
	m := toUserModel(user)
	result := s.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", user.ID).
		Select("email", "name", "role", "picture", "updated_at", "last_login_at").
		Updates(m)
	if result.Error != nil {
		return fmt.Errorf("[Store Update] user %s: %w", user.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*users.User, error) {
	return s.firstUser(ctx, "id = ?", id)
}

func (s *UserStore) GetByProviderID(ctx context.Context, providerID string) (*users.User, error) {
	return s.firstUser(ctx, "provider_id = ?", providerID)
}

func (s *UserStore) firstUser(ctx context.Context, query string, arg string) (*users.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if isNotFound(err) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[Store firstUser] %w", err)
	}
	return m.toUser(), nil
}

func (s *UserStore) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	q := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []userModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("[Store List] users: %w", err)
	}
	userList := make([]*users.User, 0, len(models))
	for i := range models {
		userList = append(userList, models[i].toUser())
	}
	return userList, nil
}

func (s *UserStore) SetRole(ctx context.Context, id string, role users.RoleType) error {
	result := s.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role.String(), "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("[Store SetRole] user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
