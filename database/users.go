package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CreateUser persists a new user. Returns ErrDuplicateUsername when the
// username is already taken.
func (s *DataService) CreateUser(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *DataService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (s *DataService) GetUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// UpdateUserPassword replaces the stored password hash for the given user.
func (s *DataService) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("update user password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
