package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/store"
)

// UserService covers account management after registration: profile
// lookup, credential changes, and account deletion. Registration and
// login live in the auth handler.
type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateEmail(ctx context.Context, userID uuid.UUID, newEmail string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a UserService backed by the given store.
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) UserService {
	return &userService{
		userStore: userStore,
		db:        db,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to load user", "error", err, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateEmail loads the account inside a transaction so the store's
// uniqueness check and the write see the same row.
func (s *userService) UpdateEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user for email change: %w", err)
		}

		user.Email = newEmail
		if err := txStore.Update(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				s.logger.Debug("email change collided with existing account",
					"user_id", userID)
			} else {
				s.logger.Error("failed to change email", "error", err, "user_id", userID)
			}
			return fmt.Errorf("failed to change email: %w", err)
		}

		s.logger.Info("email changed", "user_id", userID)
		return nil
	})
}

// UpdatePassword sets a new plaintext password on the loaded account;
// the store hashes it during Update.
func (s *userService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user for password change: %w", err)
		}

		user.Password = newPassword
		if err := txStore.Update(ctx, user); err != nil {
			s.logger.Error("failed to change password", "error", err, "user_id", userID)
			return fmt.Errorf("failed to change password: %w", err)
		}

		s.logger.Info("password changed", "user_id", userID)
		return nil
	})
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Delete(ctx, userID); err != nil {
			if !errors.Is(err, store.ErrUserNotFound) {
				s.logger.Error("failed to delete user", "error", err, "user_id", userID)
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		s.logger.Info("account deleted", "user_id", userID)
		return nil
	})
}
