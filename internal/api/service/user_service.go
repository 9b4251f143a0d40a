package service

import (
	"context"
	"errors"
	"log/slog"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/api/repository"
)

// UserService defines profile and favorites operations on existing users.
type UserService interface {
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, req *models.RegisterRequest) (*models.User, error)
	Delete(ctx context.Context, username string) error
	AddFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{users: users, hasher: hasher}
}

func (s *userService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(username)
	}
	return user, nil
}

// Update replaces the user's profile with the same rules as registration. The
// username may change as long as the new one is free.
func (s *userService) Update(ctx context.Context, username string, req *models.RegisterRequest) (*models.User, error) {
	birthday, err := validateProfile(req)
	if err != nil {
		return nil, err
	}

	if req.Username != username {
		existing, err := s.users.GetByUsername(ctx, req.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, &ConflictError{Username: req.Username}
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, username, models.UserUpdate{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Birthday:     birthday,
	})
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, &ConflictError{Username: req.Username}
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(username)
	}

	slog.InfoContext(ctx, "user updated", "user.name", username, "user.new_name", user.Username)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	deleted, err := s.users.Delete(ctx, username)
	if err != nil {
		return err
	}
	if !deleted {
		return userNotFound(username)
	}
	slog.InfoContext(ctx, "user deleted", "user.name", username)
	return nil
}

// AddFavorite adds movieID to the user's favorites. Adding it again is a no-op.
func (s *userService) AddFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	user, err := s.users.AddFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(username)
	}
	return user, nil
}

// RemoveFavorite drops movieID from the user's favorites. Removing an id that
// is not a favorite succeeds without changes.
func (s *userService) RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	user, err := s.users.RemoveFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(username)
	}
	return user, nil
}

func userNotFound(username string) error {
	return &NotFoundError{Resource: "User with the Username", Key: username}
}
