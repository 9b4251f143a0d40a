package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/api/repository"
	"ctchen222/movie-catalog/internal/auth"
	"ctchen222/movie-catalog/internal/validator"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PasswordHasher hashes passwords one way and checks candidates against a hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenSigner issues and verifies signed identity tokens.
type TokenSigner interface {
	Issue(username string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// AuthService defines registration, login and token verification.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	IssueToken(ctx context.Context, username string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	signer TokenSigner

	registrations metric.Int64Counter
	logins        metric.Int64Counter
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, signer TokenSigner) AuthService {
	meter := otel.Meter("service.auth")
	registrations, err := meter.Int64Counter("auth.registrations", metric.WithDescription("User registrations by outcome"))
	if err != nil {
		slog.Warn("failed to create registrations counter", "error", err)
	}
	logins, err := meter.Int64Counter("auth.logins", metric.WithDescription("Login attempts by outcome"))
	if err != nil {
		slog.Warn("failed to create logins counter", "error", err)
	}

	return &authService{
		users:         users,
		hasher:        hasher,
		signer:        signer,
		registrations: registrations,
		logins:        logins,
	}
}

// Register validates the request, rejects taken usernames and stores the user
// with a hashed password.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user, err := s.register(ctx, req)
	s.count(ctx, s.registrations, err)
	return user, err
}

func (s *authService) register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	birthday, err := validateProfile(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Username: req.Username}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Birthday:     birthday,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, &ConflictError{Username: req.Username}
		}
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user.name", user.Username)
	return user, nil
}

// Login checks the credentials and issues a token on success.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, token, err := s.login(ctx, req)
	s.count(ctx, s.logins, err)
	return user, token, err
}

func (s *authService) login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			slog.InfoContext(ctx, "login rejected", "user.name", req.Username)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	token, _, err := s.signer.Issue(user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken returns the username a valid token was issued for.
func (s *authService) VerifyToken(ctx context.Context, token string) (string, error) {
	username, err := s.signer.Verify(token)
	if err != nil {
		slog.DebugContext(ctx, "token rejected", "error", err)
		return "", ErrInvalidToken
	}
	return username, nil
}

// IssueToken signs a new token for username, e.g. after a rename.
func (s *authService) IssueToken(ctx context.Context, username string) (string, error) {
	token, _, err := s.signer.Issue(username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	slog.DebugContext(ctx, "token issued", "user.name", username)
	return token, nil
}

func (s *authService) count(ctx context.Context, counter metric.Int64Counter, err error) {
	if counter == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		outcome = "invalid_credentials"
	case errors.Is(err, ErrConflict):
		outcome = "conflict"
	case errors.As(err, new(*ValidationError)):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// validateProfile applies the registration rules and parses the birthday.
func validateProfile(req *models.RegisterRequest) (*time.Time, error) {
	violations := validator.Check(
		validator.Rule{Field: "Username", Value: req.Username, Tag: "min=5",
			Message: "Username with a minimum length of 5 characters is required"},
		validator.Rule{Field: "Username", Value: req.Username, Tag: "alphanum",
			Message: "Username contains non alphanumeric characters - not allowed."},
		validator.Rule{Field: "Password", Value: req.Password, Tag: "required",
			Message: "Password is required"},
		validator.Rule{Field: "Email", Value: req.Email, Tag: "email",
			Message: "Email does not appear to be valid"},
		validator.Rule{Field: "Birthday", Value: req.Birthday, Tag: "omitempty,birthday",
			Message: "Birthday must be a valid date"},
	)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	birthday, err := models.ParseBirthday(req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("unexpected birthday parse failure: %w", err)
	}
	return birthday, nil
}
