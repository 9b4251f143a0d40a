package service

import (
	"errors"
	"fmt"
	"strings"

	"ctchen222/movie-catalog/internal/validator"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("not allowed to access another user's data")
)

// ValidationError lists every rule a request failed.
type ValidationError struct {
	Violations []validator.Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s was not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a username that is already taken. It matches ErrConflict.
type ConflictError struct {
	Username string
}

func (e *ConflictError) Error() string {
	return e.Username + " already exists"
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
