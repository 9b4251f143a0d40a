package repository

import (
	"context"
	"errors"

	"ctchen222/movie-catalog/internal/api/models"

	"go.opentelemetry.io/otel"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

var tracer = otel.Tracer("repository.catalog")

// ErrDuplicateUsername is returned when a create or rename collides with an existing username.
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository is the credential store. Lookups return nil, nil when no user matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, update models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, username string) (bool, error)
	AddFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error)
}

// MovieRepository is the read-only catalog store. Point lookups return the first
// matching movie, or nil, nil when none matches.
type MovieRepository interface {
	List(ctx context.Context) ([]models.Movie, error)
	GetByTitle(ctx context.Context, title string) (*models.Movie, error)
	GetByGenreName(ctx context.Context, name string) (*models.Movie, error)
	GetByDirectorName(ctx context.Context, name string) (*models.Movie, error)
}

// MovieStore is a catalog that can also be loaded with movies.
type MovieStore interface {
	MovieRepository
	Insert(ctx context.Context, movie *models.Movie) error
}
