package service

import (
	"context"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/api/repository"
)

// MovieService defines the catalog queries.
type MovieService interface {
	List(ctx context.Context) ([]models.Movie, error)
	GetByTitle(ctx context.Context, title string) (*models.Movie, error)
	GetGenre(ctx context.Context, name string) (*models.Genre, error)
	GetDirector(ctx context.Context, name string) (*models.Director, error)
}

type movieService struct {
	movies repository.MovieRepository
}

// NewMovieService creates a new MovieService.
func NewMovieService(movies repository.MovieRepository) MovieService {
	return &movieService{movies: movies}
}

func (s *movieService) List(ctx context.Context) ([]models.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

func (s *movieService) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	movie, err := s.movies.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, &NotFoundError{Resource: "Movie", Key: title}
	}
	return movie, nil
}

// GetGenre returns the genre of the first movie filed under name.
func (s *movieService) GetGenre(ctx context.Context, name string) (*models.Genre, error) {
	movie, err := s.movies.GetByGenreName(ctx, name)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, &NotFoundError{Resource: "Genre", Key: name}
	}
	return &movie.Genre, nil
}

// GetDirector returns the director of the first movie directed by name.
func (s *movieService) GetDirector(ctx context.Context, name string) (*models.Director, error) {
	movie, err := s.movies.GetByDirectorName(ctx, name)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, &NotFoundError{Resource: "Director", Key: name}
	}
	return &movie.Director, nil
}
