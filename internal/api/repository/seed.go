package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"ctchen222/movie-catalog/internal/api/models"
)

// SeedMovies loads a JSON array of movies into store, skipping titles that are
// already present. It returns the number of movies inserted.
func SeedMovies(ctx context.Context, store MovieStore, r io.Reader) (int, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.Seed")
	defer span.End()

	var movies []models.Movie
	if err := json.NewDecoder(r).Decode(&movies); err != nil {
		return 0, fmt.Errorf("failed to decode seed movies: %w", err)
	}

	inserted := 0
	for i := range movies {
		existing, err := store.GetByTitle(ctx, movies[i].Title)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}
		if err := store.Insert(ctx, &movies[i]); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
