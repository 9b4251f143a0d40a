package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ctchen222/movie-catalog/internal/api/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const movieColumns = `id, title, description, genre_name, genre_description,
	director_name, director_bio, director_birth, director_death, actors, image_path, featured`

type movieRow struct {
	ID               string `db:"id"`
	Title            string `db:"title"`
	Description      string `db:"description"`
	GenreName        string `db:"genre_name"`
	GenreDescription string `db:"genre_description"`
	DirectorName     string `db:"director_name"`
	DirectorBio      string `db:"director_bio"`
	DirectorBirth    string `db:"director_birth"`
	DirectorDeath    string `db:"director_death"`
	Actors           string `db:"actors"`
	ImagePath        string `db:"image_path"`
	Featured         bool   `db:"featured"`
}

func (row *movieRow) toModel() (models.Movie, error) {
	actors := []string{}
	if err := json.Unmarshal([]byte(row.Actors), &actors); err != nil {
		return models.Movie{}, fmt.Errorf("invalid actors for movie %s: %w", row.ID, err)
	}
	return models.Movie{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Genre:       models.Genre{Name: row.GenreName, Description: row.GenreDescription},
		Director: models.Director{
			Name:  row.DirectorName,
			Bio:   row.DirectorBio,
			Birth: row.DirectorBirth,
			Death: row.DirectorDeath,
		},
		Actors:    actors,
		ImagePath: row.ImagePath,
		Featured:  row.Featured,
	}, nil
}

type sqliteMovieRepository struct {
	db *sqlx.DB
}

// NewSQLiteMovieRepository creates a SQLite-based MovieStore.
func NewSQLiteMovieRepository(db *sqlx.DB) MovieStore {
	return &sqliteMovieRepository{db: db}
}

// List returns every movie in insertion order.
func (r *sqliteMovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.List")
	defer span.End()

	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+movieColumns+` FROM movies ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	out := make([]models.Movie, 0, len(rows))
	for i := range rows {
		m, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *sqliteMovieRepository) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByTitle")
	defer span.End()

	return r.findOne(ctx, "title", title)
}

func (r *sqliteMovieRepository) GetByGenreName(ctx context.Context, name string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByGenreName")
	defer span.End()

	return r.findOne(ctx, "genre_name", name)
}

func (r *sqliteMovieRepository) GetByDirectorName(ctx context.Context, name string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByDirectorName")
	defer span.End()

	return r.findOne(ctx, "director_name", name)
}

// Insert adds movie to the catalog, assigning an id when it has none.
func (r *sqliteMovieRepository) Insert(ctx context.Context, movie *models.Movie) error {
	ctx, span := tracer.Start(ctx, "MovieRepository.Insert")
	defer span.End()

	if movie.ID == "" {
		movie.ID = uuid.New().String()
	}
	if movie.Actors == nil {
		movie.Actors = []string{}
	}
	actors, err := json.Marshal(movie.Actors)
	if err != nil {
		return fmt.Errorf("failed to marshal actors: %w", err)
	}

	_, err = r.db.NamedExecContext(ctx, `INSERT INTO movies (`+movieColumns+`) VALUES (
		:id, :title, :description, :genre_name, :genre_description,
		:director_name, :director_bio, :director_birth, :director_death, :actors, :image_path, :featured)`,
		movieRow{
			ID:               movie.ID,
			Title:            movie.Title,
			Description:      movie.Description,
			GenreName:        movie.Genre.Name,
			GenreDescription: movie.Genre.Description,
			DirectorName:     movie.Director.Name,
			DirectorBio:      movie.Director.Bio,
			DirectorBirth:    movie.Director.Birth,
			DirectorDeath:    movie.Director.Death,
			Actors:           string(actors),
			ImagePath:        movie.ImagePath,
			Featured:         movie.Featured,
		})
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// findOne returns the earliest inserted movie whose column equals value.
func (r *sqliteMovieRepository) findOne(ctx context.Context, column, value string) (*models.Movie, error) {
	var row movieRow
	query := `SELECT ` + movieColumns + ` FROM movies WHERE ` + column + ` = ? ORDER BY rowid LIMIT 1`
	err := r.db.GetContext(ctx, &row, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movie by %s: %w", column, err)
	}
	m, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &m, nil
}
