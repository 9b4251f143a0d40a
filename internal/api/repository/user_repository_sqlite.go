package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ctchen222/movie-catalog/internal/api/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRow struct {
	ID           string         `db:"id"`
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	Email        string         `db:"email"`
	Birthday     sql.NullString `db:"birthday"`
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewSQLiteUserRepository creates a SQLite-based UserRepository.
func NewSQLiteUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// Create inserts a new user, assigning it a fresh id.
func (r *sqliteUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	user.ID = uuid.New().String()
	query := `INSERT INTO users (id, username, password_hash, email, birthday) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.Email, birthdayValue(user))
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	return nil
}

// GetByUsername retrieves a user and its favorites by username.
func (r *sqliteUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	user, err := r.load(ctx, r.db, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// Update replaces the profile fields of username. A nil birthday keeps the stored one.
func (r *sqliteUserRepository) Update(ctx context.Context, username string, update models.UserUpdate) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	query := `UPDATE users SET username = ?, password_hash = ?, email = ?, birthday = COALESCE(?, birthday) WHERE username = ?`
	var birthday any
	if update.Birthday != nil {
		birthday = update.Birthday.Format(models.BirthdayLayout)
	}

	res, err := r.db.ExecContext(ctx, query, update.Username, update.PasswordHash, update.Email, birthday, username)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	user, err := r.load(ctx, r.db, update.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated user: %w", err)
	}
	return user, nil
}

// Delete removes username and its favorites, reporting whether it existed.
func (r *sqliteUserRepository) Delete(ctx context.Context, username string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Delete")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM favorite_movies WHERE user_id IN (SELECT id FROM users WHERE username = ?)`, username); err != nil {
		return false, fmt.Errorf("failed to delete favorite movies: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}

	n, _ := res.RowsAffected()
	return n > 0, nil
}

// AddFavorite adds movieID to the user's favorites if it is not already there.
func (r *sqliteUserRepository) AddFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.AddFavorite")
	defer span.End()

	query := `INSERT OR IGNORE INTO favorite_movies (user_id, movie_id) SELECT id, ? FROM users WHERE username = ?`
	return r.changeFavorites(ctx, username, query, movieID)
}

// RemoveFavorite removes movieID from the user's favorites. Absent ids are ignored.
func (r *sqliteUserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.RemoveFavorite")
	defer span.End()

	query := `DELETE FROM favorite_movies WHERE movie_id = ? AND user_id IN (SELECT id FROM users WHERE username = ?)`
	return r.changeFavorites(ctx, username, query, movieID)
}

func (r *sqliteUserRepository) changeFavorites(ctx context.Context, username, query, movieID string) (*models.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, movieID, username); err != nil {
		return nil, fmt.Errorf("failed to change favorite movies: %w", err)
	}
	user, err := r.load(ctx, tx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit favorite movies: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepository) load(ctx context.Context, q sqlx.QueryerContext, username string) (*models.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, q, &row,
		`SELECT id, username, password_hash, email, birthday FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No user found is not an application error
	}
	if err != nil {
		return nil, err
	}

	favorites := []string{}
	err = sqlx.SelectContext(ctx, q, &favorites,
		`SELECT movie_id FROM favorite_movies WHERE user_id = ? ORDER BY rowid`, row.ID)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:             row.ID,
		Username:       row.Username,
		PasswordHash:   row.PasswordHash,
		Email:          row.Email,
		FavoriteMovies: favorites,
	}
	if row.Birthday.Valid {
		if user.Birthday, err = models.ParseBirthday(row.Birthday.String); err != nil {
			return nil, fmt.Errorf("invalid stored birthday %q: %w", row.Birthday.String, err)
		}
	}
	return user, nil
}

func birthdayValue(u *models.User) any {
	if u.Birthday == nil {
		return nil
	}
	return u.Birthday.Format(models.BirthdayLayout)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
