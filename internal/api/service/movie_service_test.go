package service

import (
	"context"
	"errors"
	"testing"

	"ctchen222/movie-catalog/internal/api/models"
	"ctchen222/movie-catalog/internal/api/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMovieService(t *testing.T) {
	movies := mocks.NewMockMovieRepository(gomock.NewController(t))
	svc := NewMovieService(movies)
	ctx := context.Background()

	inception := &models.Movie{
		Title:    "Inception",
		Genre:    models.Genre{Name: "Sci-Fi"},
		Director: models.Director{Name: "Christopher Nolan"},
	}

	movies.EXPECT().List(ctx).Return(nil, nil)
	movies.EXPECT().GetByTitle(ctx, "Inception").Return(inception, nil)
	movies.EXPECT().GetByTitle(ctx, "Unknown").Return(nil, nil)
	movies.EXPECT().GetByGenreName(ctx, "Sci-Fi").Return(inception, nil)
	movies.EXPECT().GetByGenreName(ctx, "Western").Return(nil, nil)
	movies.EXPECT().GetByDirectorName(ctx, "Christopher Nolan").Return(inception, nil)
	movies.EXPECT().GetByDirectorName(ctx, "Nobody").Return(nil, nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	m, err := svc.GetByTitle(ctx, "Inception")
	require.NoError(t, err)
	assert.Equal(t, inception, m)

	_, err = svc.GetByTitle(ctx, "Unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Movie Unknown was not found")

	g, err := svc.GetGenre(ctx, "Sci-Fi")
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi", g.Name)

	_, err = svc.GetGenre(ctx, "Western")
	assert.ErrorIs(t, err, ErrNotFound)

	d, err := svc.GetDirector(ctx, "Christopher Nolan")
	require.NoError(t, err)
	assert.Equal(t, "Christopher Nolan", d.Name)

	_, err = svc.GetDirector(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieService_StoreError(t *testing.T) {
	movies := mocks.NewMockMovieRepository(gomock.NewController(t))
	svc := NewMovieService(movies)
	boom := errors.New("timeout")

	movies.EXPECT().List(gomock.Any()).Return(nil, boom)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
}
