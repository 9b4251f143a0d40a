package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ctchen222/movie-catalog/internal/api/controller"
	"ctchen222/movie-catalog/internal/api/repository"
	"ctchen222/movie-catalog/internal/api/service"
	"ctchen222/movie-catalog/internal/auth"
	"ctchen222/movie-catalog/internal/db"
	"ctchen222/movie-catalog/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const seedCatalog = `[
	{"Title": "Inception", "Description": "Dreams within dreams.",
	 "Genre": {"Name": "Science Fiction", "Description": "Speculative worlds."},
	 "Director": {"Name": "Christopher Nolan", "Bio": "British filmmaker.", "Birth": "1970"},
	 "Actors": ["Leonardo DiCaprio"], "Featured": true},
	{"Title": "Interstellar", "Description": "Love across dimensions.",
	 "Genre": {"Name": "Science Fiction", "Description": "Later description."},
	 "Director": {"Name": "Christopher Nolan", "Bio": "Later bio."}}
]`

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func newTestServer(t *testing.T, requests int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	users := repository.NewSQLiteUserRepository(conn)
	movies := repository.NewSQLiteMovieRepository(conn)
	_, err = repository.SeedMovies(context.Background(), movies, strings.NewReader(seedCatalog))
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	signer := auth.NewTokenSigner("test-secret", "movie-catalog", time.Hour)
	authService := service.NewAuthService(users, hasher, signer)
	userService := service.NewUserService(users, hasher)

	return NewServer(Dependencies{
		AuthService: authService,
		Limiter:     ratelimit.NewLocalLimiter(requests, time.Minute),
		Auth:        controller.NewAuthController(authService),
		Users:       controller.NewUserController(authService, userService),
		Movies:      controller.NewMovieController(service.NewMovieService(movies)),
	}).Engine()
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func register(t *testing.T, r http.Handler, username string) {
	t.Helper()
	code, _ := do(t, r, http.MethodPost, "/users", "", map[string]string{
		"Username": username, "Password": "x", "Email": username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, code)
}

func login(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	code, env := do(t, r, http.MethodPost, "/login", "", map[string]string{"Username": username, "Password": "x"})
	require.Equal(t, http.StatusOK, code)
	var extras struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &extras))
	require.NotEmpty(t, extras.Token)
	return extras.Token
}

func TestWelcomeAndHealth(t *testing.T) {
	r := newTestServer(t, 100)

	code, env := do(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Extras), "Welcome")

	code, _ = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRegister(t *testing.T) {
	r := newTestServer(t, 100)
	body := map[string]string{"Username": "abcde", "Password": "x", "Email": "a@b.com"}

	code, env := do(t, r, http.MethodPost, "/users", "", body)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Extras), `"Username":"abcde"`)
	assert.Contains(t, string(env.Extras), `"FavoriteMovies":[]`)
	assert.NotContains(t, string(env.Extras), "Password")
	assert.NotContains(t, string(env.Extras), "$2a$")

	code, env = do(t, r, http.MethodPost, "/users", "", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Extras), "abcde already exists")
}

func TestRegister_Validation(t *testing.T) {
	r := newTestServer(t, 100)

	code, env := do(t, r, http.MethodPost, "/users", "", map[string]string{
		"Username": "a!", "Password": "", "Email": "nope",
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)

	var extras struct {
		Errors []struct {
			Param string `json:"param"`
			Msg   string `json:"msg"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &extras))
	msgs := make([]string, 0, len(extras.Errors))
	for _, e := range extras.Errors {
		msgs = append(msgs, e.Msg)
	}
	assert.ElementsMatch(t, []string{
		"Username with a minimum length of 5 characters is required",
		"Username contains non alphanumeric characters - not allowed.",
		"Password is required",
		"Email does not appear to be valid",
	}, msgs)
}

func TestRegister_MalformedBody(t *testing.T) {
	r := newTestServer(t, 100)
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r := newTestServer(t, 100)
	register(t, r, "abcde")

	code, env := do(t, r, http.MethodPost, "/login", "", map[string]string{"Username": "abcde", "Password": "x"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Extras), `"user":{`)
	assert.NotContains(t, string(env.Extras), "$2a$")

	code, _ = do(t, r, http.MethodPost, "/login", "", map[string]string{"Username": "abcde", "Password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, http.MethodPost, "/login?Username=abcde&Password=x", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestProtectedRoutes(t *testing.T) {
	r := newTestServer(t, 100)
	register(t, r, "abcde")
	register(t, r, "fghij")
	token := login(t, r, "abcde")

	code, _ := do(t, r, http.MethodGet, "/movies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, http.MethodGet, "/movies", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, http.MethodGet, "/users/abcde", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodGet, "/users/fghij", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, r, http.MethodDelete, "/users/fghij", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestMovies(t *testing.T) {
	r := newTestServer(t, 100)
	register(t, r, "abcde")
	token := login(t, r, "abcde")

	code, env := do(t, r, http.MethodGet, "/movies", token, nil)
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Extras, &list))
	assert.Len(t, list, 2)

	code, env = do(t, r, http.MethodGet, "/movies/Inception", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Extras), `"Title":"Inception"`)

	code, env = do(t, r, http.MethodGet, "/movies/genres/Science%20Fiction", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"Name":"Science Fiction","Description":"Speculative worlds."}`, string(env.Extras))

	code, env = do(t, r, http.MethodGet, "/movies/directors/Christopher%20Nolan", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Extras), "British filmmaker.")

	for _, path := range []string{"/movies/Unknown", "/movies/genres/Western", "/movies/directors/Nobody"} {
		code, _ = do(t, r, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, code, path)
	}
}

func TestFavorites(t *testing.T) {
	r := newTestServer(t, 100)
	register(t, r, "abcde")
	token := login(t, r, "abcde")

	favorites := func(env envelope) []string {
		var extras struct {
			FavoriteMovies []string `json:"FavoriteMovies"`
		}
		require.NoError(t, json.Unmarshal(env.Extras, &extras))
		return extras.FavoriteMovies
	}

	code, env := do(t, r, http.MethodPost, "/users/abcde/movies/m1", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"m1"}, favorites(env))

	code, env = do(t, r, http.MethodPost, "/users/abcde/movies/m1", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"m1"}, favorites(env))

	code, env = do(t, r, http.MethodDelete, "/users/abcde/movies/m2", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"m1"}, favorites(env))

	code, env = do(t, r, http.MethodDelete, "/users/abcde/m1", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, favorites(env))

	do(t, r, http.MethodPost, "/users/abcde/movies/m3", token, nil)
	code, env = do(t, r, http.MethodPut, "/users/abcde/movies/m3", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, favorites(env))
}

func TestUpdateAndDelete(t *testing.T) {
	r := newTestServer(t, 100)
	register(t, r, "abcde")
	register(t, r, "fghij")
	token := login(t, r, "abcde")

	code, _ := do(t, r, http.MethodPut, "/users/abcde", token, map[string]string{
		"Username": "fghij", "Password": "y", "Email": "a@b.com",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, r, http.MethodPut, "/users/abcde", token, map[string]string{
		"Username": "abcde", "Password": "y", "Email": "new@b.com", "Birthday": "1990-03-04",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Extras), `"Birthday":"1990-03-04"`)
	assert.Contains(t, string(env.Extras), `"Email":"new@b.com"`)

	code, _ = do(t, r, http.MethodPost, "/login", "", map[string]string{"Username": "abcde", "Password": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = do(t, r, http.MethodDelete, "/users/abcde", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Extras), "abcde was deleted.")

	code, _ = do(t, r, http.MethodGet, "/users/abcde", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdate_RenameIssuesToken(t *testing.T) {
	r := newTestServer(t, 100)
	register(t, r, "abcde")
	oldToken := login(t, r, "abcde")

	code, env := do(t, r, http.MethodPut, "/users/abcde", oldToken, map[string]string{
		"Username": "klmno", "Password": "x", "Email": "a@b.com",
	})
	require.Equal(t, http.StatusOK, code)
	var extras struct {
		Username string `json:"Username"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &extras))
	assert.Equal(t, "klmno", extras.Username)
	require.NotEmpty(t, extras.Token)

	code, _ = do(t, r, http.MethodGet, "/users/klmno", extras.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodGet, "/users/klmno", oldToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, r, http.MethodPut, "/users/klmno", extras.Token, map[string]string{
		"Username": "klmno", "Password": "x", "Email": "c@d.com",
	})
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Extras), `"token"`)
}

func TestRateLimit(t *testing.T) {
	r := newTestServer(t, 2)
	body := map[string]string{"Username": "abcde", "Password": "wrong"}

	for range 2 {
		code, _ := do(t, r, http.MethodPost, "/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	code, _ := do(t, r, http.MethodPost, "/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, code)
}
