package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/movie-catalog/internal/api/controller"
	"ctchen222/movie-catalog/internal/api/repository"
	"ctchen222/movie-catalog/internal/api/service"
	"ctchen222/movie-catalog/internal/auth"
	"ctchen222/movie-catalog/internal/config"
	"ctchen222/movie-catalog/internal/db"
	"ctchen222/movie-catalog/internal/logger"
	"ctchen222/movie-catalog/internal/ratelimit"
	"ctchen222/movie-catalog/internal/server"
	"ctchen222/movie-catalog/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type stores struct {
	users  repository.UserRepository
	movies repository.MovieStore
	close  func(context.Context) error
}

func main() {
	ctx := context.Background()

	cfg, warnings := config.Load()
	logger.Init(cfg.LogLevel)
	for _, w := range warnings {
		slog.Warn(w)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg)
	if err != nil {
		fatal("failed to initialize telemetry", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	st, err := openStores(ctx, cfg)
	if err != nil {
		fatal("failed to open store", err)
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	if cfg.CatalogSeedFile != "" {
		if err := seedCatalog(ctx, st.movies, cfg.CatalogSeedFile); err != nil {
			fatal("failed to seed catalog", err)
		}
	}

	limiter, err := newLimiter(ctx, cfg)
	if err != nil {
		fatal("failed to initialize rate limiter", err)
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	signer := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	// Create services
	authService := service.NewAuthService(st.users, hasher, signer)
	userService := service.NewUserService(st.users, hasher)
	movieService := service.NewMovieService(st.movies)

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(server.Dependencies{
		AuthService: authService,
		Limiter:     limiter,
		Auth:        controller.NewAuthController(authService),
		Users:       controller.NewUserController(authService, userService),
		Movies:      controller.NewMovieController(movieService),
		CORSOrigins: cfg.CORSOrigins,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("http server started", "http.addr", httpServer.Addr, "store.driver", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("ListenAndServe", err)
		}
	}()

	<-stop

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}

	slog.Info("server exiting")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users:  repository.NewMongoUserRepository(database),
			movies: repository.NewMongoMovieRepository(database),
			close:  client.Disconnect,
		}, nil
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:  repository.NewSQLiteUserRepository(conn),
			movies: repository.NewSQLiteMovieRepository(conn),
			close:  func(context.Context) error { return conn.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func seedCatalog(ctx context.Context, movies repository.MovieStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	n, err := repository.SeedMovies(ctx, movies, f)
	if err != nil {
		return err
	}
	slog.Info("catalog seeded", "seed.file", path, "movies.inserted", n)
	return nil
}

func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewLocalLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow), nil
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow), nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
