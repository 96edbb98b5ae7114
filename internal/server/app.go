// Package server wires the user-management application together: config,
// database, redis, the token subsystem, business services and the HTTP
// endpoint, plus graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/auth"
	"github.com/sangvinij/user-management-micro-service/internal/server/avatars"
	"github.com/sangvinij/user-management-micro-service/internal/server/config"
	"github.com/sangvinij/user-management-micro-service/internal/server/httpapi"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/repomanager"
	"github.com/sangvinij/user-management-micro-service/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	redis      *redis.Client
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	// Token revocation degrades gracefully without redis, so a failed ping
	// is only a warning.
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "redis unreachable, token revocation degraded", "error", err.Error())
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey), cfg.TokenHashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	blacklist := auth.NewBlacklist(rdb, cfg.RefreshTokenValidityDuration, logger)
	tokens := auth.NewService(codec, blacklist, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	resets := auth.NewPasswordResetStore(rdb, cfg.PasswordResetValidityDuration)

	storage, err := avatars.NewS3Storage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	usersRepo := rm.Users(db)
	authenticator := auth.NewAuthenticator(tokens, usersRepo)

	authService := services.NewAuthService(usersRepo, tokens, hasher, resets,
		services.NewLogNotifier(logger), cfg.ResetURLBase, logger)
	userService := services.NewUserService(usersRepo, storage, logger)

	router := httpapi.NewRouter(cfg.AllowedHosts, authenticator, authService, userService, logger)
	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, router, logger)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		redis:      rdb,
		httpServer: httpServer,
	}, nil
}

// openDatabase opens the connection pool and waits for the database to
// accept connections, retrying with exponential backoff.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
