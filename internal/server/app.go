// Package server wires the storage server together: configuration,
// PostgreSQL with migrations, S3 blob storage, services and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/dmitrijs2005/protodrive/internal/server/config"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/protodrive/internal/server/services"
	"github.com/dmitrijs2005/protodrive/internal/server/storage"
	"github.com/dmitrijs2005/protodrive/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *web.Server
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New("json", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	generated, err := ensureSecret(cfg)
	if err != nil {
		return nil, err
	}
	if generated {
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	h := &web.Handlers{
		Users:   services.NewUserService(db, rm, cfg, logger),
		Configs: services.NewConfigService(db, rm, logger),
		Files:   services.NewFileService(db, rm, blobs, logger),
		DB:      db,
		Logger:  logger,
	}
	router := web.NewRouter(h, []byte(cfg.SecretKey), cfg.MaxUploadSize, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: web.NewServer(cfg.EndpointAddr, router, logger),
	}, nil
}

// Run serves until ctx is cancelled and then releases the database pool.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)
	defer app.db.Close()
	return app.server.Run(ctx)
}

// ensureSecret fills an empty signing key with a random one. Tokens then
// stop validating after a restart.
func ensureSecret(cfg *config.Config) (bool, error) {
	if cfg.SecretKey != "" {
		return false, nil
	}
	key, err := common.MakeRandHexString(32)
	if err != nil {
		return false, fmt.Errorf("secret key generation error: %w", err)
	}
	cfg.SecretKey = key
	return true, nil
}
