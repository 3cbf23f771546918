// Package server initializes and runs the pod server: database and blob
// storage, migrations, the HTTP API, and graceful shutdown on OS signals.
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

	"github.com/healthpod/healthpod/internal/logging"
	"github.com/healthpod/healthpod/internal/server/blob"
	"github.com/healthpod/healthpod/internal/server/config"
	"github.com/healthpod/healthpod/internal/server/httpapi"
	"github.com/healthpod/healthpod/internal/server/repositories/repomanager"
	"github.com/healthpod/healthpod/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	blobs, err := blob.NewS3Store(context.Background(), blob.Options{
		Region:       c.S3Region,
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}

	userService := services.NewUserService(db, rm, c)
	resourceService := services.NewResourceService(db, rm, blobs, c, logger)

	handlers := httpapi.NewHandlers(userService, resourceService, logger)
	router := httpapi.NewRouter(handlers, []byte(c.SecretKey))
	server := httpapi.NewServer(c.EndpointAddr, router, logger)

	return &App{config: c, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
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

	app.logger.Info(ctx, "starting pod server")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server stopped", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}
