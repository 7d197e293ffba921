// Package server wires the gophtasks server together: storage, migrations,
// optional demo data, services and the HTTP API, with graceful shutdown on
// SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/httpapi"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/seed"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	taskService *services.TaskService
}

// NewApp opens the database and builds the services. Migrations run later,
// in Run, so construction does not touch the schema.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, dialect, err := dbx.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: m,
		userService: services.NewUserService(db, m, c),
		taskService: services.NewTaskService(db, m),
	}, nil
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

func (app *App) prepareStorage(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if !app.config.Seed {
		return nil
	}

	if _, err := seed.NewSeeder(app.db, app.repomanager, app.config.BcryptCost, app.logger).Run(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context) error {
	gin.SetMode(app.config.GinMode)

	router := httpapi.NewRouter(app.config.AllowedOrigins(), app.userService, app.taskService, app.logger)
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)

	return s.Run(ctx)
}

// Run blocks until the server stops, either on a signal or a fatal error.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.prepareStorage(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	if err := app.startHTTPServer(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
