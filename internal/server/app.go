// Package server wires configuration, storage and services together and
// runs the HTTP API and the gRPC health endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/logging"
	"github.com/dmitrijs2005/motomarket/internal/server/config"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/motomarket/internal/server/rest"
	"github.com/dmitrijs2005/motomarket/internal/server/rolecache"
	"github.com/dmitrijs2005/motomarket/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/motomarket/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client

	http   *rest.Server
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var cache rolecache.Cache = rolecache.Noop{}
	var rdb *redis.Client
	if c.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		cache = rolecache.NewRedisCache(rdb, c.RoleCacheTTL)
	} else {
		logger.Warn(ctx, "no redis address configured, role cache disabled")
	}

	roles := services.NewRoleService(db, rm, cache, logger)

	gin.SetMode(gin.ReleaseMode)
	httpServer := rest.NewServer(c.EndpointAddrHTTP, logger, rest.Services{
		Listings: services.NewListingService(db, rm, roles, logger),
		Catalog:  services.NewCatalogService(db, rm),
		Roles:    roles,
		Profiles: services.NewProfileService(db, rm, logger),
		Images:   services.NewImageService(c),
	}, rest.Options{
		SecretKey: c.SecretKey,
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
		Ready:     db.PingContext,
	})

	return &App{
		config: c,
		logger: logger,
		db:     db,
		redis:  rdb,
		http:   httpServer,
		health: gs.NewHealthServer(c.EndpointAddrHealth, logger),
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

// markReady flips the health status to SERVING once the database answers.
func (app *App) markReady(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := app.db.PingContext(pingCtx)
		cancel()
		if err == nil {
			app.health.SetServing(true)
			app.logger.Info(ctx, "database reachable, serving")
			return
		}
		app.logger.Warn(ctx, "database not reachable yet", "error", err)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, name+" failed", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http server", app.http.Run)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc health server", app.health.Run)
	}()
	go func() {
		defer wg.Done()
		app.markReady(ctx)
	}()

	wg.Wait()

	app.close(context.Background())
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
