package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appControllers "github.com/yigit/labmatch/internal/app/controllers"
	appMigrations "github.com/yigit/labmatch/internal/app/migrations"
	appRepos "github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/app/repositories/memstore"
	appRoutes "github.com/yigit/labmatch/internal/app/routes"
	appServices "github.com/yigit/labmatch/internal/app/services"
	"github.com/yigit/labmatch/internal/config"
	"github.com/yigit/labmatch/internal/db"
	appMiddleware "github.com/yigit/labmatch/internal/middleware"
	pkgAuth "github.com/yigit/labmatch/internal/pkg/auth"
	"github.com/yigit/labmatch/internal/pkg/logger"
	"github.com/yigit/labmatch/internal/pkg/matching"
	"github.com/yigit/labmatch/internal/pkg/metrics"
	"github.com/yigit/labmatch/internal/pkg/notify"
	"github.com/yigit/labmatch/internal/pkg/websocket"
)

// Version is reported by the health endpoint and the version command
var Version = "dev"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store          appRepos.Store
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Metrics        *metrics.Metrics
	Hub            *websocket.Hub
	Logger         zerolog.Logger

	// closers release sink connections on shutdown, in order
	closers []func()
}

// Close releases sink connections and the store
func (d *Dependencies) Close() {
	for _, closeFn := range d.closers {
		closeFn()
	}
	if d.Store != nil {
		d.Store.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().
		Str("logLevel", logger.ParseLevel(cfg.Logging.Level).String()).
		Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore opens the configured graph store. For PostgreSQL, pending
// migrations are applied first when auto_migrate is set.
func OpenStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		lgr.Warn().Msg("Using in-memory store; data is lost on restart")
		return memstore.New(), nil
	case config.StoreDriverPostgres:
		lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
		pg, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}

		if cfg.Database.AutoMigrate {
			if err := appMigrations.NewMigrator(pg.Pool).Up(ctx); err != nil {
				pg.Close()
				return nil, fmt.Errorf("database migrations failed: %w", err)
			}
			lgr.Info().Msg("Database migrations applied")
		}
		return appRepos.NewRepositories(pg), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Migrate applies pending migrations and returns the applied versions
func Migrate(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) ([]string, error) {
	pg, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}
	defer pg.Close()

	migrator := appMigrations.NewMigrator(pg.Pool)
	if err := migrator.Up(ctx); err != nil {
		return nil, err
	}
	versions, err := migrator.Versions()
	if err != nil {
		return nil, err
	}
	lgr.Info().Strs("versions", versions).Msg("Migrations up to date")
	return versions, nil
}

// buildSinks connects every enabled notification transport. A transport that
// cannot be reached at startup is logged and left out.
func buildSinks(ctx context.Context, cfg *config.Config, hub *websocket.Hub, lgr zerolog.Logger) ([]notify.Sink, []func()) {
	var (
		sinks   []notify.Sink
		closers []func()
	)

	if hub != nil {
		sinks = append(sinks, hub)
	}

	if rc := cfg.Notifications.Redis; rc.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := notify.NewRedisClient(pingCtx, rc.Addr, rc.Password, rc.DB)
		cancel()
		if err != nil {
			lgr.Error().Err(err).Msg("Redis notification sink disabled")
		} else {
			sinks = append(sinks, notify.NewRedisSink(client, rc.Channel))
			closers = append(closers, func() { _ = client.Close() })
			lgr.Info().Str("addr", rc.Addr).Str("channel", rc.Channel).Msg("Redis notification sink enabled")
		}
	}

	if nc := cfg.Notifications.NATS; nc.Enabled {
		conn, err := notify.ConnectNATS(nc.URL)
		if err != nil {
			lgr.Error().Err(err).Msg("NATS notification sink disabled")
		} else {
			sinks = append(sinks, notify.NewNATSSink(conn, nc.SubjectPrefix))
			closers = append(closers, func() { _ = conn.Drain() })
			lgr.Info().Str("url", nc.URL).Str("prefix", nc.SubjectPrefix).Msg("NATS notification sink enabled")
		}
	}

	return sinks, closers
}

// BuildDependencies initializes services and controllers over store.
func BuildDependencies(ctx context.Context, cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Store: store, Logger: lgr}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New()
	}
	if cfg.Notifications.Websocket.Enabled {
		deps.Hub = websocket.NewHub(lgr.With().Str("component", "websocket").Logger())
	}

	var sinks []notify.Sink
	sinks, deps.closers = buildSinks(ctx, cfg, deps.Hub, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.Duration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.New(appServices.Dependencies{
		Store:               store,
		JWT:                 deps.JWTService,
		Engine:              matching.NewEngine(cfg.Matching),
		Sinks:               sinks,
		Metrics:             deps.Metrics,
		NotificationTimeout: config.Duration(cfg.Notifications.Timeout, appServices.DefaultNotificationTimeout),
		Logger:              lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(svc.Auth, lgr),
		Department:   appControllers.NewDepartmentController(svc.Department),
		User:         appControllers.NewUserController(svc.User),
		Project:      appControllers.NewProjectController(svc.Project, svc.Application, svc.Matching),
		Application:  appControllers.NewApplicationController(svc.Application),
		Notification: appControllers.NewNotificationController(svc.Notification),
		Health:       appControllers.NewHealthController(store, Version),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	if deps.Metrics != nil {
		router.Use(deps.Metrics.GinMiddleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	var stream gin.HandlerFunc
	if deps.Hub != nil {
		stream = websocket.NewHandler(deps.Hub, lgr.With().Str("component", "websocket").Logger()).HandleConnection
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, stream)
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
