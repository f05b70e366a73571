package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql"
	sessionpostgres "github.com/gofiber/storage/postgres"
	sessionsqlite "github.com/gofiber/storage/sqlite3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/auth"
	"github.com/expresCocina/Italia-atalear/internal/capi"
	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/dsn"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
	"github.com/expresCocina/Italia-atalear/internal/settings"
	appstorage "github.com/expresCocina/Italia-atalear/internal/storage"
	"github.com/expresCocina/Italia-atalear/internal/web"
	"github.com/expresCocina/Italia-atalear/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService  *web.Service
	authService *auth.Service
	cfg         *config.Config

	stopAuthLog func()
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service has shut down, then
// releases the daemon's subscriptions.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()

	if d.stopAuthLog != nil {
		d.stopAuthLog()
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.Product{},
		&models.Category{},
		&models.AuthorizedEmail{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	session.Init(sessionStorage(cfg))

	store, err := appstorage.New(cfg.Storage.Path, cfg.Webserver.URL)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("failed to init asset store")
	}

	cache := settings.NewCache(db)
	if err := cache.Hydrate(); err != nil {
		log.Warn().Err(err).Msg("settings hydration failed, serving defaults")
	}

	authService := auth.NewService(db)
	stopAuthLog := logAuthEvents(authService)

	relay := capi.New(cfg.Capi)

	return &Daemon{
		cfg:         cfg,
		webService:  web.New(cfg, db, cache, store, relay, authService),
		authService: authService,
		stopAuthLog: stopAuthLog,
	}
}

// openDialector selects the gorm driver for the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	default:
		return sqlite.Open(cfg.DB.File)
	}
}

// sessionStorage selects the fiber session storage backend matching
// the configured engine.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	default:
		return sessionsqlite.New(sessionsqlite.Config{
			Database: cfg.DB.File,
			Table:    "sessions",
		})
	}
}

// logAuthEvents consumes the auth-state event stream for the audit
// log. The returned func unsubscribes and ends the consumer.
func logAuthEvents(authService *auth.Service) func() {
	events, unsubscribe := authService.Subscribe()

	go func() {
		for event := range events {
			log.Info().
				Str("event", string(event.Type)).
				Str("email", event.Email).
				Time("at", event.At).
				Msg("auth state changed")
		}
	}()

	return unsubscribe
}
