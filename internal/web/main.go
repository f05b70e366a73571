package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/auth"
	"github.com/expresCocina/Italia-atalear/internal/capi"
	"github.com/expresCocina/Italia-atalear/internal/config"
	fiberlogger "github.com/expresCocina/Italia-atalear/internal/logger/adapter/fiber"
	"github.com/expresCocina/Italia-atalear/internal/settings"
	"github.com/expresCocina/Italia-atalear/internal/storage"
	adminproduct "github.com/expresCocina/Italia-atalear/internal/web/handler/admin/product"
	adminsettings "github.com/expresCocina/Italia-atalear/internal/web/handler/admin/settings"
	"github.com/expresCocina/Italia-atalear/internal/web/handler/admin/upload"
	"github.com/expresCocina/Italia-atalear/internal/web/handler/login"
	"github.com/expresCocina/Italia-atalear/internal/web/handler/register"
	"github.com/expresCocina/Italia-atalear/internal/web/handler/site"
	"github.com/expresCocina/Italia-atalear/internal/web/handler/track"
	authmiddleware "github.com/expresCocina/Italia-atalear/internal/web/middleware/auth"
)

// CheckAliveURI is the liveness probe path.
const CheckAliveURI = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration and
// injected collaborators.
func New(
	cfg *config.Config,
	db *gorm.DB,
	cache *settings.Cache,
	store *storage.Store,
	relay *capi.Client,
	authService *auth.Service,
) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      storage.MaxVideoSize + 1024*1024,
		},
	)

	// access log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
	}))

	// serve uploaded assets
	app.Use(storage.PublicPathPrefix,
		filesystem.New(
			filesystem.Config{
				Root:   http.Dir(store.Root()),
				Browse: false,
			},
		),
	)

	// session based auth middleware
	app.Use(authmiddleware.Middleware)

	if authService == nil {
		authService = auth.NewService(db)
	}

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}

	app.Get(CheckAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	// init handlers (they register their own routes)
	if err := login.Handler.Init(app, cfg, authService); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	if err := register.Handler.Init(app, cfg, authService); err != nil {
		log.Fatal().Err(err).Msg("failed to init register handler")
	}

	if err := site.Handler.Init(app, cfg, db, cache); err != nil {
		log.Fatal().Err(err).Msg("failed to init site handler")
	}

	if err := adminsettings.Handler.Init(app, cfg, db, cache); err != nil {
		log.Fatal().Err(err).Msg("failed to init admin settings handler")
	}

	if err := adminproduct.Handler.Init(app, cfg, db, store); err != nil {
		log.Fatal().Err(err).Msg("failed to init admin product handler")
	}

	if err := upload.Handler.Init(app, cfg, store); err != nil {
		log.Fatal().Err(err).Msg("failed to init upload handler")
	}

	if err := track.Handler.Init(app, cfg, relay); err != nil {
		log.Fatal().Err(err).Msg("failed to init track handler")
	}

	return service
}
