// Package site provides the public, read-only storefront endpoints:
// site settings, the active product catalog and its categories.
package site

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/controller/category"
	"github.com/expresCocina/Italia-atalear/internal/db/controller/product"
	"github.com/expresCocina/Italia-atalear/internal/settings"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

const (
	// Path is the base path of the public endpoints.
	Path = "/api"
)

// ErrInternalServerError is returned for unexpected storage failures.
var ErrInternalServerError = errors.New("internal server error")

// Service is the public site handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	cache *settings.Cache
}

// Handler is the public site handler.
var Handler = Service{}

// Init initializes the public site handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, cache *settings.Cache) error {
	if app == nil || cfg == nil || db == nil || cache == nil {
		return errors.New("app, cfg, db or cache is nil")
	}

	s.cfg = cfg
	s.db = db
	s.cache = cache

	app.Route(Path, func(router fiber.Router) {
		router.Get("/settings", s.GetSettings)
		router.Get("/settings/:key", s.GetSetting)
		router.Get("/products", s.GetProducts)
		router.Get("/categories", s.GetCategories)
	})

	return nil
}

// GetSettings returns the full key/value snapshot of the site settings.
func (s *Service) GetSettings(c *fiber.Ctx) error {
	return handler.OK(c, s.cache.Snapshot())
}

// GetSetting returns a single setting value with its hydration state.
func (s *Service) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	value, loaded, err := s.cache.Get(key)
	if err != nil {
		return handler.Fail(c, fiber.StatusNotFound, err)
	}

	return handler.OK(c, fiber.Map{"key": key, "value": value, "loaded": loaded})
}

// GetProducts returns the active products, newest first, with their category.
func (s *Service) GetProducts(c *fiber.Ctx) error {
	products, err := product.GetActive(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load products")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, products)
}

// GetCategories returns the active categories in display order.
func (s *Service) GetCategories(c *fiber.Ctx) error {
	categories, err := category.GetActive(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load categories")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, categories)
}
