// Package settings provides the admin endpoints for managing site
// settings: listing the stored rows, updating a single key and saving
// the whole dashboard form in one batch.
package settings

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/controller/setting"
	appsettings "github.com/expresCocina/Italia-atalear/internal/settings"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

const (
	// Path is the base path of the admin settings endpoints.
	Path = "/api/admin/settings"
)

var (
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrSettingNotFound is returned when updating a key that has no stored row.
	ErrSettingNotFound = errors.New("setting not found, create it first")

	// ErrDuplicateKey surfaces a unique-constraint violation as a usable hint.
	ErrDuplicateKey = errors.New("a setting with this key already exists")

	// ErrInternalServerError is returned for unexpected storage failures.
	ErrInternalServerError = errors.New("internal server error")
)

// Service is the admin settings handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	cache *appsettings.Cache
}

// Handler is the admin settings handler.
var Handler = Service{}

type valueBody struct {
	Value string `json:"value"`
}

type upsertBody struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Init initializes the admin settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, cache *appsettings.Cache) error {
	if app == nil || cfg == nil || db == nil || cache == nil {
		return errors.New("app, cfg, db or cache is nil")
	}

	s.cfg = cfg
	s.db = db
	s.cache = cache

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.PostBatch)
		router.Put("/:key", s.PutValue)
		router.Post("/:key", s.PostUpsert)
	})

	return nil
}

// Get returns all stored settings rows with their metadata.
func (s *Service) Get(c *fiber.Ctx) error {
	rows, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, rows)
}

// PutValue replaces the value of an existing key. A key with no stored
// row is reported as not found instead of being silently ignored.
func (s *Service) PutValue(c *fiber.Ctx) error {
	key := c.Params("key")

	body := new(valueBody)
	if err := c.BodyParser(body); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	rows, err := setting.Update(s.db, key, body.Value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to update setting")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	if rows == 0 {
		return handler.Fail(c, fiber.StatusNotFound, ErrSettingNotFound)
	}

	s.refresh(key)

	return handler.OK(c, fiber.Map{"key": key, "value": body.Value})
}

// PostUpsert inserts or replaces a single key with optional metadata.
func (s *Service) PostUpsert(c *fiber.Ctx) error {
	key := c.Params("key")

	body := new(upsertBody)
	if err := c.BodyParser(body); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	row, err := setting.Upsert(s.db, key, body.Value, body.Type, body.Description)
	if err != nil {
		if errors.Is(err, setting.ErrSettingKeyEmpty) {
			return handler.Fail(c, fiber.StatusBadRequest, err)
		}

		log.Error().Err(err).Str("key", key).Msg("failed to upsert setting")

		return handler.Fail(c, fiber.StatusInternalServerError, userHint(err))
	}

	s.refresh(key)

	return handler.OK(c, row)
}

// PostBatch saves the whole dashboard form in one concurrent batch.
// Like the underlying batch write, a partial failure can leave some
// keys written; the cache is refreshed for the touched keys either way.
func (s *Service) PostBatch(c *fiber.Ctx) error {
	values := map[string]string{}
	if err := c.BodyParser(&values); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if len(values) == 0 {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.cache.SaveAll(values); err != nil {
		if errors.Is(err, appsettings.ErrUnknownKey) {
			return handler.Fail(c, fiber.StatusBadRequest, err)
		}

		log.Error().Err(err).Msg("failed to save settings batch")

		return handler.Fail(c, fiber.StatusInternalServerError, userHint(err))
	}

	return handler.OK(c, s.cache.Snapshot())
}

func (s *Service) refresh(key string) {
	if !appsettings.IsRecognized(key) {
		return
	}

	if _, err := s.cache.Refresh(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to refresh settings cache")
	}
}

// userHint maps raw storage errors to messages an operator can act on.
// Anything unrecognized collapses to a generic failure.
func userHint(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry") {
		return ErrDuplicateKey
	}

	return ErrInternalServerError
}
