// Package product provides the admin CRUD endpoints for the product
// catalog. Deleting a product also best-effort removes its stored
// images.
package product

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/controller/product"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

const (
	// Path is the base path of the admin product endpoints.
	Path = "/api/admin/products"
)

var (
	// ErrInvalidBody is returned when the product payload cannot be parsed
	// or fails validation.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrInvalidID is returned when the path parameter is not a numeric ID.
	ErrInvalidID = errors.New("invalid product id")

	// ErrInternalServerError is returned for unexpected storage failures.
	ErrInternalServerError = errors.New("internal server error")
)

// Service is the admin product handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	remover  product.ObjectRemover
	validate *validator.Validate
}

// Handler is the admin product handler.
var Handler = Service{}

type productBody struct {
	Name           string   `json:"nombre"          validate:"required,max=255"`
	Description    string   `json:"descripcion"`
	CategoryID     *uint64  `json:"categoria_id"`
	SuggestedPrice *float64 `json:"precio_sugerido" validate:"omitempty,gte=0"`
	ImageURL       string   `json:"imagen_url"      validate:"omitempty,max=512"`
	ImageURL2      string   `json:"imagen_url_2"    validate:"omitempty,max=512"`
	ImageURL3      string   `json:"imagen_url_3"    validate:"omitempty,max=512"`
	ImageURL4      string   `json:"imagen_url_4"    validate:"omitempty,max=512"`
	State          string   `json:"estado"          validate:"omitempty,oneof=activo inactivo"`
}

// Init initializes the admin product handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, remover product.ObjectRemover) error {
	if app == nil || cfg == nil || db == nil || remover == nil {
		return errors.New("app, cfg, db or remover is nil")
	}

	s.cfg = cfg
	s.db = db
	s.remover = remover
	s.validate = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Get("/:id", s.GetOne)
		router.Post(handler.RootPath, s.Post)
		router.Put("/:id", s.Put)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// Get returns all products regardless of state, for the admin listing.
func (s *Service) Get(c *fiber.Ctx) error {
	products, err := product.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load products")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, products)
}

// GetOne returns a single product by ID.
func (s *Service) GetOne(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidID)
	}

	p, err := product.GetByID(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, err)
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load product")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, p)
}

// Post creates a product.
func (s *Service) Post(c *fiber.Ctx) error {
	body, err := s.parseBody(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err)
	}

	p := body.toModel()
	if err := product.Create(s.db, p); err != nil {
		log.Error().Err(err).Msg("failed to create product")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(handler.Response{Success: true, Result: p})
}

// Put replaces the editable fields of an existing product.
func (s *Service) Put(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidID)
	}

	body, err := s.parseBody(c)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, err)
	}

	p, err := product.Update(s.db, uint64(id), body.toModel())
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, err)
		}

		log.Error().Err(err).Int("id", id).Msg("failed to update product")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, p)
}

// Delete removes a product. Its stored images are removed best effort;
// an orphaned object never blocks the catalog delete.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidID)
	}

	if err := product.Delete(s.db, s.remover, uint64(id)); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return handler.Fail(c, fiber.StatusNotFound, err)
		}

		log.Error().Err(err).Int("id", id).Msg("failed to delete product")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, nil)
}

func (s *Service) parseBody(c *fiber.Ctx) (*productBody, error) {
	body := new(productBody)

	if err := c.BodyParser(body); err != nil {
		return nil, ErrInvalidBody
	}

	if err := s.validate.Struct(body); err != nil {
		return nil, ErrInvalidBody
	}

	return body, nil
}

func (b *productBody) toModel() *models.Product {
	return &models.Product{
		Name:           b.Name,
		Description:    b.Description,
		CategoryID:     b.CategoryID,
		SuggestedPrice: b.SuggestedPrice,
		ImageURL:       b.ImageURL,
		ImageURL2:      b.ImageURL2,
		ImageURL3:      b.ImageURL3,
		ImageURL4:      b.ImageURL4,
		State:          b.State,
	}
}
