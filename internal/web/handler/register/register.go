// Package register provides the allow-list gated account registration endpoint.
package register

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/expresCocina/Italia-atalear/internal/auth"
	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

const (
	// Path is the path of the registration endpoint.
	Path = "/api/auth/register"
)

// ErrInvalidBody is returned when the submitted registration cannot be parsed
// or fails validation.
var ErrInvalidBody = errors.New("invalid request body")

// Service is the registration handler service.
type Service struct {
	cfg      *config.Config
	auth     *auth.Service
	validate *validator.Validate
}

// Handler is the registration handler.
var Handler = Service{}

type registration struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New("app, cfg or auth service is nil")
	}

	s.cfg = cfg
	s.auth = authService
	s.validate = validator.New()

	app.Post(Path, s.Post)

	return nil
}

// Post handles a registration request. The email must be on the
// allow-list and unused; the created account is active immediately.
func (s *Service) Post(c *fiber.Ctx) error {
	reg := new(registration)

	if err := c.BodyParser(reg); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validate.Struct(reg); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	user, err := s.auth.Register(reg.Email, reg.Password)

	switch {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return handler.Fail(c, fiber.StatusBadRequest, err)
	case errors.Is(err, auth.ErrEmailNotAuthorized):
		return handler.Fail(c, fiber.StatusForbidden, err)
	case errors.Is(err, auth.ErrEmailAlreadyRegistered), errors.Is(err, auth.ErrEmailExists):
		return handler.Fail(c, fiber.StatusConflict, err)
	case err != nil:
		log.Error().Err(err).Msg("registration failed")

		return handler.Fail(c, fiber.StatusInternalServerError, errors.New("internal server error"))
	}

	return c.Status(fiber.StatusCreated).JSON(handler.Response{
		Success: true,
		Result:  fiber.Map{"id": user.ID, "email": user.Email},
	})
}
