// Package track provides the public conversion-event relay endpoint.
// The storefront posts browser events here and the server forwards
// them to the Graph API with the server-held access token, so the
// token never reaches the client.
package track

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"

	"github.com/expresCocina/Italia-atalear/internal/capi"
	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

const (
	// Path is the path of the conversion relay endpoint.
	Path = "/api/track"
)

var (
	// ErrInvalidBody is returned when the event payload cannot be parsed.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrMissingEventName is returned when the event carries no name.
	ErrMissingEventName = errors.New("eventName is required")

	// ErrRelayDisabled is returned when the relay is switched off.
	ErrRelayDisabled = errors.New("conversion relay is disabled")

	// ErrRelayFailed is returned when the Graph API rejects the event.
	ErrRelayFailed = errors.New("failed to relay conversion event")
)

// Service is the conversion relay handler service.
type Service struct {
	cfg    *config.Config
	client *capi.Client
}

// Handler is the conversion relay handler.
var Handler = Service{}

// Init initializes the conversion relay handler. The endpoint is
// CORS-enabled because the storefront calls it cross-origin.
func (s *Service) Init(app *fiber.App, cfg *config.Config, client *capi.Client) error {
	if app == nil || cfg == nil || client == nil {
		return errors.New("app, cfg or client is nil")
	}

	s.cfg = cfg
	s.client = client

	app.Use(Path, cors.New(cors.Config{
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Post(Path, s.Post)

	return nil
}

// Post relays one conversion event. Identifiers the browser did not
// send are filled in from the request itself.
func (s *Service) Post(c *fiber.Ctx) error {
	event := new(capi.Event)

	if err := c.BodyParser(event); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if event.EventName == "" {
		return handler.Fail(c, fiber.StatusBadRequest, ErrMissingEventName)
	}

	if !s.client.Enabled() {
		return handler.Fail(c, fiber.StatusServiceUnavailable, ErrRelayDisabled)
	}

	if event.UserData.ClientIPAddress == "" {
		event.UserData.ClientIPAddress = c.IP()
	}

	if event.UserData.ClientUserAgent == "" {
		event.UserData.ClientUserAgent = c.Get(fiber.HeaderUserAgent)
	}

	result, err := s.client.Send(*event)
	if err != nil {
		log.Error().Err(err).Str("event", event.EventName).Msg("conversion relay failed")

		return handler.Fail(c, fiber.StatusBadGateway, ErrRelayFailed)
	}

	return handler.OK(c, result)
}
