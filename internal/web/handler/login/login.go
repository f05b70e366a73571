package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/expresCocina/Italia-atalear/internal/auth"
	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
	"github.com/expresCocina/Italia-atalear/internal/web/session"
)

const (
	// Path is the base path of the auth endpoints.
	Path = "/api/auth"
)

// Service is the login handler service.
type Service struct {
	cfg  *config.Config
	auth *auth.Service
}

// Handler is the login handler.
var Handler = Service{}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		return errors.New("app, cfg or auth service is nil")
	}

	s.cfg = cfg
	s.auth = authService

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.PostLogin)
		router.Post("/logout", s.PostLogout)
		router.Get("/session", s.GetSession)
	})

	return nil
}

// PostLogin handles the credential submission.
func (s *Service) PostLogin(c *fiber.Ctx) error {
	creds := new(credentials)

	if err := c.BodyParser(creds); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if creds.Email == "" || creds.Password == "" {
		return handler.Fail(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	user, err := s.auth.Authenticate(creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserAccountDisabled) {
			return handler.Fail(c, fiber.StatusUnauthorized, err)
		}

		log.Error().Err(err).Msg("login failed")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	c.Cookie(s.sessionCookie(sessionID, int(s.cfg.Webserver.Session.ExpiryTime.Seconds())))

	return handler.OK(c, userPayload{ID: user.ID, Email: user.Email})
}

// PostLogout destroys the current session.
func (s *Service) PostLogout(c *fiber.Ctx) error {
	sessionID := c.Cookies(handler.SessionCookieName)
	if sessionID != "" {
		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err == nil && sessData.User.ID > 0 {
			s.auth.SignOut(sessData.User.Email)
		}

		if err := session.Destroy(sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to destroy session")
		}
	}

	// expire the cookie
	c.Cookie(s.sessionCookie("", -1))

	return handler.OK(c, nil)
}

// GetSession returns the currently signed-in user, if any.
func (s *Service) GetSession(c *fiber.Ctx) error {
	user, ok := c.Locals(handler.CurrentUserLocal).(models.User)
	if !ok || user.ID == 0 {
		return handler.Fail(c, fiber.StatusUnauthorized, ErrNotSignedIn)
	}

	return handler.OK(c, userPayload{ID: user.ID, Email: user.Email})
}

func (s *Service) sessionCookie(value string, maxAge int) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     handler.SessionCookieName,
		Value:    value,
		MaxAge:   maxAge,
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax", // TODO: make this configurable
	}

	if s.cfg.DevMode {
		cookie.Secure = false
	}

	return cookie
}
