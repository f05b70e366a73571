// Package upload provides the admin endpoints for uploading catalog
// images and storefront videos. Files are validated before anything
// touches disk; violations come back with the reason, not a generic
// failure.
package upload

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/storage"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

const (
	// Path is the base path of the admin upload endpoints.
	Path = "/api/admin/uploads"

	// FormFileField is the multipart field carrying the file.
	FormFileField = "file"
)

var (
	// ErrMissingFile is returned when the multipart field is absent.
	ErrMissingFile = errors.New("missing file field")

	// ErrMissingURL is returned when a delete request carries no URL.
	ErrMissingURL = errors.New("missing url field")

	// ErrInternalServerError is returned for unexpected storage failures.
	ErrInternalServerError = errors.New("internal server error")
)

// Service is the admin upload handler service.
type Service struct {
	cfg   *config.Config
	store *storage.Store
}

// Handler is the admin upload handler.
var Handler = Service{}

type deleteBody struct {
	URL string `json:"url"`
}

// Init initializes the admin upload handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, store *storage.Store) error {
	if app == nil || cfg == nil || store == nil {
		return errors.New("app, cfg or store is nil")
	}

	s.cfg = cfg
	s.store = store

	app.Route(Path, func(router fiber.Router) {
		router.Post("/image", s.PostImage)
		router.Post("/video", s.PostVideo)
		router.Delete(handler.RootPath, s.Delete)
	})

	return nil
}

// PostImage stores a catalog image and returns its public URL.
func (s *Service) PostImage(c *fiber.Ctx) error {
	return s.postFile(c, s.store.UploadImage)
}

// PostVideo stores a storefront video and returns its public URL.
func (s *Service) PostVideo(c *fiber.Ctx) error {
	return s.postFile(c, s.store.UploadVideo)
}

// Delete removes a stored object addressed by its public URL. A URL
// that resolves to nothing is not an error; the outcome is the same.
func (s *Service) Delete(c *fiber.Ctx) error {
	body := new(deleteBody)
	if err := c.BodyParser(body); err != nil || body.URL == "" {
		return handler.Fail(c, fiber.StatusBadRequest, ErrMissingURL)
	}

	if err := s.store.DeleteByURL(body.URL); err != nil {
		log.Error().Err(err).Str("url", body.URL).Msg("failed to delete object")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return handler.OK(c, nil)
}

func (s *Service) postFile(
	c *fiber.Ctx,
	upload func(originalName, contentType string, size int64, r io.Reader) (string, error),
) error {
	fileHeader, err := c.FormFile(FormFileField)
	if err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, ErrMissingFile)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)

	url, err := upload(fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		if isValidationError(err) {
			return handler.Fail(c, fiber.StatusBadRequest, err)
		}

		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("upload failed")

		return handler.Fail(c, fiber.StatusInternalServerError, ErrInternalServerError)
	}

	return c.Status(fiber.StatusCreated).JSON(handler.Response{
		Success: true,
		Result:  fiber.Map{"url": url},
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, storage.ErrNotAnImage) ||
		errors.Is(err, storage.ErrImageTooLarge) ||
		errors.Is(err, storage.ErrUnsupportedVideoType) ||
		errors.Is(err, storage.ErrVideoTooLarge)
}
