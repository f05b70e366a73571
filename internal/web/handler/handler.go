package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error
}

// Response is the envelope used by all JSON API endpoints.
type Response struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK sends a successful JSON response wrapping the given result.
func OK(c *fiber.Ctx, result any) error {
	return c.JSON(Response{Success: true, Result: result})
}

// Fail sends a failed JSON response with the given status code and error message.
func Fail(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(Response{Success: false, Error: err.Error()})
}
