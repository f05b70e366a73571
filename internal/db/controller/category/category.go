// Package category provides read operations for product categories.
package category

import (
	"errors"

	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// GetActive retrieves the active categories in display order.
func GetActive(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var categories []models.Category
	result := db.Where("activo = ?", true).
		Order("orden ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

// GetAll retrieves all categories in display order for the admin
// dashboard.
func GetAll(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var categories []models.Category
	result := db.Order("orden ASC").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}
