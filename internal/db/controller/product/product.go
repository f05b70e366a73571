// Package product provides CRUD operations for the boutique catalog.
package product

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

var (
	// ErrProductNotFound is returned when a product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNameEmpty is returned when creating or updating a product without a name.
	ErrProductNameEmpty = errors.New("product name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ObjectRemover removes a stored object referenced by its public URL.
// Failures are tolerated: a dangling storage object is preferred over a
// blocked catalog change.
type ObjectRemover interface {
	DeleteByURL(url string) error
}

// GetActive retrieves all active products for the public catalog,
// newest first, with their category preloaded.
func GetActive(db *gorm.DB) ([]models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var products []models.Product
	result := db.Preload("Category").
		Where("estado = ?", models.ProductStateActive).
		Order("created_at DESC").
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetAll retrieves all products for the admin dashboard, newest first.
func GetAll(db *gorm.DB) ([]models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var products []models.Product
	result := db.Preload("Category").
		Order("created_at DESC").
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// GetByID retrieves a single product.
func GetByID(db *gorm.DB, id uint64) (*models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Product
	result := db.Preload("Category").First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// Create inserts a new product.
func Create(db *gorm.DB, p *models.Product) error {
	if db == nil {
		return ErrDBNil
	}
	if p.Name == "" {
		return ErrProductNameEmpty
	}

	if p.State == "" {
		p.State = models.ProductStateActive
	}

	return db.Create(p).Error
}

// Update replaces the editable fields of an existing product.
func Update(db *gorm.DB, id uint64, updates *models.Product) (*models.Product, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if updates.Name == "" {
		return nil, ErrProductNameEmpty
	}

	var p models.Product
	result := db.First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	p.Name = updates.Name
	p.Description = updates.Description
	p.CategoryID = updates.CategoryID
	p.SuggestedPrice = updates.SuggestedPrice
	p.ImageURL = updates.ImageURL
	p.ImageURL2 = updates.ImageURL2
	p.ImageURL3 = updates.ImageURL3
	p.ImageURL4 = updates.ImageURL4
	p.State = updates.State

	if err := db.Save(&p).Error; err != nil {
		return nil, err
	}

	return &p, nil
}

// Delete removes a product and issues a best-effort delete of its
// stored images. Storage failures are logged only: the row is removed
// regardless, and orphaned objects are an accepted failure mode.
func Delete(db *gorm.DB, remover ObjectRemover, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	p, err := GetByID(db, id)
	if err != nil {
		return err
	}

	if err := db.Delete(&models.Product{}, id).Error; err != nil {
		return err
	}

	if remover == nil {
		return nil
	}

	for _, u := range p.ImageURLs() {
		if errDel := remover.DeleteByURL(u); errDel != nil {
			log.Warn().Err(errDel).
				Uint64("product_id", id).
				Str("url", u).
				Msg("failed to delete product image, object orphaned")
		}
	}

	return nil
}
