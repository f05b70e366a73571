// Package allowlist manages the email allow-list gating admin
// self-registration.
package allowlist

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

var (
	// ErrEmailEmpty is returned when a lookup is attempted with an empty email.
	ErrEmailEmpty = errors.New("email cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Check looks up an email on the allow-list. A missing entry is not an
// error: it returns (nil, nil) so callers can distinguish "not
// authorized" from a backend failure.
func Check(db *gorm.DB, email string) (*models.AuthorizedEmail, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var entry models.AuthorizedEmail
	result := db.Where("email = ?", email).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &entry, nil
}

// MarkRegistered flags an allow-list entry as used after a successful
// sign-up.
func MarkRegistered(db *gorm.DB, email string) error {
	if db == nil {
		return ErrDBNil
	}
	if email == "" {
		return ErrEmailEmpty
	}

	return db.Model(&models.AuthorizedEmail{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"registrado": true,
			"updated_at": time.Now(),
		}).Error
}
