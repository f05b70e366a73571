// Package setting provides the typed accessor over the site settings
// key/value table. It is the single read/write path used by both the
// public storefront endpoints and the admin dashboard.
package setting

import (
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrSettingNotFound is returned when no row matches a key exactly.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when a read or write is attempted with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its key. The lookup is exact-match, not
// prefix or fuzzy.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var s models.Setting
	result := db.Where(keyQueryPattern, key).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// GetAll retrieves the full settings collection. The table is small by
// design, so no pagination is applied.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Update replaces the value of an existing row. When no row matches the
// key, the call succeeds with zero rows affected instead of failing;
// callers that need create-or-update semantics must use Upsert. The
// affected-row count is returned so callers can detect the no-op.
func Update(db *gorm.DB, key, value string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}
	if key == "" {
		return 0, ErrSettingKeyEmpty
	}

	result := db.Model(&models.Setting{}).
		Where(keyQueryPattern, key).
		Update("value", value)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// Upsert creates the row if absent, otherwise replaces its value, type
// and description. The conflict resolution key is the setting key
// itself. After a successful return, a Get for the same key observes
// the just-written value.
func Upsert(db *gorm.DB, key, value, settingType, description string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	if settingType == "" {
		settingType = "text"
	}

	s := models.Setting{
		Key:         key,
		Value:       value,
		Type:        settingType,
		Description: description,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "description"}),
	}).Create(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	return &s, nil
}

// SaveAll upserts every entry of the given map. Writes are dispatched
// concurrently with no ordering between them and are not rolled back on
// failure: some keys may be saved while others are not. The first error
// encountered is reported.
func SaveAll(db *gorm.DB, values map[string]string) error {
	if db == nil {
		return ErrDBNil
	}

	var g errgroup.Group

	for k, v := range values {
		key, value := k, v

		g.Go(func() error {
			_, err := Upsert(db, key, value, "", "")
			return err
		})
	}

	return g.Wait()
}
