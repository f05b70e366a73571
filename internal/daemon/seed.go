package daemon

import (
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/controller/setting"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
	"github.com/expresCocina/Italia-atalear/internal/settings"

	"github.com/rs/zerolog/log"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed the recognized settings keys so the dashboard form has rows
	// to edit. Existing values are left untouched.
	for _, d := range settings.Defaults() {
		if _, err := setting.Get(db, d.Key); err == nil {
			continue
		}

		if _, err := setting.Upsert(db, d.Key, d.Value, d.Type, d.Description); err != nil {
			log.Warn().Err(err).Str("key", d.Key).Msg("failed to seed setting")
		}
	}

	// Seed a starter category set if the table is empty.
	var count int64

	db.Model(&models.Category{}).Count(&count)
	if count == 0 {
		db.Create(&[]models.Category{
			{Name: "Vestidos", Active: true, Order: 1},
			{Name: "Trajes", Active: true, Order: 2},
			{Name: "Arreglos", Active: true, Order: 3},
		})
	}
}
