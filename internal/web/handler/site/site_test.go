package site

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/config"
	"github.com/expresCocina/Italia-atalear/internal/db/controller/setting"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
	"github.com/expresCocina/Italia-atalear/internal/settings"
	"github.com/expresCocina/Italia-atalear/internal/web/handler"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *settings.Cache) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Setting{}, &models.Product{}, &models.Category{},
	))

	cache := settings.NewCache(db)

	app := fiber.New()
	require.NoError(t, Handler.Init(app, &config.Config{}, db, cache))

	return app, db, cache
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) handler.Response {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out handler.Response
	require.NoError(t, json.Unmarshal(body, &out))

	return out
}

func TestGetSettingBeforeHydrationServesDefault(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := get(t, app, "/api/settings/hero_title")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	require.True(t, out.Success)

	result := out.Result.(map[string]any)
	assert.Equal(t, "Sastrería profesional: trabajo hecho con amor", result["value"])
	assert.Equal(t, false, result["loaded"], "value not hydrated from the store yet")
}

func TestGetSettingAfterHydration(t *testing.T) {
	app, db, cache := newTestApp(t)

	_, err := setting.Upsert(db, "hero_title", "Confección a medida", "text", "")
	require.NoError(t, err)
	require.NoError(t, cache.Hydrate())

	resp := get(t, app, "/api/settings/hero_title")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeResponse(t, resp).Result.(map[string]any)
	assert.Equal(t, "Confección a medida", result["value"])
	assert.Equal(t, true, result["loaded"])
}

func TestGetSettingUnknownKey(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := get(t, app, "/api/settings/legacy_key")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetSettingsSnapshot(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := get(t, app, "/api/settings")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	snapshot, ok := out.Result.(map[string]any)
	require.True(t, ok)

	// every recognized key is present, defaults included
	for _, d := range settings.Defaults() {
		_, present := snapshot[d.Key]
		assert.True(t, present, "missing key %q", d.Key)
	}
}

func TestGetProductsOnlyActive(t *testing.T) {
	app, db, _ := newTestApp(t)

	for _, p := range []models.Product{
		{Name: "Vestido", State: models.ProductStateActive},
		{Name: "Retirado", State: models.ProductStateInactive},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	resp := get(t, app, "/api/products")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	products, ok := decodeResponse(t, resp).Result.([]any)
	require.True(t, ok)
	assert.Len(t, products, 1)
}

func TestGetCategories(t *testing.T) {
	app, db, _ := newTestApp(t)

	for _, c := range []models.Category{
		{Name: "Vestidos", Active: true, Order: 1},
		{Name: "Archivada", Active: false},
	} {
		require.NoError(t, db.Create(&c).Error)
	}

	resp := get(t, app, "/api/categories")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	categories, ok := decodeResponse(t, resp).Result.([]any)
	require.True(t, ok)
	assert.Len(t, categories, 1)
}
