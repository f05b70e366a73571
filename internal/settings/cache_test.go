package settings

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/controller/setting"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Setting{}))

	return db
}

func TestCacheDefaultsBeforeHydration(t *testing.T) {
	cache := NewCache(setupTestDB(t))

	value, loaded, err := cache.Get(KeyHeroTitle)
	require.NoError(t, err)
	assert.False(t, loaded, "key must not count as loaded before hydration")
	assert.Equal(t, "Sastrería profesional: trabajo hecho con amor", value)
}

func TestCacheUnknownKey(t *testing.T) {
	cache := NewCache(setupTestDB(t))

	_, _, err := cache.Get("made_up_key")
	require.ErrorIs(t, err, ErrUnknownKey)

	err = cache.Set("made_up_key", "x")
	require.ErrorIs(t, err, ErrUnknownKey)

	_, _, err = cache.Subscribe("made_up_key")
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestCacheHydrate(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)

	_, err := setting.Upsert(db, KeyWhatsAppNumber, "573001234567", "", "")
	require.NoError(t, err)

	// An unrecognized key in the store is skipped, not fatal.
	_, err = setting.Upsert(db, "legacy_key", "old", "", "")
	require.NoError(t, err)

	require.NoError(t, cache.Hydrate())

	value, loaded, err := cache.Get(KeyWhatsAppNumber)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "573001234567", value)

	// Keys absent from the store are loaded with their default.
	value, loaded, err = cache.Get(KeyStoreHours)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "", value)
}

func TestCacheRefreshMissingRowFallsBackToDefault(t *testing.T) {
	cache := NewCache(setupTestDB(t))

	value, err := cache.Refresh(KeyHeroTitle)
	require.NoError(t, err)
	assert.Equal(t, "Sastrería profesional: trabajo hecho con amor", value)

	_, loaded, err := cache.Get(KeyHeroTitle)
	require.NoError(t, err)
	assert.True(t, loaded)
}

func TestCacheSetReadAfterWrite(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)

	require.NoError(t, cache.Set(KeyStoreAddress, "Ak 15 #119-11 Local 207"))

	value, loaded, err := cache.Get(KeyStoreAddress)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, "Ak 15 #119-11 Local 207", value)

	// The write went through to the store, not just the cache.
	row, err := setting.Get(db, KeyStoreAddress)
	require.NoError(t, err)
	assert.Equal(t, "Ak 15 #119-11 Local 207", row.Value)
}

func TestCacheSubscribe(t *testing.T) {
	cache := NewCache(setupTestDB(t))

	ch, unsubscribe, err := cache.Subscribe(KeyVideo1URL)
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, cache.Set(KeyVideo1URL, "https://cdn.example/v1.mp4"))

	select {
	case got := <-ch:
		assert.Equal(t, "https://cdn.example/v1.mp4", got)
	default:
		t.Fatal("expected a change notification")
	}

	// Only the latest value is retained for slow consumers.
	require.NoError(t, cache.Set(KeyVideo1URL, "https://cdn.example/v2.mp4"))
	require.NoError(t, cache.Set(KeyVideo1URL, "https://cdn.example/v3.mp4"))

	select {
	case got := <-ch:
		assert.Equal(t, "https://cdn.example/v3.mp4", got)
	default:
		t.Fatal("expected a change notification")
	}

	// Unsubscribe closes the channel so ranging consumers terminate,
	// and later writes go nowhere.
	unsubscribe()
	require.NoError(t, cache.Set(KeyVideo1URL, "https://cdn.example/v4.mp4"))

	got, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")
	assert.Empty(t, got)
}

func TestCacheSaveAllPartial(t *testing.T) {
	db := setupTestDB(t)
	cache := NewCache(db)

	err := cache.SaveAll(map[string]string{
		KeyHeroTitle: "Nuevo título",
		"bad_key":    "x",
	})
	require.ErrorIs(t, err, ErrUnknownKey)

	err = cache.SaveAll(map[string]string{
		KeyHeroTitle:      "Nuevo título",
		KeyWhatsAppNumber: "573009876543",
	})
	require.NoError(t, err)

	snapshot := cache.Snapshot()
	assert.Equal(t, "Nuevo título", snapshot[KeyHeroTitle])
	assert.Equal(t, "573009876543", snapshot[KeyWhatsAppNumber])
}
