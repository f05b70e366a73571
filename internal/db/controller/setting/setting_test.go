package setting

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// A single connection keeps every goroutine on the same in-memory
	// database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, s := range settings {
		err := db.Create(&s).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "hero_title",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			key:           "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:    "exact match only",
			dbParam: db,
			key:     "video_1",
			seedData: []models.Setting{
				{Key: "video_1_url", Value: "https://cdn.example/v1.mp4"},
			},
			expectedError: ErrSettingNotFound,
		},
		{
			name:    "successful get",
			dbParam: db,
			key:     "hero_title",
			seedData: []models.Setting{
				{Key: "hero_title", Value: "Sastrería profesional"},
			},
			expectedValue: "Sastrería profesional",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			s, err := Get(tc.dbParam, tc.key)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, s)
				assert.Equal(t, tc.key, s.Key)
				assert.Equal(t, tc.expectedValue, s.Value)
			}
		})
	}
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		seedData      []models.Setting
		expectedError error
		expectedCount int
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			expectedError: ErrDBNil,
		},
		{
			name:          "empty database",
			dbParam:       db,
			expectedCount: 0,
		},
		{
			name:    "multiple settings",
			dbParam: db,
			seedData: []models.Setting{
				{Key: "hero_title", Value: "Sastrería profesional"},
				{Key: "whatsapp_number", Value: "573001234567"},
				{Key: "store_hours", Value: "11:00 a.m. – 7:00 p.m."},
			},
			expectedCount: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			settings, err := GetAll(tc.dbParam)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, settings)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, settings)
				assert.Len(t, settings, tc.expectedCount)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		value         string
		seedData      []models.Setting
		expectedError error
		expectedRows  int64
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "hero_title",
			value:         "x",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			value:         "x",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:         "missing row is a no-op, not an error",
			dbParam:      db,
			key:          "nonexistent",
			value:        "x",
			expectedRows: 0,
		},
		{
			name:    "successful update",
			dbParam: db,
			key:     "hero_title",
			value:   "Trabajo hecho con amor",
			seedData: []models.Setting{
				{Key: "hero_title", Value: "Sastrería profesional"},
			},
			expectedRows: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			rows, err := Update(tc.dbParam, tc.key, tc.value)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedRows, rows)

			if tc.expectedRows > 0 {
				updated, errGet := Get(tc.dbParam, tc.key)
				require.NoError(t, errGet)
				assert.Equal(t, tc.value, updated.Value)
			}
		})
	}
}

// TestUpdateDoesNotCreateRows is the regression test for the
// no-op-on-missing-row behavior: an Update for an absent key must leave
// the store unchanged.
func TestUpdateDoesNotCreateRows(t *testing.T) {
	db := setupTestDB(t)

	rows, err := Update(db, "tiktok_url", "https://tiktok.com/@italiaatelier")
	require.NoError(t, err)
	assert.Zero(t, rows)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpsert(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		value         string
		settingType   string
		description   string
		seedData      []models.Setting
		expectedError error
		expectedType  string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "hero_title",
			value:         "x",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			value:         "x",
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:         "create new setting",
			dbParam:      db,
			key:          "instagram_url",
			value:        "https://instagram.com/italiaatelier",
			settingType:  "url",
			description:  "Instagram profile",
			expectedType: "url",
		},
		{
			name:    "replace existing setting",
			dbParam: db,
			key:     "hero_title",
			value:   "Trabajo hecho con amor",
			seedData: []models.Setting{
				{Key: "hero_title", Value: "Sastrería profesional"},
			},
			expectedType: "text",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			s, err := Upsert(tc.dbParam, tc.key, tc.value, tc.settingType, tc.description)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, s)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, s)

			// Read-after-write: a subsequent Get observes the value.
			stored, err := Get(tc.dbParam, tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.value, stored.Value)
			assert.Equal(t, tc.expectedType, stored.Type)

			// The key stays unique: no duplicate row was created.
			var count int64
			tc.dbParam.Model(&models.Setting{}).Where("key = ?", tc.key).Count(&count)
			assert.EqualValues(t, 1, count)
		})
	}
}

func TestUpsertIdempotence(t *testing.T) {
	db := setupTestDB(t)

	_, err := Upsert(db, "whatsapp_number", "573001234567", "", "")
	require.NoError(t, err)

	first, err := Get(db, "whatsapp_number")
	require.NoError(t, err)

	_, err = Upsert(db, "whatsapp_number", "573001234567", "", "")
	require.NoError(t, err)

	second, err := Get(db, "whatsapp_number")
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.Key, second.Key)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsertFreshStore(t *testing.T) {
	db := setupTestDB(t)

	_, err := Upsert(db, "whatsapp_number", "573001234567", "", "")
	require.NoError(t, err)

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "whatsapp_number", all[0].Key)
	assert.Equal(t, "573001234567", all[0].Value)
}

func TestSaveAll(t *testing.T) {
	db := setupTestDB(t)

	err := SaveAll(db, map[string]string{
		"hero_title":      "Sastrería profesional",
		"whatsapp_number": "573001234567",
		"store_address":   "Ak 15 #119-11 Local 207, Usaquén, Bogotá",
	})
	require.NoError(t, err)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestSaveAllPartialFailure demonstrates that batch writes are not
// atomic: when one write fails, the others still land, the failing key
// keeps its prior value, and the caller receives the error.
func TestSaveAllPartialFailure(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{
		{Key: "b", Value: "prior"},
	})

	err := SaveAll(db, map[string]string{
		"a": "1",
		"":  "2", // empty key fails validation inside Upsert
	})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSettingKeyEmpty)

	// "a" was written despite the batch error.
	a, err := Get(db, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", a.Value)

	// Untouched keys keep their prior value.
	b, err := Get(db, "b")
	require.NoError(t, err)
	assert.Equal(t, "prior", b.Value)
}
