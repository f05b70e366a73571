package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.AuthorizedEmail{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, active bool) {
	t.Helper()

	require.NoError(t, db.Create(&models.User{
		Active:   active,
		Email:    email,
		Password: models.HashPassword(password),
	}).Error)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	seedUser(t, db, "ana@example.com", "secreto1", true)
	seedUser(t, db, "baja@example.com", "secreto1", false)

	testCases := []struct {
		name          string
		email         string
		password      string
		expectedError error
	}{
		{
			name:          "unknown email",
			email:         "nadie@example.com",
			password:      "secreto1",
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "wrong password",
			email:         "ana@example.com",
			password:      "incorrecto",
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "disabled account",
			email:         "baja@example.com",
			password:      "secreto1",
			expectedError: ErrUserAccountDisabled,
		},
		{
			name:     "valid credentials",
			email:    "ana@example.com",
			password: "secreto1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := service.Authenticate(tc.email, tc.password)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.email, user.Email)
		})
	}
}

func TestAuthenticateEmitsSignedInEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	seedUser(t, db, "ana@example.com", "secreto1", true)

	events, unsubscribe := service.Subscribe()
	defer unsubscribe()

	_, err := service.Authenticate("ana@example.com", "secreto1")
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, EventSignedIn, event.Type)
		assert.Equal(t, "ana@example.com", event.Email)
	case <-time.After(time.Second):
		t.Fatal("expected a signed-in event")
	}
}

func TestSignOutEmitsSignedOutEvent(t *testing.T) {
	service := NewService(setupTestDB(t))

	events, unsubscribe := service.Subscribe()
	defer unsubscribe()

	service.SignOut("ana@example.com")

	select {
	case event := <-events:
		assert.Equal(t, EventSignedOut, event.Type)
		assert.Equal(t, "ana@example.com", event.Email)
	case <-time.After(time.Second):
		t.Fatal("expected a signed-out event")
	}
}

func TestUnsubscribeEndsStream(t *testing.T) {
	service := NewService(setupTestDB(t))

	events, unsubscribe := service.Subscribe()
	unsubscribe()

	// channel closes so ranging consumers terminate
	_, open := <-events
	assert.False(t, open)

	// events published afterwards go nowhere, and a double
	// unsubscribe is harmless
	service.SignOut("ana@example.com")
	unsubscribe()
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	require.NoError(t, db.Create(&models.AuthorizedEmail{Email: "nueva@example.com"}).Error)
	require.NoError(t, db.Create(&models.AuthorizedEmail{Email: "usada@example.com", Registered: true}).Error)

	testCases := []struct {
		name          string
		email         string
		password      string
		expectedError error
	}{
		{
			name:          "password too short",
			email:         "nueva@example.com",
			password:      "corto",
			expectedError: ErrPasswordTooShort,
		},
		{
			name:          "not on the allow-list",
			email:         "intruso@example.com",
			password:      "secreto1",
			expectedError: ErrEmailNotAuthorized,
		},
		{
			name:          "allow-list entry already used",
			email:         "usada@example.com",
			password:      "secreto1",
			expectedError: ErrEmailAlreadyRegistered,
		},
		{
			name:     "authorized email",
			email:    "nueva@example.com",
			password: "secreto1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := service.Register(tc.email, tc.password)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.True(t, user.Active)

			// the allow-list entry is spent
			var entry models.AuthorizedEmail
			require.NoError(t, db.Where("email = ?", tc.email).First(&entry).Error)
			assert.True(t, entry.Registered)

			// a second registration with the same email fails
			_, err = service.Register(tc.email, tc.password)
			assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
		})
	}
}

func TestRegisteredUserCanAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	require.NoError(t, db.Create(&models.AuthorizedEmail{Email: "nueva@example.com"}).Error)

	_, err := service.Register("nueva@example.com", "secreto1")
	require.NoError(t, err)

	user, err := service.Authenticate("nueva@example.com", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, "nueva@example.com", user.Email)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	seedUser(t, db, "ana@example.com", "secreto1", true)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&user).Error)

	t.Run("wrong old password", func(t *testing.T) {
		err := service.ChangePassword(user.ID, "incorrecto", "nuevosecreto")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("new password too short", func(t *testing.T) {
		err := service.ChangePassword(user.ID, "secreto1", "corto")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("valid change", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(user.ID, "secreto1", "nuevosecreto"))

		_, err := service.Authenticate("ana@example.com", "secreto1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = service.Authenticate("ana@example.com", "nuevosecreto")
		assert.NoError(t, err)
	})
}
