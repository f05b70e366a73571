// Package auth provides email+password authentication for the admin
// dashboard, with self-registration gated by an email allow-list.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/controller/allowlist"
	"github.com/expresCocina/Italia-atalear/internal/db/models"
)

const minPasswordLen = 6

// Service provides authentication functionality. It is constructed by
// the composition root and injected where needed; there is no ambient
// singleton.
type Service struct {
	db     *gorm.DB
	events *broadcaster
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		events: newBroadcaster(),
	}
}

// Authenticate verifies an email/password pair against the local
// database and emits a signed-in event on success.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := s.db.Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	user.UpdatedAt = time.Now()
	s.db.Save(&user)

	s.events.publish(Event{Type: EventSignedIn, Email: user.Email, At: time.Now()})

	return &user, nil
}

// Register creates a new admin account. The email must exist on the
// allow-list and not have been used before; a successful registration
// marks the allow-list entry as used.
func (s *Service) Register(email, password string) (*models.User, error) {
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	entry, err := allowlist.Check(s.db, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check allow-list: %w", err)
	}

	if entry == nil {
		return nil, ErrEmailNotAuthorized
	}

	if entry.Registered {
		return nil, ErrEmailAlreadyRegistered
	}

	var existing models.User

	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:   true,
		Email:    email,
		Password: models.HashPassword(password),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := allowlist.MarkRegistered(s.db, email); err != nil {
		// The account exists; an unmarked allow-list entry only means
		// a second registration attempt fails on the duplicate email.
		log.Error().Err(err).Str("email", email).Msg("failed to mark allow-list entry as registered")
	}

	return &user, nil
}

// SignOut emits a signed-out event for the given account. Session
// teardown itself happens at the web layer.
func (s *Service) SignOut(email string) {
	s.events.publish(Event{Type: EventSignedOut, Email: email, At: time.Now()})
}

// ChangePassword changes a user's password after verifying the old one.
func (s *Service) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidCredentials
	}

	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", models.HashPassword(newPassword)).Error
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(userID uint64) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Subscribe registers for auth-state change events. The returned
// unsubscribe function must be called when the consumer's lifecycle
// ends.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}
