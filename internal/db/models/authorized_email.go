package models

import "time"

// AuthorizedEmail is a row of the self-registration allow-list. Only
// emails present here may create an admin account, and each entry can
// be used once. Column names follow the legacy `registros_autorizados`
// table.
type AuthorizedEmail struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"unique;size:255;not null" json:"email"`
	Registered bool      `gorm:"column:registrado;default:false" json:"registrado"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps the legacy table name.
func (AuthorizedEmail) TableName() string {
	return "registros_autorizados"
}
