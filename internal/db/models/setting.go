// Package models contains database model definitions.
package models

// Setting represents a single named, string-valued configuration entry
// controlling site content (contact info, hero text, media URLs).
// Values are always stored as text; numeric or boolean interpretation
// is done by the caller.
type Setting struct {
	ID  uint64 `gorm:"primaryKey" json:"-"`
	Key string `gorm:"unique;size:100;not null" json:"key"`
	// Value fully overwrites the prior value on every write. No
	// ordering, versioning, or history is retained.
	Value string `gorm:"type:text" json:"value"`
	// Type is an optional classification tag (e.g. "text"). Metadata
	// only, no behavioral effect.
	Type string `gorm:"size:50;default:text" json:"type"`
	// Description is an optional human-readable annotation.
	Description string `gorm:"size:255" json:"description"`
}
