package models

// Category represents a product category. Column names follow the
// legacy `categorias` table.
type Category struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Active bool   `gorm:"column:activo;default:true" json:"activo"`
	// Order controls display position on the storefront (ascending).
	Order int `gorm:"column:orden;default:0" json:"orden"`
}

// TableName keeps the legacy table name.
func (Category) TableName() string {
	return "categorias"
}
