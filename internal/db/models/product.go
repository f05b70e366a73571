package models

import "time"

// Product states. Only active products are shown on the public catalog.
const (
	ProductStateActive   = "activo"
	ProductStateInactive = "inactivo"
)

// Product represents a catalog product of the boutique. Column names
// follow the legacy `productos_catalogo` table so existing data and
// storefront clients keep working unchanged.
type Product struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"column:nombre;size:255;not null" json:"nombre"`
	Description string  `gorm:"column:descripcion;type:text" json:"descripcion"`
	CategoryID  *uint64 `gorm:"column:categoria_id" json:"categoria_id"`
	// Category is the associated category, preloaded for catalog views.
	Category *Category `gorm:"foreignKey:CategoryID;references:ID" json:"categoria,omitempty"`
	// SuggestedPrice is nullable: products without a listed price show
	// "consult for price" on the storefront.
	SuggestedPrice *float64  `gorm:"column:precio_sugerido" json:"precio_sugerido"`
	ImageURL       string    `gorm:"column:imagen_url;size:512" json:"imagen_url"`
	ImageURL2      string    `gorm:"column:imagen_url_2;size:512" json:"imagen_url_2"`
	ImageURL3      string    `gorm:"column:imagen_url_3;size:512" json:"imagen_url_3"`
	ImageURL4      string    `gorm:"column:imagen_url_4;size:512" json:"imagen_url_4"`
	State          string    `gorm:"column:estado;size:20;default:activo" json:"estado"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the legacy table name.
func (Product) TableName() string {
	return "productos_catalogo"
}

// ImageURLs returns the non-empty image URLs of the product in display
// order.
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, 4)

	for _, u := range []string{p.ImageURL, p.ImageURL2, p.ImageURL3, p.ImageURL4} {
		if u != "" {
			urls = append(urls, u)
		}
	}

	return urls
}
