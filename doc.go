// Package main provides the entry point for the Italia Atelier backend.
// It runs a web server using the Fiber framework that serves the public
// storefront API (site settings, product catalog, conversion relay) and
// the admin API (settings management, catalog CRUD, asset uploads)
// behind allow-list gated email+password accounts. The application uses
// gorm for data persistence.
package main
