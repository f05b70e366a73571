package config

import (
	"time"

	"github.com/expresCocina/Italia-atalear/internal/capi"
	"github.com/expresCocina/Italia-atalear/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Storage   Storage
	Capi      capi.Config
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string  // domain name for the webserver
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver, used to build public asset URLs
	Session      Session // session settings
}

// Storage holds the asset store settings.
type Storage struct {
	// Path is the directory bucket contents are kept under.
	Path string `toml:"path"`
}
