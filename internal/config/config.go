// Package config defines process configuration shared by the API server, the
// dev bundle server and the hello client, and the loader that layers it.
//
// Conventions:
// - Keys are flat snake_case and match the koanf struct tags.
// - Constraints live in `validate` tags and are checked by Load.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Addr configures the API listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// DevAddr configures the dev bundle server listen address.
	DevAddr string `koanf:"dev_addr" validate:"required"`

	// Greeting is the message returned by GET /api/hello.
	Greeting string `koanf:"greeting" validate:"required"`

	// CORSAllowOrigin is sent as Access-Control-Allow-Origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin"`

	// ServerPort is the port the client assumes the API listens on.
	ServerPort string `koanf:"server_port" validate:"required,numeric"`

	// APIHost is the host used when the page is served from another port.
	APIHost string `koanf:"api_host" validate:"required,hostname_rfc1123"`

	// PageURL is the URL the client page is considered loaded from.
	PageURL string `koanf:"page_url" validate:"required,url"`

	// Endpoint names the API resource the client fetches.
	Endpoint string `koanf:"endpoint" validate:"required"`

	// ElementID is the page element that receives the message.
	ElementID string `koanf:"element_id" validate:"required"`

	// FetchTimeoutMS bounds the client GET. Zero disables the timeout.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms" validate:"gte=0"`

	// RenderMarkup renders the message as raw HTML instead of text.
	RenderMarkup bool `koanf:"render_markup"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DevAddr:         ":3000",
		Greeting:        "Hello World",
		CORSAllowOrigin: "*",
		ServerPort:      "8080",
		APIHost:         "localhost",
		PageURL:         "http://localhost:3000/",
		Endpoint:        "hello",
		ElementID:       "message",
		FetchTimeoutMS:  10_000,
		RenderMarkup:    false,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
