package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"token"`

	// Lifetime is how long a login session stays valid
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`

	// CleanupInterval for expired sessions in stores without native expiry (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:      "token",
		Lifetime:        24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		SecureCookies:   false,
	}
}

// NewFromConfig creates a Manager from the provided Config.
// A Store and a cookie manager (or custom Transport) come in via options.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := append([]Option{WithConfig(cfg)}, opts...)
	return New(configOpts...)
}
