package auth

import "time"

// Config holds signup and login tuning for the auth service.
type Config struct {
	// CodeTTL is how long an emailed verification code stays valid.
	CodeTTL time.Duration `env:"AUTH_CODE_TTL" envDefault:"15m"`

	// CodeLength is the number of digits in a verification code.
	CodeLength int `env:"AUTH_CODE_LENGTH" envDefault:"6"`

	// BcryptCost controls password hashing cost. The default matches
	// bcrypt.DefaultCost; raise it as hardware allows.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}
