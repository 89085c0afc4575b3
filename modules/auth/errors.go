package auth

import "errors"

var (
	// ErrAlreadyExists is returned when the email or username is taken.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrNotFound is returned when no account matches the given email.
	ErrNotFound = errors.New("account not found")

	// ErrAlreadyVerified is returned when verification is attempted on a
	// verified account.
	ErrAlreadyVerified = errors.New("account already verified")

	// ErrNoCode is returned when no verification code is on record.
	ErrNoCode = errors.New("no verification code found")

	// ErrInvalidCode is returned when the submitted code does not match.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrCodeExpired is returned when the code's validity window passed.
	ErrCodeExpired = errors.New("verification code expired")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotVerified is returned when an unverified account tries to log in.
	ErrNotVerified = errors.New("account not verified")

	// ErrSendEmail is returned when a verification email cannot be
	// delivered and the caller must know about it.
	ErrSendEmail = errors.New("failed to send email")
)
