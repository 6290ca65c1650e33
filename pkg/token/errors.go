package token

import "errors"

var (
	// ErrAccountNotFound is returned when no service account is configured
	// under the requested name.
	ErrAccountNotFound = errors.New("token: service account not found")

	// ErrAccountIncomplete is returned when a configured service account is
	// missing its project id, private key or client email.
	ErrAccountIncomplete = errors.New("token: service account is missing required fields")

	// ErrAccessTokenMissing is returned when the token endpoint did not
	// yield a usable access token.
	ErrAccessTokenMissing = errors.New("token: could not obtain access token")

	// ErrInvalidPrivateKey is returned when the account's private key cannot
	// be parsed as a PEM-encoded RSA key.
	ErrInvalidPrivateKey = errors.New("token: invalid service account private key")
)
