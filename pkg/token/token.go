package token

import "time"

// ExpiryBuffer is how close to expiry a token is still considered usable.
// Tokens within the buffer are refreshed proactively so a send never goes
// out with a token that expires mid-flight.
const ExpiryBuffer = 10 * time.Second

// AccessToken is an OAuth2 bearer token. Immutable; a refresh produces a
// new value rather than mutating the old one.
type AccessToken struct {
	Value     string
	TokenType string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry.
func (t AccessToken) Expired() bool {
	return t.expiredAt(time.Now())
}

// ExpiringSoon reports whether the token expires within ExpiryBuffer.
func (t AccessToken) ExpiringSoon() bool {
	return t.expiringSoonAt(time.Now())
}

func (t AccessToken) expiredAt(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

func (t AccessToken) expiringSoonAt(now time.Time) bool {
	return !t.ExpiresAt.After(now.Add(ExpiryBuffer))
}
