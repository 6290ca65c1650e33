package sender

import (
	"time"

	"github.com/mrgarest/firebase-sender/pkg/token"
)

// Config is the environment surface of the dispatch engine, parsed with
// the config package.
type Config struct {
	// AccountsFile points at the YAML file of named service accounts.
	AccountsFile string `env:"FIREBASE_ACCOUNTS_FILE" envDefault:"firebase-accounts.yml"`

	// AuditEnabled turns on durable per-message audit records.
	AuditEnabled bool `env:"FIREBASE_AUDIT_ENABLED" envDefault:"false"`

	// TokenCacheEnabled shares access tokens through the external cache.
	TokenCacheEnabled bool `env:"FIREBASE_TOKEN_CACHE_ENABLED" envDefault:"true"`

	// ChunkLength is the deferred-dispatch chunk size.
	ChunkLength int `env:"FIREBASE_CHUNK_LENGTH" envDefault:"10"`

	// JobTimeout bounds one deferred chunk's execution.
	JobTimeout time.Duration `env:"FIREBASE_JOB_TIMEOUT" envDefault:"10m"`

	// Timezone is the IANA zone result timestamps are expressed in.
	Timezone string `env:"FIREBASE_TIMEZONE" envDefault:"UTC"`

	// PruneAfter is the audit retention window; zero keeps records forever.
	PruneAfter time.Duration `env:"FIREBASE_AUDIT_PRUNE_AFTER" envDefault:"0"`
}

// Location resolves the configured timezone, falling back to UTC on an
// unknown name.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Accounts loads the configured service accounts file.
func (c Config) Accounts() (token.StaticResolver, error) {
	return token.LoadAccounts(c.AccountsFile)
}
