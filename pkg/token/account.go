package token

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServiceAccount holds the Firebase service account credentials used to
// mint access tokens. Values are immutable once loaded.
type ServiceAccount struct {
	ProjectID   string `yaml:"project_id" json:"project_id"`
	PrivateKey  string `yaml:"private_key" json:"private_key"`
	ClientEmail string `yaml:"client_email" json:"client_email"`
}

// Validate reports whether all required credential fields are present.
func (a ServiceAccount) Validate() error {
	if a.ProjectID == "" || a.PrivateKey == "" || a.ClientEmail == "" {
		return ErrAccountIncomplete
	}
	return nil
}

// Resolver looks up service accounts by their configured name.
type Resolver interface {
	Resolve(name string) (ServiceAccount, error)
}

// StaticResolver resolves accounts from an in-memory map.
type StaticResolver map[string]ServiceAccount

// Resolve returns the account registered under name.
func (r StaticResolver) Resolve(name string) (ServiceAccount, error) {
	account, ok := r[name]
	if !ok {
		return ServiceAccount{}, fmt.Errorf("%w: %q", ErrAccountNotFound, name)
	}
	if err := account.Validate(); err != nil {
		return ServiceAccount{}, fmt.Errorf("%q: %w", name, err)
	}
	return account, nil
}

// LoadAccounts reads a YAML file mapping account names to service accounts.
// Literal "\n" sequences in private keys are normalized to newlines, since
// keys are commonly pasted from single-line JSON exports.
func LoadAccounts(path string) (StaticResolver, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("token: read accounts file: %w", err)
	}
	return ParseAccounts(raw)
}

// ParseAccounts parses YAML service account definitions.
func ParseAccounts(raw []byte) (StaticResolver, error) {
	accounts := make(map[string]ServiceAccount)
	if err := yaml.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("token: parse accounts file: %w", err)
	}

	resolver := make(StaticResolver, len(accounts))
	for name, account := range accounts {
		account.PrivateKey = strings.ReplaceAll(account.PrivateKey, `\n`, "\n")
		if err := account.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		resolver[name] = account
	}
	return resolver, nil
}
