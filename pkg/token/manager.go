package token

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Scope is the OAuth2 scope required to call the FCM v1 send API.
	Scope = "https://www.googleapis.com/auth/firebase.messaging"

	// DefaultEndpoint is Google's OAuth2 token endpoint.
	DefaultEndpoint = "https://oauth2.googleapis.com/token"

	grantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// assertionLifetime is the validity window claimed by the signed JWT
	// assertion presented to the token endpoint.
	assertionLifetime = time.Hour

	// cacheSafetyMargin is subtracted from expires_in when computing the
	// cache TTL so a cached token is never served right at its expiry.
	cacheSafetyMargin = 60 * time.Second

	cacheKeyPrefix = "fcm_auth_token_"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithCache enables token caching through c.
func WithCache(c Cache) ManagerOption {
	return func(m *Manager) { m.cache = c }
}

// WithHTTPClient replaces the HTTP client used for the token exchange.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(m *Manager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithEndpoint overrides the token endpoint. The endpoint doubles as the
// assertion audience, so overriding it keeps tests self-contained.
func WithEndpoint(endpoint string) ManagerOption {
	return func(m *Manager) {
		if endpoint != "" {
			m.endpoint = endpoint
		}
	}
}

// WithClock replaces the time source, mainly for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// Manager mints access tokens via the OAuth2 JWT-bearer grant and serves
// them from the configured cache while they remain valid.
type Manager struct {
	httpClient *http.Client
	endpoint   string
	cache      Cache
	now        func() time.Time
	log        *slog.Logger
}

// NewManager creates a Manager. Caching is disabled until WithCache is
// supplied.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   DefaultEndpoint,
		now:        time.Now,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// cachedToken is the wire form stored in the external cache.
type cachedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// AccessToken returns a valid bearer token for account, preferring a cached
// one. A failed exchange yields ErrAccessTokenMissing.
func (m *Manager) AccessToken(ctx context.Context, account ServiceAccount) (*AccessToken, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(account.ProjectID)
	if tok := m.fromCache(ctx, key); tok != nil {
		return tok, nil
	}

	assertion, err := m.signAssertion(account)
	if err != nil {
		return nil, err
	}

	tok, expiresIn, err := m.exchange(ctx, assertion)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if ttl := expiresIn - cacheSafetyMargin; ttl > 0 {
			m.toCache(ctx, key, tok, ttl)
		}
	}
	return tok, nil
}

func (m *Manager) fromCache(ctx context.Context, key string) *AccessToken {
	if m.cache == nil {
		return nil
	}

	raw, err := m.cache.Get(ctx, key)
	if err != nil {
		m.log.WarnContext(ctx, "token cache read failed", slog.String("error", err.Error()))
		return nil
	}
	if raw == nil {
		return nil
	}

	var entry cachedToken
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil
	}

	tok := AccessToken{
		Value:     entry.AccessToken,
		TokenType: entry.TokenType,
		ExpiresAt: time.Unix(entry.ExpiresAt, 0),
	}
	if tok.expiredAt(m.now()) {
		return nil
	}
	return &tok
}

func (m *Manager) toCache(ctx context.Context, key string, tok *AccessToken, ttl time.Duration) {
	raw, err := json.Marshal(cachedToken{
		AccessToken: tok.Value,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.ExpiresAt.Unix(),
	})
	if err != nil {
		return
	}
	if err := m.cache.Set(ctx, key, raw, ttl); err != nil {
		m.log.WarnContext(ctx, "token cache write failed", slog.String("error", err.Error()))
	}
}

// signAssertion builds the RS256-signed JWT presented to the token endpoint.
func (m *Manager) signAssertion(account ServiceAccount) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(account.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	now := m.now()
	claims := jwt.MapClaims{
		"iss":   account.ClientEmail,
		"sub":   account.ClientEmail,
		"aud":   m.endpoint,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
		"scope": Scope,
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token: sign assertion: %w", err)
	}
	return assertion, nil
}

// exchange posts the assertion to the token endpoint. Any non-2xx response
// is reported as ErrAccessTokenMissing; the gateway gives no partial result.
func (m *Manager) exchange(ctx context.Context, assertion string) (*AccessToken, time.Duration, error) {
	form := url.Values{
		"grant_type": {grantType},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("token: build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.log.WarnContext(ctx, "token exchange failed", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("%w: %v", ErrAccessTokenMissing, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		m.log.WarnContext(ctx, "token exchange rejected", slog.Int("status", resp.StatusCode))
		return nil, 0, fmt.Errorf("%w: endpoint returned %d", ErrAccessTokenMissing, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
		return nil, 0, ErrAccessTokenMissing
	}

	expiresIn := time.Duration(body.ExpiresIn) * time.Second
	return &AccessToken{
		Value:     body.AccessToken,
		TokenType: body.TokenType,
		ExpiresAt: m.now().Add(expiresIn),
	}, expiresIn, nil
}

// cacheKey hashes the project id so every process sharing the cache derives
// the same key without shipping the raw id around.
func cacheKey(projectID string) string {
	sum := md5.Sum([]byte(projectID))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
