// Package token acquires and caches Google OAuth2 access tokens for the FCM
// v1 API.
//
// A ServiceAccount carries the project id, RSA private key and client email
// of a Firebase service account; accounts are usually loaded by name from a
// YAML file via LoadAccounts. The Manager exchanges a signed RS256 JWT
// assertion for a bearer token at Google's token endpoint (the OAuth2
// JWT-bearer grant) and optionally stores the result in a pluggable Cache —
// an in-memory implementation and a Redis adapter are provided.
//
// Cached tokens are stored with a TTL of expires_in minus a 60 second safety
// margin, keyed by a hash of the project id so unrelated processes sharing a
// cache agree on the key. AccessToken.ExpiringSoon reports true within 10
// seconds of expiry so callers can refresh proactively instead of sending
// with a token that dies in flight.
//
// # Usage
//
//	accounts, err := token.LoadAccounts("firebase-accounts.yaml")
//	if err != nil { ... }
//	account, err := accounts.Resolve("main")
//	if err != nil { ... }
//
//	mgr := token.NewManager(token.WithCache(token.NewMemoryCache()))
//	tok, err := mgr.AccessToken(ctx, account)
//	if err != nil { ... }
package token
