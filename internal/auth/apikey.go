package auth

import "net/http"

// HeaderName is the header carrying the API key
const HeaderName = "X-Api-Key"

// APIKeyAuth is the API key the client presents when connecting
type APIKeyAuth struct {
	key string
}

// NewAPIKeyAuth creates an authenticator for key. An empty key sends no
// header.
func NewAPIKeyAuth(key string) *APIKeyAuth {
	return &APIKeyAuth{key: key}
}

// IsSet reports whether a key is configured
func (a *APIKeyAuth) IsSet() bool {
	return a != nil && a.key != ""
}

// Apply adds the key to h
func (a *APIKeyAuth) Apply(h http.Header) {
	if a.IsSet() {
		h.Set(HeaderName, a.key)
	}
}

// Header returns a fresh header carrying the key
func (a *APIKeyAuth) Header() http.Header {
	h := http.Header{}
	a.Apply(h)
	return h
}

// Redacted returns the key safe for logs
func (a *APIKeyAuth) Redacted() string {
	if !a.IsSet() {
		return ""
	}
	if len(a.key) <= 4 {
		return "****"
	}
	return a.key[:4] + "****"
}
