package client

import "sync"

// Credentials holds the bearer tokens the client attaches to requests. It is
// an explicit store injected into the client so callers control token
// lifetime; a 401 from the backend wipes both tokens.
type Credentials struct {
	mu         sync.RWMutex
	userToken  string
	adminToken string
}

// NewCredentials builds an empty token store.
func NewCredentials() *Credentials {
	return &Credentials{}
}

// SetUserToken stores the regular-session bearer token.
func (c *Credentials) SetUserToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userToken = token
}

// SetAdminToken stores the admin bearer token.
func (c *Credentials) SetAdminToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adminToken = token
}

// UserToken returns the stored user token, empty when unset.
func (c *Credentials) UserToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userToken
}

// AdminToken returns the stored admin token, empty when unset.
func (c *Credentials) AdminToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adminToken
}

// Clear drops both tokens. Called on 401 so a stale session cannot be reused.
func (c *Credentials) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userToken = ""
	c.adminToken = ""
}
