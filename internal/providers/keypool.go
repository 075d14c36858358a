// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import "sync"

// Credential is one API key pair for a collaborator that meters per key.
type Credential struct {
	Key    string
	Secret string
}

// KeyPool hands out credentials round-robin so load spreads across every
// configured key pair. Rotation is independent of adapter business logic:
// adapters check out a credential whenever they need to (re)authenticate.
// Per prd010-discovery R5.3.
type KeyPool struct {
	mu    sync.Mutex
	creds []Credential
	next  int
}

// NewKeyPool returns a pool over the given credentials. An empty pool is
// valid; Checkout then returns the zero Credential.
func NewKeyPool(creds []Credential) *KeyPool {
	return &KeyPool{creds: creds}
}

// Checkout returns the next credential in rotation.
func (p *KeyPool) Checkout() Credential {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.creds) == 0 {
		return Credential{}
	}
	c := p.creds[p.next%len(p.creds)]
	p.next++
	return c
}

// Size reports how many credentials are in rotation.
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.creds)
}
