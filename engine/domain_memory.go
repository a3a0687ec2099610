package engine

import (
	"sync"
	"time"
)

// domainEntry stores the preferred engine for a host with an expiry.
type domainEntry struct {
	engineName string
	expiresAt  time.Time
}

// DomainMemory remembers which engine last won for each host, so later
// pages from the same site skip straight to it.
type DomainMemory struct {
	mu    sync.Mutex
	store map[string]domainEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewDomainMemory creates a DomainMemory whose entries live for ttl.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	return &DomainMemory{
		store: make(map[string]domainEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the remembered engine for host, or "" if none or expired.
func (dm *DomainMemory) Get(host string) string {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	e, ok := dm.store[host]
	if !ok {
		return ""
	}
	if dm.now().After(e.expiresAt) {
		delete(dm.store, host)
		return ""
	}
	return e.engineName
}

// Set records which engine succeeded for host.
func (dm *DomainMemory) Set(host, engineName string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.store[host] = domainEntry{engineName: engineName, expiresAt: dm.now().Add(dm.ttl)}
}

// Delete forgets host, e.g. after the remembered engine fails.
func (dm *DomainMemory) Delete(host string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.store, host)
}
