package hub

import (
	"sort"
	"sync"
)

// Presence tracks which user identity currently owns which live connection.
// One handle per user, last writer wins: a second join for the same identity
// replaces the prior handle without closing it, so the superseded connection
// keeps receiving anything still addressed to it directly.
//
// The map is owned exclusively by the hub; every operation takes the mutex so
// Snapshot observes a consistent set. No I/O happens under the lock.
type Presence struct {
	mu     sync.Mutex
	online map[string]*Client
}

func NewPresence() *Presence {
	return &Presence{
		online: make(map[string]*Client),
	}
}

// Join registers or replaces the active connection for userID.
func (p *Presence) Join(userID string, c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[userID] = c
}

// Lookup returns the live connection for userID, if any.
func (p *Presence) Lookup(userID string) (*Client, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.online[userID]
	return c, ok
}

// Leave removes the entry whose handle equals c, if any, and reports the
// identity it belonged to. The disconnect signal carries no user identity,
// so removal scans for the handle instead of trusting any announced ID.
// A handle that was already superseded by a newer join is left alone.
func (p *Presence) Leave(c *Client) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, handle := range p.online {
		if handle == c {
			delete(p.online, userID)
			return userID, true
		}
	}
	return "", false
}

// Snapshot returns the currently online user IDs in sorted order.
func (p *Presence) Snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.online))
	for userID := range p.online {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of online identities.
func (p *Presence) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.online)
}
