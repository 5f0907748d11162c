package profile

import (
	"sync"

	"orbit-relay/internal/protocol"
)

type entry struct {
	account   Account
	invisible bool
}

// Cache is the live profile directory: one entry per logged-in account,
// inserted at login and dropped at disconnect. Invisible players are hidden
// from non-moderator lookups.
type Cache struct {
	mu      sync.RWMutex
	entries map[int32]entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int32]entry)}
}

func (c *Cache) Put(account Account, invisible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[account.ID] = entry{account: account, invisible: invisible}
}

func (c *Cache) Remove(accountID int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, accountID)
}

// Lookup returns the account's public view. Absent accounts and, for
// non-moderator callers, invisible accounts report ok=false.
func (c *Cache) Lookup(accountID int32, moderator bool) (protocol.PlayerProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[accountID]
	if !ok || (e.invisible && !moderator) {
		return protocol.PlayerProfile{}, false
	}
	return e.account.View(), true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
