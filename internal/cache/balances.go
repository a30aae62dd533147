// Package cache holds the in-memory balance view cache. Caching is an
// optimization only: entries carry the ledger version they were
// computed from, and the service refuses to serve an entry whose
// version no longer matches the store, so a cached response can never
// diverge from a fresh recomputation.
package cache

import (
	"container/list"
	"sync"
	"time"

	"splitledger/internal/models"
)

// BalanceView is a computed balances-plus-transfers result for one
// group at one ledger version.
type BalanceView struct {
	GroupID   string
	Version   int64
	Balances  map[string]int64
	Transfers []models.Transfer
}

// Balances is an LRU cache of balance views keyed by group ID, with
// TTL and size-based eviction.
type Balances struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type entry struct {
	groupID   string
	view      *BalanceView
	expiresAt time.Time
}

// NewBalances creates a balance cache holding at most maxSize groups,
// each entry living at most ttl.
func NewBalances(maxSize int, ttl time.Duration) *Balances {
	return &Balances{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the cached view for a group, if present and unexpired.
// The caller still has to compare the view's version against the
// store before serving it.
func (c *Balances) Get(groupID string) (*BalanceView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[groupID]
	if !ok {
		return nil, false
	}

	e := elem.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return nil, false
	}

	c.lru.MoveToFront(elem)
	return e.view, true
}

// Set stores a view, replacing any previous entry for the group.
func (c *Balances) Set(view *BalanceView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{
		groupID:   view.GroupID,
		view:      view,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, ok := c.items[view.GroupID]; ok {
		elem.Value = e
		c.lru.MoveToFront(elem)
		return
	}

	c.items[view.GroupID] = c.lru.PushFront(e)

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Invalidate drops a group's entry. Called on every ledger write
// before the write returns to its caller.
func (c *Balances) Invalidate(groupID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[groupID]; ok {
		c.remove(elem)
	}
}

// Size returns the number of cached groups.
func (c *Balances) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Balances) remove(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(c.items, e.groupID)
	c.lru.Remove(elem)
}
