package data

import (
	"container/list"
	"sync"
	"time"
)

// localLRU is a bounded in-memory cache with per-entry expiry. It is safe for
// concurrent use.
type localLRU struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List // front = most recently used
	items map[string]*list.Element
	now   func() time.Time
}

type lruEntry struct {
	key    string
	value  []byte
	expiry time.Time // zero never expires
}

func newLocalLRU(capacity int, now func() time.Time) *localLRU {
	if now == nil {
		now = time.Now
	}
	return &localLRU{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element, capacity),
		now:   now,
	}
}

func (c *localLRU) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*lruEntry)
	if !ent.expiry.IsZero() && c.now().After(ent.expiry) {
		c.remove(el)
		return nil, false
	}
	c.ll.MoveToFront(el)
	return ent.value, true
}

// set stores value until ttl elapses; ttl <= 0 never expires.
func (c *localLRU) set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*lruEntry)
		ent.value, ent.expiry = value, exp
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&lruEntry{key: key, value: value, expiry: exp})
	for c.ll.Len() > c.cap {
		c.remove(c.ll.Back())
	}
}

func (c *localLRU) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

func (c *localLRU) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// remove requires c.mu.
func (c *localLRU) remove(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*lruEntry).key)
}
