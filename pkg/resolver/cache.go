package resolver

import (
	"crypto/ed25519"
	"sync"
	"time"
)

// statusCache is a bounded LRU of delegation status entries. Delegation
// changes rarely relative to request rates, but entries still carry a
// TTL so a stale route self-corrects without an explicit invalidation.
type statusCache struct {
	mu       sync.Mutex
	head     *cacheNode
	tail     *cacheNode
	lookup   map[string]*cacheNode
	capacity int
	ttl      time.Duration
}

// cacheNode is a node in the doubly-linked recency list.
type cacheNode struct {
	next      *cacheNode
	prev      *cacheNode
	key       string
	status    DelegationStatus
	expiresAt time.Time
}

func newStatusCache(capacity int, ttl time.Duration) *statusCache {
	return &statusCache{
		lookup:   make(map[string]*cacheNode),
		capacity: capacity,
		ttl:      ttl,
	}
}

func (c *statusCache) insert(account ed25519.PublicKey, status DelegationStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := string(account)
	if node, found := c.lookup[key]; found {
		node.status = status
		node.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(node)
		return
	}

	node := &cacheNode{
		key:       key,
		status:    status,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.pushFront(node)
	c.lookup[key] = node

	for len(c.lookup) > c.capacity && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		delete(c.lookup, evicted.key)
	}
}

func (c *statusCache) retrieve(account ed25519.PublicKey) (DelegationStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := string(account)
	node, found := c.lookup[key]
	if !found {
		return DelegationStatusUnknown, false
	}

	if time.Now().After(node.expiresAt) {
		c.unlink(node)
		delete(c.lookup, key)
		return DelegationStatusUnknown, false
	}

	c.moveToFront(node)
	return node.status, true
}

func (c *statusCache) remove(account ed25519.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := string(account)
	node, found := c.lookup[key]
	if !found {
		return
	}

	c.unlink(node)
	delete(c.lookup, key)
}

func (c *statusCache) pushFront(node *cacheNode) {
	node.next = c.head
	node.prev = nil
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *statusCache) unlink(node *cacheNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
	node.next = nil
	node.prev = nil
}

func (c *statusCache) moveToFront(node *cacheNode) {
	if node == c.head {
		return
	}
	c.unlink(node)
	c.pushFront(node)
}
