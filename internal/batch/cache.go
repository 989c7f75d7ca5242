package batch

import (
	"container/list"

	"github.com/tomaskral/photo-engine/internal/signature"
)

// SignatureCache is a fixed-capacity LRU over computed signatures, keyed by
// photo ID. It is an owned collaborator of the batch driver, not a global:
// pass it in, do not share it. Not safe for concurrent use on its own; the
// driver serializes access.
type SignatureCache struct {
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type cacheEntry struct {
	photoID   string
	signature *signature.Signature
}

// NewSignatureCache creates a cache holding at most capacity signatures.
// Capacity below 1 is treated as 1.
func NewSignatureCache(capacity int) *SignatureCache {
	if capacity < 1 {
		capacity = 1
	}
	return &SignatureCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached signature for a photo ID and marks it recently
// used.
func (c *SignatureCache) Get(photoID string) (*signature.Signature, bool) {
	elem, ok := c.entries[photoID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).signature, true
}

// Put stores a signature, evicting the least recently used entry beyond
// capacity.
func (c *SignatureCache) Put(sig *signature.Signature) {
	if sig == nil {
		return
	}

	if elem, ok := c.entries[sig.PhotoID]; ok {
		elem.Value.(*cacheEntry).signature = sig
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheEntry{photoID: sig.PhotoID, signature: sig})
	c.entries[sig.PhotoID] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).photoID)
	}
}

// Len returns the number of cached signatures.
func (c *SignatureCache) Len() int {
	return c.order.Len()
}
