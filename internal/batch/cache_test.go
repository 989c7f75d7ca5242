package batch

import (
	"fmt"
	"testing"

	"github.com/tomaskral/photo-engine/internal/signature"
)

func sig(photoID string) *signature.Signature {
	return &signature.Signature{PhotoID: photoID, PHash: "0000000000000000"}
}

func TestCachePutGet(t *testing.T) {
	cache := NewSignatureCache(4)

	cache.Put(sig("a"))
	cache.Put(sig("b"))

	got, ok := cache.Get("a")
	if !ok || got.PhotoID != "a" {
		t.Fatalf("Get(a) = %v, %v; want cached signature", got, ok)
	}
	if _, ok := cache.Get("missing"); ok {
		t.Error("Get on unknown photo ID should miss")
	}
	if cache.Len() != 2 {
		t.Errorf("Len = %d; want 2", cache.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewSignatureCache(3)

	cache.Put(sig("a"))
	cache.Put(sig("b"))
	cache.Put(sig("c"))
	cache.Put(sig("d")) // evicts a

	if _, ok := cache.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	for _, id := range []string{"b", "c", "d"} {
		if _, ok := cache.Get(id); !ok {
			t.Errorf("entry %s should survive", id)
		}
	}
	if cache.Len() != 3 {
		t.Errorf("Len = %d; want capacity 3", cache.Len())
	}
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	cache := NewSignatureCache(2)

	cache.Put(sig("a"))
	cache.Put(sig("b"))
	cache.Get("a")      // a becomes most recent
	cache.Put(sig("c")) // evicts b

	if _, ok := cache.Get("b"); ok {
		t.Error("b should have been evicted, not a")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("recently used entry must survive eviction")
	}
}

func TestCachePutReplacesExisting(t *testing.T) {
	cache := NewSignatureCache(2)

	cache.Put(sig("a"))
	updated := sig("a")
	updated.Quality = 75
	cache.Put(updated)

	if cache.Len() != 1 {
		t.Fatalf("Len = %d; want 1 after replacing", cache.Len())
	}
	got, _ := cache.Get("a")
	if got.Quality != 75 {
		t.Errorf("Quality = %d; want replaced value 75", got.Quality)
	}
}

func TestCacheMinimumCapacity(t *testing.T) {
	cache := NewSignatureCache(0)

	cache.Put(sig("a"))
	if _, ok := cache.Get("a"); !ok {
		t.Error("zero capacity should be clamped to 1")
	}

	cache.Put(sig("b"))
	if cache.Len() != 1 {
		t.Errorf("Len = %d; want 1", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("a should be evicted with capacity 1")
	}
}

func TestCacheIgnoresNil(t *testing.T) {
	cache := NewSignatureCache(2)
	cache.Put(nil)
	if cache.Len() != 0 {
		t.Errorf("Len = %d; want 0 after nil Put", cache.Len())
	}
}

func TestCacheManyEntries(t *testing.T) {
	cache := NewSignatureCache(16)
	for i := range 100 {
		cache.Put(sig(fmt.Sprintf("photo-%03d", i)))
	}
	if cache.Len() != 16 {
		t.Errorf("Len = %d; want capacity 16", cache.Len())
	}
	if _, ok := cache.Get("photo-099"); !ok {
		t.Error("newest entry should be cached")
	}
	if _, ok := cache.Get("photo-000"); ok {
		t.Error("oldest entries should be gone")
	}
}
