package plancache

import (
	"context"
	"testing"

	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/security"
)

func TestCacheLocalRoundTrip(t *testing.T) {
	c := New(nil, nil)
	ctx := context.Background()

	entry := Entry{Trip: models.Trip{ID: "trip-1"}}
	c.Set(ctx, "fp-1", entry)

	got, ok := c.Get(ctx, "fp-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Trip.ID != "trip-1" {
		t.Errorf("unexpected trip id %q", got.Trip.ID)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(nil, nil)
	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Error("expected miss for unknown fingerprint")
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	l := newLRU(2)
	l.set("a", Entry{Trip: models.Trip{ID: "a"}})
	l.set("b", Entry{Trip: models.Trip{ID: "b"}})

	// Touch "a" so "b" becomes the least recently used entry.
	if _, ok := l.get("a"); !ok {
		t.Fatal("expected a to be present")
	}

	l.set("c", Entry{Trip: models.Trip{ID: "c"}})

	if _, ok := l.get("b"); ok {
		t.Error("expected b to be evicted as least recently used")
	}
	if _, ok := l.get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := l.get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestResolverCacheHitSkipsGenerate(t *testing.T) {
	r := NewResolver(New(nil, nil))
	req := models.TripRequest{Duration: 1, Cities: []string{"kyoto"}, Pace: models.PaceBalanced}
	calls := 0
	gen := func(ctx context.Context, req models.TripRequest) (*Entry, error) {
		calls++
		return &Entry{Trip: models.Trip{ID: "generated"}}, nil
	}

	if _, hit, err := r.Resolve(context.Background(), req, gen); err != nil || hit {
		t.Fatalf("expected first call to miss, err=%v hit=%v", err, hit)
	}
	entry, hit, err := r.Resolve(context.Background(), req, gen)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("expected second call to hit the cache")
	}
	if entry.Trip.ID != "generated" {
		t.Errorf("unexpected cached trip id %q", entry.Trip.ID)
	}
	if calls != 1 {
		t.Errorf("expected generate to run exactly once, ran %d times", calls)
	}
}

func TestCacheEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := security.NewEncryptor("test-passphrase")
	if err != nil {
		t.Fatal(err)
	}
	c := New(nil, enc)

	sealed, ok := c.encrypt([]byte(`{"trip":"kyoto"}`))
	if !ok {
		t.Fatal("expected encrypt to succeed")
	}
	plain, ok := c.decrypt(sealed)
	if !ok {
		t.Fatal("expected decrypt to succeed")
	}
	if string(plain) != `{"trip":"kyoto"}` {
		t.Errorf("round trip mismatch: got %q", plain)
	}
}

func TestResolverBypassAlwaysGenerates(t *testing.T) {
	r := NewResolver(New(nil, nil))
	req := models.TripRequest{Duration: 1, Cities: []string{"kyoto"}, Pace: models.PaceBalanced, SavedIDs: []string{"kyoto-1"}}
	calls := 0
	gen := func(ctx context.Context, req models.TripRequest) (*Entry, error) {
		calls++
		return &Entry{Trip: models.Trip{ID: "generated"}}, nil
	}

	for i := 0; i < 2; i++ {
		if _, hit, err := r.Resolve(context.Background(), req, gen); err != nil || hit {
			t.Fatalf("expected bypassed request to never hit, err=%v hit=%v", err, hit)
		}
	}
	if calls != 2 {
		t.Errorf("expected generate to run for every bypassed call, ran %d times", calls)
	}
}
