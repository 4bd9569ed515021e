package plancache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/security"
)

// TTL is the cached-result lifetime before a fingerprint must
// regenerate. A read within TTL refreshes it.
const TTL = 24 * time.Hour

// LocalCapacity bounds the in-process LRU fallback used when Redis is
// unavailable or unconfigured.
const LocalCapacity = 1024

// Entry is everything a cache hit needs to answer a plan request
// without re-running generation.
type Entry struct {
	Trip      models.Trip       `json:"trip"`
	Itinerary models.Itinerary  `json:"itinerary"`
	DayIntros []models.DayIntro `json:"dayIntros"`
}

// Cache is a fingerprint-keyed store for generated itineraries. It
// prefers Redis when configured and falls back to an in-process LRU,
// so a single node still benefits from memoization without Redis.
type Cache struct {
	redis     *redis.Client
	encryptor *security.Encryptor
	local     *lru
}

// New builds a Cache. A nil redisClient runs purely on the local LRU,
// useful for tests and single-process deployments. A nil encryptor
// stores the Redis tier's payload as plain JSON; callers holding
// personal trip data in production should pass one.
func New(redisClient *redis.Client, encryptor *security.Encryptor) *Cache {
	return &Cache{redis: redisClient, encryptor: encryptor, local: newLRU(LocalCapacity)}
}

// HealthCheck pings the Redis tier, if configured. A cache running
// purely on the local LRU reports healthy by definition.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("plan cache redis health check failed: %w", err)
	}
	return nil
}

// Get returns the cached entry for fingerprint, refreshing its TTL on
// a hit.
func (c *Cache) Get(ctx context.Context, fingerprint string) (*Entry, bool) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, redisKey(fingerprint)).Bytes()
		if err == nil {
			if plain, ok := c.decrypt(data); ok {
				var entry Entry
				if json.Unmarshal(plain, &entry) == nil {
					c.redis.Expire(ctx, redisKey(fingerprint), TTL)
					return &entry, true
				}
			}
		} else if err != redis.Nil {
			// Redis hiccup: fall through to the local cache rather than
			// treating it as an authoritative miss.
		}
	}
	return c.local.get(fingerprint)
}

// Set stores entry under fingerprint in both tiers.
func (c *Cache) Set(ctx context.Context, fingerprint string, entry Entry) {
	if c.redis != nil {
		if data, err := json.Marshal(entry); err == nil {
			if sealed, ok := c.encrypt(data); ok {
				c.redis.Set(ctx, redisKey(fingerprint), sealed, TTL)
			}
		}
	}
	c.local.set(fingerprint, entry)
}

// encrypt seals data when an encryptor is configured, otherwise
// passes it through unchanged.
func (c *Cache) encrypt(data []byte) ([]byte, bool) {
	if c.encryptor == nil {
		return data, true
	}
	sealed, err := c.encryptor.EncryptBytes(data)
	return sealed, err == nil
}

// decrypt reverses encrypt.
func (c *Cache) decrypt(data []byte) ([]byte, bool) {
	if c.encryptor == nil {
		return data, true
	}
	plain, err := c.encryptor.DecryptBytes(data)
	return plain, err == nil
}

func redisKey(fingerprint string) string {
	return fmt.Sprintf("itinerary:%s", fingerprint)
}

// lru is a fixed-capacity, recency-ordered cache keyed by fingerprint,
// built over container/list for true least-recently-used eviction
// rather than oldest-insertion eviction.
type lru struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type lruEntry struct {
	key       string
	entry     Entry
	expiresAt time.Time
}

func newLRU(capacity int) *lru {
	return &lru{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

func (c *lru) get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*lruEntry)
	if time.Now().After(e.expiresAt) {
		c.ll.Remove(el)
		delete(c.items, key)
		return nil, false
	}
	e.expiresAt = time.Now().Add(TTL)
	c.ll.MoveToFront(el)
	out := e.entry
	return &out, true
}

func (c *lru) set(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).entry = entry
		el.Value.(*lruEntry).expiresAt = time.Now().Add(TTL)
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&lruEntry{key: key, entry: entry, expiresAt: time.Now().Add(TTL)})
	c.items[key] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}
