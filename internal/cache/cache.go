// Package cache implements the result cache: a sharded, TTL-bounded LRU
// mapping a normalized query fingerprint to a previously computed result set.
// Entries are distributed across shards by key hash so a get and a put for
// different keys rarely contend on the same lock.
package cache

import (
	"container/list"
	"hash/maphash"
	"sync"
	"sync/atomic"
	"time"

	"location-api/internal/models"
)

const numShards = 16

// ResultCache is safe for concurrent use by multiple search requests.
type ResultCache struct {
	shards [numShards]*shard
	seed   maphash.Seed
	ttl    time.Duration
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64

	stopSweep chan struct{}
	sweepOnce sync.Once
}

type shard struct {
	mu        sync.Mutex
	items     map[string]*list.Element
	evictList *list.List
	capacity  int
}

type entry struct {
	key        string
	result     []models.Location
	insertedAt time.Time
}

// New creates a ResultCache holding at most capacity entries with the given
// TTL. When sweepInterval is positive a background janitor purges expired
// entries; expiry is also checked lazily on every Get, so the janitor only
// bounds memory held by keys that are never read again. Call Close to stop
// the janitor.
func New(capacity int, ttl, sweepInterval time.Duration) *ResultCache {
	shardCapacity := capacity / numShards
	if shardCapacity < 1 {
		shardCapacity = 1
	}

	c := &ResultCache{
		seed:      maphash.MakeSeed(),
		ttl:       ttl,
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}
	for i := range c.shards {
		c.shards[i] = &shard{
			items:     make(map[string]*list.Element),
			evictList: list.New(),
			capacity:  shardCapacity,
		}
	}

	if sweepInterval > 0 {
		go c.sweep(sweepInterval)
	}
	return c
}

func (c *ResultCache) shard(key string) *shard {
	return c.shards[maphash.String(c.seed, key)%numShards]
}

// Get returns the cached result for key. An entry older than the TTL is
// treated as a miss and purged in place.
func (c *ResultCache) Get(key string) ([]models.Location, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	e := ent.Value.(*entry)
	if c.expired(e) {
		s.remove(ent)
		c.misses.Add(1)
		return nil, false
	}
	s.evictList.MoveToFront(ent)
	c.hits.Add(1)
	return e.result, true
}

// Put stores a computed result under key, evicting the least-recently-used
// entry of the shard when it is full. Storing an existing key refreshes both
// its value and its age.
func (c *ResultCache) Put(key string, result []models.Location) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[key]; ok {
		e := ent.Value.(*entry)
		e.result = result
		e.insertedAt = c.now()
		s.evictList.MoveToFront(ent)
		return
	}

	for s.evictList.Len() >= s.capacity {
		oldest := s.evictList.Back()
		if oldest == nil {
			break
		}
		s.remove(oldest)
	}

	ent := s.evictList.PushFront(&entry{key: key, result: result, insertedAt: c.now()})
	s.items[key] = ent
}

// Len returns the current entry count across all shards, including entries
// that have expired but not yet been purged.
func (c *ResultCache) Len() int {
	var n int
	for _, s := range c.shards {
		s.mu.Lock()
		n += s.evictList.Len()
		s.mu.Unlock()
	}
	return n
}

// Stats returns cumulative hit and miss counts.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Close stops the background janitor. The cache remains usable afterwards.
func (c *ResultCache) Close() {
	c.sweepOnce.Do(func() { close(c.stopSweep) })
}

func (c *ResultCache) expired(e *entry) bool {
	return c.ttl > 0 && c.now().Sub(e.insertedAt) > c.ttl
}

func (c *ResultCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopSweep:
			return
		case <-ticker.C:
			for _, s := range c.shards {
				s.mu.Lock()
				var stale []*list.Element
				for _, ent := range s.items {
					if c.expired(ent.Value.(*entry)) {
						stale = append(stale, ent)
					}
				}
				for _, ent := range stale {
					s.remove(ent)
				}
				s.mu.Unlock()
			}
		}
	}
}

// remove expects the shard lock to be held.
func (s *shard) remove(ent *list.Element) {
	s.evictList.Remove(ent)
	delete(s.items, ent.Value.(*entry).key)
}
