package src

import (
	"sync"

	"blinkdb/src/log"
)

// KeySpace 全局唯一的数据库, 所有命令都在一把读写锁下执行
type KeySpace struct {
	mu       sync.RWMutex
	keys     *AllKeys
	tracker  *LRUTracker
	filter   *BloomFilter
	capacity int
}

// Entry is one live key with a deep copy of its value.
type Entry struct {
	Key   string
	Value Value
}

func NewKeySpace(capacity, bloomSize, bloomHashes int) *KeySpace {
	if capacity < 1 {
		capacity = DefaultCacheSize
	}
	if bloomSize < 1 {
		bloomSize = DefaultBloomFilterSize
	}
	return &KeySpace{
		keys:     NewAllKeys(),
		tracker:  NewLRUTracker(),
		filter:   NewBloomFilter(uint(bloomSize), bloomHashes),
		capacity: capacity,
	}
}

func (db *KeySpace) Capacity() int {
	return db.capacity
}

func (db *KeySpace) BloomSaturation() float64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.filter.Saturation()
}

// lookup resolves key to a value of kind T. A key the filter has never seen
// is absent without consulting the index. A value of another kind yields
// ErrWrongType and is left untouched.
func lookup[T Value](db *KeySpace, key string) (T, bool, error) {
	var zero T
	if !db.filter.MaybeContains(key) {
		return zero, false, nil
	}
	v, ok := db.keys.Get(key)
	if !ok {
		return zero, false, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false, ErrWrongType
	}
	return typed, true, nil
}

// getOrCreate returns the collection at key, inserting create() when the key
// is unknown.
func getOrCreate[T collection](db *KeySpace, key string, create func() T) (T, error) {
	existing, ok, err := lookup[T](db, key)
	if err != nil {
		return existing, err
	}
	if ok {
		return existing, nil
	}
	c := create()
	db.put(key, c)
	return c, nil
}

func (db *KeySpace) put(key string, v Value) {
	db.keys.Put(key, v)
	db.filter.Add(key)
	keysGauge.Set(float64(db.keys.Len()))
}

func (db *KeySpace) touch(key string) {
	db.tracker.Touch(key)
}

func (db *KeySpace) remove(key string) bool {
	removed := db.keys.Remove(key)
	db.tracker.Remove(key)
	keysGauge.Set(float64(db.keys.Len()))
	return removed
}

// removeIfEmpty deletes key once its collection has no elements left.
func (db *KeySpace) removeIfEmpty(key string, c collection) {
	if c.Len() == 0 {
		db.remove(key)
	}
}

// evictIfNeeded drops least recently used keys from the tracker and the index
// together until the key count is back within capacity. Caller holds mu.
func (db *KeySpace) evictIfNeeded() {
	for db.keys.Len() > db.capacity {
		key, err := db.tracker.EvictOldest()
		if err != nil {
			log.DBLogger.Errorf("evict: %v, %d keys over capacity %d", err, db.keys.Len(), db.capacity)
			return
		}
		db.keys.Remove(key)
		evictionsTotal.Inc()
		log.DBLogger.Debugf("evicted key %s", key)
	}
	keysGauge.Set(float64(db.keys.Len()))
}

// Del removes key and reports whether it existed.
func (db *KeySpace) Del(key string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.remove(key)
}

// Type returns the kind name of the value at key, or "none".
func (db *KeySpace) Type(key string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok, _ := lookup[Value](db, key)
	if !ok {
		return "none"
	}
	db.touch(key)
	return v.Kind().String()
}

func (db *KeySpace) Exists(key string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok, _ := lookup[Value](db, key)
	if ok {
		db.touch(key)
	}
	return ok
}

func (db *KeySpace) DBSize() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.keys.Len()
}

// Keys returns the live keys matching a glob pattern, sorted.
func (db *KeySpace) Keys(pattern string) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.keys.Match(pattern)
}

// Snapshot copies every live entry in key order. The copies are safe to read
// after the lock is released.
func (db *KeySpace) Snapshot() []Entry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	entries := make([]Entry, 0, db.keys.Len())
	db.keys.Ascend(func(key string, v Value) bool {
		entries = append(entries, Entry{Key: key, Value: v.Clone()})
		return true
	})
	return entries
}

// Restore inserts a decoded value through the normal write path: the key is
// registered in the filter, touched and the capacity bound is enforced.
func (db *KeySpace) Restore(key string, v Value) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.put(key, v)
	db.touch(key)
	db.evictIfNeeded()
}
