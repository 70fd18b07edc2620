package src

import (
	"errors"
	"math"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

var ErrTrackerEmpty = errors.New("recency tracker is empty")

// LRUTracker orders keys by last touch. It never drops entries on its own:
// the capacity bound lives in KeySpace, which evicts through EvictOldest so
// that the index and the tracker change in the same critical section.
type LRUTracker struct {
	l *simplelru.LRU[string, struct{}]
}

func NewLRUTracker() *LRUTracker {
	// math.MaxInt keeps simplelru from ever evicting by itself
	l, err := simplelru.NewLRU[string, struct{}](math.MaxInt, nil)
	if err != nil {
		panic(err)
	}
	return &LRUTracker{l: l}
}

// Touch moves key to the most recent position, adding it if absent.
func (t *LRUTracker) Touch(key string) {
	t.l.Add(key, struct{}{})
}

// EvictOldest removes and returns the least recently touched key.
func (t *LRUTracker) EvictOldest() (string, error) {
	key, _, ok := t.l.RemoveOldest()
	if !ok {
		return "", ErrTrackerEmpty
	}
	return key, nil
}

// Oldest returns the least recently touched key without removing it.
func (t *LRUTracker) Oldest() (string, bool) {
	key, _, ok := t.l.GetOldest()
	return key, ok
}

func (t *LRUTracker) Remove(key string) {
	t.l.Remove(key)
}

func (t *LRUTracker) Contains(key string) bool {
	return t.l.Contains(key)
}

func (t *LRUTracker) Len() int {
	return t.l.Len()
}

// Keys returns keys from oldest to newest.
func (t *LRUTracker) Keys() []string {
	return t.l.Keys()
}
