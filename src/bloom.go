package src

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// BloomFilter is the existence pre-check in front of the key index. Bits are
// only ever set, so a key that was added is never reported absent.
type BloomFilter struct {
	bits   *bitset.BitSet
	size   uint64
	hashes int
}

func NewBloomFilter(size uint, hashes int) *BloomFilter {
	if size == 0 {
		size = DefaultBloomFilterSize
	}
	if hashes < 1 {
		hashes = 1
	}
	return &BloomFilter{
		bits:   bitset.New(size),
		size:   uint64(size),
		hashes: hashes,
	}
}

// positions derives the bit indexes of key by double hashing one xxhash sum.
func (f *BloomFilter) positions(key string, fn func(i uint) bool) {
	h := xxhash.Sum64String(key)
	step := h>>33 | 1
	for i := 0; i < f.hashes; i++ {
		if !fn(uint((h + uint64(i)*step) % f.size)) {
			return
		}
	}
}

func (f *BloomFilter) Add(key string) {
	f.positions(key, func(i uint) bool {
		f.bits.Set(i)
		return true
	})
}

// MaybeContains is false only when key was definitely never added.
func (f *BloomFilter) MaybeContains(key string) bool {
	found := true
	f.positions(key, func(i uint) bool {
		found = f.bits.Test(i)
		return found
	})
	return found
}

// Saturation is the fraction of bits set.
func (f *BloomFilter) Saturation() float64 {
	return float64(f.bits.Count()) / float64(f.size)
}
