package src

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloomNoFalseNegatives(t *testing.T) {
	for _, hashes := range []int{1, 3} {
		f := NewBloomFilter(1024, hashes)
		for i := 0; i < 2000; i++ {
			f.Add("key:" + strconv.Itoa(i))
		}
		for i := 0; i < 2000; i++ {
			assert.True(t, f.MaybeContains("key:"+strconv.Itoa(i)), "hashes=%d key %d", hashes, i)
		}
	}
}

func TestBloomEmpty(t *testing.T) {
	f := NewBloomFilter(64, 2)
	assert.False(t, f.MaybeContains("anything"))
	assert.Equal(t, 0.0, f.Saturation())

	f.Add("a")
	assert.True(t, f.MaybeContains("a"))
	assert.Greater(t, f.Saturation(), 0.0)
}

func TestBloomDefaults(t *testing.T) {
	f := NewBloomFilter(0, 0)
	assert.Equal(t, uint64(DefaultBloomFilterSize), f.size)
	assert.Equal(t, 1, f.hashes)
}
