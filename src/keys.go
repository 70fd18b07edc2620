package src

import (
	"regexp"
	"strings"

	"github.com/tidwall/btree"
)

// AllKeys 有序的key索引, 保存时按key的顺序输出
type AllKeys struct {
	keys *btree.BTreeG[*keyItem]
}

type keyItem struct {
	key   string
	value Value
}

func NewAllKeys() *AllKeys {
	return &AllKeys{
		keys: btree.NewBTreeG[*keyItem](func(a, b *keyItem) bool {
			return a.key < b.key
		}),
	}
}

// Put stores v under key and reports whether key was new.
func (a *AllKeys) Put(key string, v Value) bool {
	_, replaced := a.keys.Set(&keyItem{key: key, value: v})
	return !replaced
}

func (a *AllKeys) Get(key string) (Value, bool) {
	item, ok := a.keys.Get(&keyItem{key: key})
	if !ok {
		return nil, false
	}
	return item.value, true
}

func (a *AllKeys) Remove(key string) bool {
	_, ok := a.keys.Delete(&keyItem{key: key})
	return ok
}

func (a *AllKeys) Exist(key string) bool {
	_, ok := a.keys.Get(&keyItem{key: key})
	return ok
}

func (a *AllKeys) Len() int {
	return a.keys.Len()
}

// Ascend calls fn for every key in order until fn returns false.
func (a *AllKeys) Ascend(fn func(key string, v Value) bool) {
	a.keys.Scan(func(item *keyItem) bool {
		return fn(item.key, item.value)
	})
}

// Match returns the keys matching a glob pattern, in order.
func (a *AllKeys) Match(pattern string) []string {
	re := globToRegexp(pattern)
	matching := make([]string, 0)
	a.Ascend(func(key string, _ Value) bool {
		if re.MatchString(key) {
			matching = append(matching, key)
		}
		return true
	})
	return matching
}

// globToRegexp supports * and ?; everything else matches literally.
func globToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}
