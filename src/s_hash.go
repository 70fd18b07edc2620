package src

// Hash 基本上和set一样, field 唯一
type Hash struct {
	M map[string]string
}

func NewHash() *Hash {
	return &Hash{M: make(map[string]string)}
}

func (h *Hash) Kind() Kind { return KindHash }

func (h *Hash) Marshal() string { return encodeHash(h.M) }

func (h *Hash) Clone() Value {
	c := &Hash{M: make(map[string]string, len(h.M))}
	for f, v := range h.M {
		c.M[f] = v
	}
	return c
}

func (h *Hash) sealed() {}

func (h *Hash) Len() int { return len(h.M) }

// Set reports whether field is new.
func (h *Hash) Set(field, value string) bool {
	_, exists := h.M[field]
	h.M[field] = value
	return !exists
}

func (h *Hash) Get(field string) (string, bool) {
	v, ok := h.M[field]
	return v, ok
}

func (h *Hash) Exists(field string) bool {
	_, ok := h.M[field]
	return ok
}

func (h *Hash) Delete(field string) bool {
	if _, ok := h.M[field]; !ok {
		return false
	}
	delete(h.M, field)
	return true
}

func (h *Hash) Keys() []string {
	out := make([]string, 0, len(h.M))
	for f := range h.M {
		out = append(out, f)
	}
	return out
}

func (h *Hash) Values() []string {
	out := make([]string, 0, len(h.M))
	for _, v := range h.M {
		out = append(out, v)
	}
	return out
}

// All returns a copy of the field/value mapping.
func (h *Hash) All() map[string]string {
	return h.Clone().(*Hash).M
}

func (db *KeySpace) HSet(key, field, value string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	hash, err := getOrCreate(db, key, NewHash)
	if err != nil {
		return false, err
	}
	added := hash.Set(field, value)
	db.touch(key)
	db.evictIfNeeded()
	return added, nil
}

func (db *KeySpace) HGet(key, field string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	hash, ok, err := lookup[*Hash](db, key)
	if !ok || err != nil {
		return "", false, err
	}
	db.touch(key)
	v, ok := hash.Get(field)
	return v, ok, nil
}

func (db *KeySpace) HExists(key, field string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	hash, ok, err := lookup[*Hash](db, key)
	if !ok || err != nil {
		return false, err
	}
	db.touch(key)
	return hash.Exists(field), nil
}

func (db *KeySpace) HDel(key, field string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	hash, ok, err := lookup[*Hash](db, key)
	if !ok || err != nil {
		return false, err
	}
	removed := hash.Delete(field)
	db.touch(key)
	db.removeIfEmpty(key, hash)
	return removed, nil
}

func (db *KeySpace) HLen(key string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	hash, ok, err := lookup[*Hash](db, key)
	if !ok || err != nil {
		return 0, err
	}
	db.touch(key)
	return hash.Len(), nil
}

// hashRead runs fn against the hash at key; absent keys yield a nil result.
func hashRead[T any](db *KeySpace, key string, fn func(*Hash) T) (T, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var zero T
	hash, ok, err := lookup[*Hash](db, key)
	if !ok || err != nil {
		return zero, false, err
	}
	db.touch(key)
	return fn(hash), true, nil
}

func (db *KeySpace) HKeys(key string) ([]string, error) {
	keys, ok, err := hashRead(db, key, (*Hash).Keys)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	return keys, nil
}

func (db *KeySpace) HVals(key string) ([]string, error) {
	vals, ok, err := hashRead(db, key, (*Hash).Values)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	return vals, nil
}

func (db *KeySpace) HGetAll(key string) (map[string]string, error) {
	all, ok, err := hashRead(db, key, (*Hash).All)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]string{}, nil
	}
	return all, nil
}
