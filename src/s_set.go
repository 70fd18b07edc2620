package src

// Set 表的实现直接使用go的map, 无序且自动去重
type Set struct {
	M map[string]struct{}
}

func NewSet(members ...string) *Set {
	s := &Set{M: make(map[string]struct{}, len(members))}
	for _, m := range members {
		s.M[m] = struct{}{}
	}
	return s
}

func (s *Set) Kind() Kind { return KindSet }

func (s *Set) Marshal() string { return encodeElems('S', s.Members()) }

func (s *Set) Clone() Value { return NewSet(s.Members()...) }

func (s *Set) sealed() {}

func (s *Set) Len() int { return len(s.M) }

// Add reports whether member was newly inserted.
func (s *Set) Add(member string) bool {
	if _, ok := s.M[member]; ok {
		return false
	}
	s.M[member] = struct{}{}
	return true
}

func (s *Set) Contains(member string) bool {
	_, ok := s.M[member]
	return ok
}

func (s *Set) Remove(member string) bool {
	if _, ok := s.M[member]; !ok {
		return false
	}
	delete(s.M, member)
	return true
}

// Members returns the members in no particular order.
func (s *Set) Members() []string {
	out := make([]string, 0, len(s.M))
	for m := range s.M {
		out = append(out, m)
	}
	return out
}

func (db *KeySpace) SAdd(key, member string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	set, err := getOrCreate(db, key, func() *Set { return NewSet() })
	if err != nil {
		return false, err
	}
	added := set.Add(member)
	db.touch(key)
	db.evictIfNeeded()
	return added, nil
}

func (db *KeySpace) SIsMember(key, member string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	set, ok, err := lookup[*Set](db, key)
	if !ok || err != nil {
		return false, err
	}
	db.touch(key)
	return set.Contains(member), nil
}

func (db *KeySpace) SRem(key, member string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	set, ok, err := lookup[*Set](db, key)
	if !ok || err != nil {
		return false, err
	}
	removed := set.Remove(member)
	db.touch(key)
	db.removeIfEmpty(key, set)
	return removed, nil
}

func (db *KeySpace) SCard(key string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	set, ok, err := lookup[*Set](db, key)
	if !ok || err != nil {
		return 0, err
	}
	db.touch(key)
	return set.Len(), nil
}

func (db *KeySpace) SMembers(key string) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	set, ok, err := lookup[*Set](db, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	db.touch(key)
	return set.Members(), nil
}
