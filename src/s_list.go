package src

// List 有序列表, 允许重复元素
type List struct {
	elems []string
}

func NewList(elems ...string) *List {
	l := &List{elems: make([]string, 0, len(elems))}
	l.elems = append(l.elems, elems...)
	return l
}

func (l *List) Kind() Kind { return KindList }

func (l *List) Marshal() string { return encodeElems(byte(KindList), l.elems) }

func (l *List) Clone() Value { return NewList(l.elems...) }

func (l *List) sealed() {}

func (l *List) Len() int { return len(l.elems) }

func (l *List) PushFront(value string) {
	l.elems = append(l.elems, "")
	copy(l.elems[1:], l.elems)
	l.elems[0] = value
}

func (l *List) PushBack(value string) {
	l.elems = append(l.elems, value)
}

func (l *List) PopFront() (string, bool) {
	if len(l.elems) == 0 {
		return "", false
	}
	v := l.elems[0]
	l.elems[0] = ""
	l.elems = l.elems[1:]
	return v, true
}

func (l *List) PopBack() (string, bool) {
	if len(l.elems) == 0 {
		return "", false
	}
	last := len(l.elems) - 1
	v := l.elems[last]
	l.elems = l.elems[:last]
	return v, true
}

// Index returns the element at i. Negative i counts from the end.
func (l *List) Index(i int) (string, bool) {
	if i < 0 {
		i += len(l.elems)
	}
	if i < 0 || i >= len(l.elems) {
		return "", false
	}
	return l.elems[i], true
}

// Range returns elements start..end inclusive. Negative indices count from
// the end; both ends are clamped into [0, len-1].
func (l *List) Range(start, end int) []string {
	size := len(l.elems)
	if size == 0 {
		return []string{}
	}
	if start < 0 {
		start += size
	}
	if end < 0 {
		end += size
	}
	start = max(start, 0)
	end = min(end, size-1)
	if start > end {
		return []string{}
	}
	out := make([]string, end-start+1)
	copy(out, l.elems[start:end+1])
	return out
}

func (l *List) Elements() []string {
	out := make([]string, len(l.elems))
	copy(out, l.elems)
	return out
}

func (db *KeySpace) push(key, value string, front bool) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	list, err := getOrCreate(db, key, func() *List { return NewList() })
	if err != nil {
		return 0, err
	}
	if front {
		list.PushFront(value)
	} else {
		list.PushBack(value)
	}
	db.touch(key)
	db.evictIfNeeded()
	return list.Len(), nil
}

// LPush prepends value, creating the list if needed, and returns the new length.
func (db *KeySpace) LPush(key, value string) (int, error) {
	return db.push(key, value, true)
}

// RPush appends value, creating the list if needed, and returns the new length.
func (db *KeySpace) RPush(key, value string) (int, error) {
	return db.push(key, value, false)
}

func (db *KeySpace) pop(key string, front bool) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	list, ok, err := lookup[*List](db, key)
	if !ok || err != nil {
		return "", false, err
	}
	var v string
	if front {
		v, ok = list.PopFront()
	} else {
		v, ok = list.PopBack()
	}
	db.touch(key)
	db.removeIfEmpty(key, list)
	return v, ok, nil
}

func (db *KeySpace) LPop(key string) (string, bool, error) {
	return db.pop(key, true)
}

func (db *KeySpace) RPop(key string) (string, bool, error) {
	return db.pop(key, false)
}

func (db *KeySpace) LIndex(key string, index int) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	list, ok, err := lookup[*List](db, key)
	if !ok || err != nil {
		return "", false, err
	}
	db.touch(key)
	v, ok := list.Index(index)
	return v, ok, nil
}

// LLen returns 0 for an absent key.
func (db *KeySpace) LLen(key string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	list, ok, err := lookup[*List](db, key)
	if !ok || err != nil {
		return 0, err
	}
	db.touch(key)
	return list.Len(), nil
}

// LRange returns an empty slice for an absent key.
func (db *KeySpace) LRange(key string, start, end int) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	list, ok, err := lookup[*List](db, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	db.touch(key)
	return list.Range(start, end), nil
}
