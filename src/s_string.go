package src

// String 字符串类型
type String struct {
	value string
}

func NewString(value string) *String {
	return &String{value: value}
}

func (s *String) Kind() Kind { return KindString }

// Marshal returns the raw bytes; the kind travels in the record marker.
func (s *String) Marshal() string { return s.value }

func (s *String) Clone() Value { return &String{value: s.value} }

func (s *String) sealed() {}

func (s *String) Get() string {
	return s.value
}

// Set stores value under key, replacing whatever was there regardless of kind.
func (db *KeySpace) Set(key, value string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.put(key, NewString(value))
	db.touch(key)
	db.evictIfNeeded()
}

// Get returns the string stored at key. ok is false when the key is absent.
func (db *KeySpace) Get(key string) (value string, ok bool, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok, err := lookup[*String](db, key)
	if !ok || err != nil {
		return "", ok, err
	}
	db.touch(key)
	return s.Get(), true, nil
}
