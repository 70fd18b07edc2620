package src

import (
	"errors"
	"fmt"
)

var (
	ErrWrongType       = errors.New(WrongTypeMsg)
	ErrMalformedRecord = errors.New("malformed record")
)

// Kind is the immutable type tag of a Value. The byte is the record marker
// used by the persistence file.
type Kind byte

const (
	KindString Kind = 'S'
	KindList   Kind = 'L'
	KindSet    Kind = 'E'
	KindHash   Kind = 'H'
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindHash:
		return "hash"
	}
	return "unknown"
}

// ParseKind maps a record marker back to its Kind.
func ParseKind(c byte) (Kind, bool) {
	switch Kind(c) {
	case KindString, KindList, KindSet, KindHash:
		return Kind(c), true
	}
	return 0, false
}

// Value is the closed set {*String, *List, *Set, *Hash}.
type Value interface {
	Kind() Kind
	// Marshal returns the self-delimiting encoding used by the persistence file.
	Marshal() string
	// Clone returns a deep copy that shares no mutable state with the receiver.
	Clone() Value
	sealed()
}

// collection is implemented by the variants that are deleted when they become empty.
type collection interface {
	Value
	Len() int
}

// UnmarshalValue rebuilds a Value of the given kind from its encoding.
func UnmarshalValue(kind Kind, data string) (Value, error) {
	switch kind {
	case KindString:
		return NewString(data), nil
	case KindList:
		elems, err := decodeElems(byte(KindList), data)
		if err != nil {
			return nil, err
		}
		return NewList(elems...), nil
	case KindSet:
		// 集合的编码标签是 S, 记录标记是 E
		elems, err := decodeElems('S', data)
		if err != nil {
			return nil, err
		}
		return NewSet(elems...), nil
	case KindHash:
		fields, err := decodeHash(data)
		if err != nil {
			return nil, err
		}
		h := NewHash()
		for f, v := range fields {
			h.Set(f, v)
		}
		return h, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, byte(kind))
}

// isEmpty reports whether v is a collection without elements.
func isEmpty(v Value) bool {
	c, ok := v.(collection)
	return ok && c.Len() == 0
}
