package src

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOps(t *testing.T) {
	l := NewList()
	l.PushBack("b")
	l.PushFront("a")
	l.PushBack("c")
	assert.Equal(t, []string{"a", "b", "c"}, l.Elements())

	v, ok := l.Index(-1)
	assert.True(t, ok)
	assert.Equal(t, "c", v)
	_, ok = l.Index(3)
	assert.False(t, ok)
	_, ok = l.Index(-4)
	assert.False(t, ok)

	v, ok = l.PopFront()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = l.PopBack()
	assert.True(t, ok)
	assert.Equal(t, "c", v)
	assert.Equal(t, 1, l.Len())
}

func TestListRangeClamp(t *testing.T) {
	l := NewList("a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, l.Range(-100, 100))
	assert.Equal(t, []string{}, l.Range(2, 1))
	assert.Equal(t, []string{"b", "c"}, l.Range(-2, -1))
	assert.Equal(t, []string{"a"}, l.Range(0, 0))
	assert.Equal(t, []string{}, NewList().Range(0, -1))
}

func TestSetAndHashOps(t *testing.T) {
	s := NewSet()
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, 0, s.Len())

	h := NewHash()
	assert.True(t, h.Set("f", "1"))
	assert.False(t, h.Set("f", "2"))
	v, ok := h.Get("f")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	all := h.All()
	all["g"] = "x"
	assert.False(t, h.Exists("g"))
	assert.True(t, h.Delete("f"))
	assert.False(t, h.Delete("f"))
}

func TestEncodeFormat(t *testing.T) {
	assert.Equal(t, "L1:a,2:bc,", NewList("a", "bc").Marshal())
	assert.Equal(t, "L", NewList().Marshal())
	assert.Equal(t, "S1:m,", NewSet("m").Marshal())
	h := NewHash()
	h.Set("f", "vv")
	assert.Equal(t, "H1:f:2:vv,", h.Marshal())
	assert.Equal(t, "L1:a,", NewString("L1:a,").Marshal())
}

func TestValueRoundTrip(t *testing.T) {
	tricky := []string{"", "1:x,", "a:b:c", ",,,", "12345"}

	v, err := UnmarshalValue(KindList, NewList(tricky...).Marshal())
	require.NoError(t, err)
	assert.Equal(t, tricky, v.(*List).Elements())

	v, err = UnmarshalValue(KindSet, NewSet(tricky...).Marshal())
	require.NoError(t, err)
	assert.ElementsMatch(t, tricky, v.(*Set).Members())

	h := NewHash()
	for _, f := range tricky {
		h.Set(f, f+":v")
	}
	v, err = UnmarshalValue(KindHash, h.Marshal())
	require.NoError(t, err)
	assert.Equal(t, h.All(), v.(*Hash).All())

	v, err = UnmarshalValue(KindString, "H1:f:1:v,")
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "H1:f:1:v,", v.(*String).Get())
}

func TestUnmarshalMalformed(t *testing.T) {
	cases := []struct {
		kind Kind
		data string
	}{
		{KindList, ""},
		{KindList, "X1:a,"},
		{KindList, "L3:ab,"},
		{KindList, "Lx:a,"},
		{KindList, "L1:a"},
		{KindList, "L-1:a,"},
		{KindSet, "L1:a,"},
		{KindHash, "H1:f,"},
		{KindHash, "H1:f:1:v"},
		{KindHash, "H1:f:9:v,"},
		{KindList, "L9223372036854775807:x,"},
		{KindSet, "S9223372036854775806:x,"},
		{KindHash, "H9223372036854775807:f:1:v,"},
		{Kind('Z'), "anything"},
	}
	for _, c := range cases {
		var err error
		require.NotPanics(t, func() {
			_, err = UnmarshalValue(c.kind, c.data)
		}, "%q", c.data)
		assert.ErrorIs(t, err, ErrMalformedRecord, "%c %q", byte(c.kind), c.data)
	}
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "set", KindSet.String())
	assert.Equal(t, "hash", KindHash.String())

	k, ok := ParseKind('E')
	assert.True(t, ok)
	assert.Equal(t, KindSet, k)
	_, ok = ParseKind('Z')
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	l := NewList("a")
	c := l.Clone().(*List)
	c.PushBack("b")
	assert.Equal(t, 1, l.Len())

	s := NewSet("a")
	cs := s.Clone().(*Set)
	cs.Add("b")
	assert.Equal(t, 1, s.Len())
}
