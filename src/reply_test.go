package src

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyEncoding(t *testing.T) {
	assert.Equal(t, "+OK\r\n", string(OkReply{}.ToBytes()))
	assert.Equal(t, "+PONG\r\n", string(MakeStatusReply("PONG").ToBytes()))
	assert.Equal(t, ":-3\r\n", string(MakeIntReply(-3).ToBytes()))
	assert.Equal(t, ":1\r\n", string(MakeBoolReply(true).ToBytes()))
	assert.Equal(t, ":0\r\n", string(MakeBoolReply(false).ToBytes()))
	assert.Equal(t, "$0\r\n\r\n", string(MakeBulkReply("").ToBytes()))
	assert.Equal(t, "$-1\r\n", string(NullBulkReply{}.ToBytes()))
	assert.Equal(t, "*0\r\n", string(MakeMultiBulkReply(nil).ToBytes()))
	assert.Equal(t, "*2\r\n$2\r\nab\r\n$0\r\n\r\n", string(MakeMultiBulkReply([]string{"ab", ""}).ToBytes()))
	assert.Equal(t, "-ERR x\r\n", string(MakeErrReply("ERR x").ToBytes()))
}

func TestFormatReply(t *testing.T) {
	cases := map[string]string{
		"+OK\r\n":                      "OK",
		"-ERR bad\r\n":                 "(error) ERR bad",
		":3\r\n":                       "(integer) 3",
		"$-1\r\n":                      "(nil)",
		"$3\r\nbar\r\n":                `"bar"`,
		"*0\r\n":                       "(empty array)",
		"*2\r\n$1\r\na\r\n$1\r\nb\r\n": "1) \"a\"\n2) \"b\"",
		"garbage":                      "garbage",
	}
	for raw, want := range cases {
		assert.Equal(t, want, FormatReply(raw), "%q", raw)
	}
}
