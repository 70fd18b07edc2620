package src

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wrongType = "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n"

func newTestProcessor(t *testing.T) *Processor {
	db := newTestDB(100)
	return NewProcessor(db, NewPersister(db, t.TempDir(), "data.txt", ""))
}

func send(p *Processor, line string) string {
	reply, _ := p.Process(line)
	return string(reply)
}

func TestStringScenario(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, "+OK\r\n", send(p, "SET foo bar"))
	assert.Equal(t, "$3\r\nbar\r\n", send(p, "GET foo"))
	assert.Equal(t, "+string\r\n", send(p, "TYPE foo"))
	assert.Equal(t, ":1\r\n", send(p, "DEL foo"))
	assert.Equal(t, "$-1\r\n", send(p, "GET foo"))
	assert.Equal(t, ":1\r\n", send(p, "DEL foo"))
	assert.Equal(t, "+none\r\n", send(p, "TYPE foo"))
}

func TestListScenario(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, ":1\r\n", send(p, "LPUSH mylist a"))
	assert.Equal(t, ":2\r\n", send(p, "RPUSH mylist b"))
	assert.Equal(t, "*2\r\n$1\r\na\r\n$1\r\nb\r\n", send(p, "LRANGE mylist 0 -1"))
	assert.Equal(t, "*0\r\n", send(p, "LRANGE mylist 1 0"))
	assert.Equal(t, "$1\r\nb\r\n", send(p, "LINDEX mylist -1"))
	assert.Equal(t, "$-1\r\n", send(p, "LINDEX mylist 5"))
	assert.Equal(t, ":2\r\n", send(p, "LLEN mylist"))
	assert.Equal(t, "$1\r\nb\r\n", send(p, "RPOP mylist"))
	assert.Equal(t, "$1\r\na\r\n", send(p, "LPOP mylist"))
	assert.Equal(t, "+none\r\n", send(p, "TYPE mylist"))
	assert.Equal(t, "$-1\r\n", send(p, "LPOP mylist"))
	assert.Equal(t, ":0\r\n", send(p, "LLEN mylist"))
	assert.Equal(t, "*0\r\n", send(p, "LRANGE mylist 0 -1"))
}

func TestSetScenario(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, ":1\r\n", send(p, "SADD s a"))
	assert.Equal(t, ":0\r\n", send(p, "SADD s a"))
	assert.Equal(t, ":1\r\n", send(p, "SISMEMBER s a"))
	assert.Equal(t, ":0\r\n", send(p, "SISMEMBER s z"))
	assert.Equal(t, ":1\r\n", send(p, "SCARD s"))
	assert.Equal(t, "*1\r\n$1\r\na\r\n", send(p, "SMEMBERS s"))
	assert.Equal(t, ":1\r\n", send(p, "SREM s a"))
	assert.Equal(t, ":0\r\n", send(p, "SREM s a"))
	assert.Equal(t, "+none\r\n", send(p, "TYPE s"))
	assert.Equal(t, "*0\r\n", send(p, "SMEMBERS s"))
	assert.Equal(t, ":0\r\n", send(p, "SCARD s"))
}

func TestHashScenario(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, ":1\r\n", send(p, "HSET h f v"))
	assert.Equal(t, ":0\r\n", send(p, "HSET h f w"))
	assert.Equal(t, "$1\r\nw\r\n", send(p, "HGET h f"))
	assert.Equal(t, "$-1\r\n", send(p, "HGET h nope"))
	assert.Equal(t, ":1\r\n", send(p, "HEXISTS h f"))
	assert.Equal(t, ":1\r\n", send(p, "HLEN h"))
	assert.Equal(t, "*1\r\n$1\r\nf\r\n", send(p, "HKEYS h"))
	assert.Equal(t, "*1\r\n$1\r\nw\r\n", send(p, "HVALS h"))
	assert.Equal(t, "*2\r\n$1\r\nf\r\n$1\r\nw\r\n", send(p, "HGETALL h"))
	assert.Equal(t, ":1\r\n", send(p, "HDEL h f"))
	assert.Equal(t, "+none\r\n", send(p, "TYPE h"))
	assert.Equal(t, "*0\r\n", send(p, "HGETALL h"))
	assert.Equal(t, ":0\r\n", send(p, "HDEL h f"))
	assert.Equal(t, "$-1\r\n", send(p, "HGET h f"))
}

func TestWrongTypeReplies(t *testing.T) {
	p := newTestProcessor(t)
	send(p, "SET s v")
	send(p, "RPUSH l a")
	for _, line := range []string{
		"LPUSH s x", "RPUSH s x", "LPOP s", "RPOP s", "LINDEX s 0", "LLEN s", "LRANGE s 0 -1",
		"SADD s x", "SISMEMBER s x", "SREM s x", "SCARD s", "SMEMBERS s",
		"HSET s f v", "HGET s f", "HEXISTS s f", "HDEL s f", "HLEN s", "HKEYS s", "HVALS s", "HGETALL s",
		"GET l",
	} {
		assert.Equal(t, wrongType, send(p, line), line)
	}
	assert.Equal(t, "$1\r\nv\r\n", send(p, "GET s"))
	assert.Equal(t, "*1\r\n$1\r\na\r\n", send(p, "LRANGE l 0 -1"))
}

func TestMalformedRequests(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, "-ERR empty command\r\n", send(p, ""))
	assert.Equal(t, "-ERR empty command\r\n", send(p, "  \t "))
	assert.Equal(t, "-ERR unknown command 'foo'\r\n", send(p, "FOO bar"))
	assert.Equal(t, "-ERR unknown command 'get'\r\n", send(p, "GET"))
	assert.Equal(t, "-ERR unknown command 'hset'\r\n", send(p, "HSET h f"))

	reply := send(p, "LINDEX l x")
	assert.True(t, strings.HasPrefix(reply, "-ERR "), reply)
	assert.True(t, strings.HasSuffix(reply, "\r\n"))
	reply = send(p, "LRANGE l 0 y")
	assert.True(t, strings.HasPrefix(reply, "-ERR "), reply)

	// still serving after errors
	assert.Equal(t, "+PONG\r\n", send(p, "PING"))
}

func TestCaseAndExtraArgs(t *testing.T) {
	p := newTestProcessor(t)
	assert.Equal(t, "+OK\r\n", send(p, "SeT k v extra"))
	assert.Equal(t, "$1\r\nv\r\n", send(p, "get k"))
	assert.Equal(t, "+OK\r\n", send(p, "  SET   spaced   out  "))
	assert.Equal(t, "$3\r\nout\r\n", send(p, "GET spaced"))
}

func TestKeyspaceCommands(t *testing.T) {
	p := newTestProcessor(t)
	send(p, "SET user:1 a")
	send(p, "SET user:2 b")
	send(p, "SADD tags x")
	assert.Equal(t, ":3\r\n", send(p, "DBSIZE"))
	assert.Equal(t, ":1\r\n", send(p, "EXISTS tags"))
	assert.Equal(t, ":0\r\n", send(p, "EXISTS nope"))
	assert.Equal(t, "*2\r\n$6\r\nuser:1\r\n$6\r\nuser:2\r\n", send(p, "KEYS user:*"))
	assert.Equal(t, "*0\r\n", send(p, "KEYS zzz*"))
}

func TestSaveCommands(t *testing.T) {
	dir := t.TempDir()
	db := newTestDB(100)
	p := NewProcessor(db, NewPersister(db, dir, "data.txt", ""))
	send(p, "SET k v")
	assert.Equal(t, "+OK\r\n", send(p, "SAVE"))
	assert.FileExists(t, filepath.Join(dir, "data.txt"))
	assert.Equal(t, "-ERR rdb file is not configured\r\n", send(p, "BGSAVE"))

	withRDB := NewPersister(db, dir, "data.txt", "dump.rdb")
	p = NewProcessor(db, withRDB)
	assert.Equal(t, "+Background saving started\r\n", send(p, "BGSAVE"))
	withRDB.Wait()
	assert.FileExists(t, filepath.Join(dir, "dump.rdb"))

	bare := NewProcessor(db, nil)
	assert.Equal(t, "-ERR persistence is not configured\r\n", send(bare, "SAVE"))
}

func TestQuit(t *testing.T) {
	p := newTestProcessor(t)
	reply, quit := p.Process("QUIT")
	assert.Equal(t, "+OK\r\n", string(reply))
	assert.True(t, quit)
	_, quit = p.Process("PING")
	assert.False(t, quit)
}

func TestProcessRecoversPanic(t *testing.T) {
	p := newTestProcessor(t)
	commandTable["boom"] = command{name: "boom", proc: func(p *Processor, args []string) Reply {
		panic("boom")
	}}
	defer delete(commandTable, "boom")
	assert.Equal(t, "-ERR internal error\r\n", send(p, "BOOM"))
	assert.Equal(t, "+PONG\r\n", send(p, "PING"))
}

func TestEvictionThroughProtocol(t *testing.T) {
	db := newTestDB(3)
	p := NewProcessor(db, nil)
	send(p, "SET a 1")
	send(p, "SET b 2")
	send(p, "SET c 3")
	send(p, "GET a")
	send(p, "SET d 4")
	assert.Equal(t, ":3\r\n", send(p, "DBSIZE"))
	assert.Equal(t, "$-1\r\n", send(p, "GET b"))
	assert.Equal(t, "$1\r\n1\r\n", send(p, "GET a"))
}
