package src

const (
	OkStr   = "OK"
	PongStr = "PONG"
	CRLF    = "\r\n"

	// 默认值
	DefaultPort            = 9001
	DefaultCacheSize       = 1000
	DefaultBloomFilterSize = 10000
	DefaultBloomHashes     = 1
	DefaultMaxClients      = 10000
	DefaultFilename        = "blinkdb_data.txt"

	// MaxLineSize bounds a single request line.
	MaxLineSize = 1 << 20

	WrongTypeMsg = "WRONGTYPE Operation against a key holding the wrong kind of value"
)
