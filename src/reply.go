package src

import (
	"strconv"
	"strings"
)

// Reply is an encoded protocol response.
type Reply interface {
	ToBytes() []byte
}

var (
	okBytes             = []byte("+" + OkStr + CRLF)
	nullBulkBytes       = []byte("$-1" + CRLF)
	emptyMultiBulkBytes = []byte("*0" + CRLF)
)

type OkReply struct{}

func (r OkReply) ToBytes() []byte { return okBytes }

// StatusReply is a simple string: +<status>
type StatusReply struct {
	Status string
}

func MakeStatusReply(status string) *StatusReply {
	return &StatusReply{Status: status}
}

func (r *StatusReply) ToBytes() []byte {
	return []byte("+" + r.Status + CRLF)
}

type IntReply struct {
	Code int64
}

func MakeIntReply(code int64) *IntReply {
	return &IntReply{Code: code}
}

func MakeBoolReply(b bool) *IntReply {
	if b {
		return &IntReply{Code: 1}
	}
	return &IntReply{Code: 0}
}

func (r *IntReply) ToBytes() []byte {
	return []byte(":" + strconv.FormatInt(r.Code, 10) + CRLF)
}

type BulkReply struct {
	Arg string
}

func MakeBulkReply(arg string) *BulkReply {
	return &BulkReply{Arg: arg}
}

func (r *BulkReply) ToBytes() []byte {
	return []byte(bulkString(r.Arg))
}

func bulkString(s string) string {
	return "$" + strconv.Itoa(len(s)) + CRLF + s + CRLF
}

type NullBulkReply struct{}

func (r NullBulkReply) ToBytes() []byte { return nullBulkBytes }

type EmptyMultiBulkReply struct{}

func (r EmptyMultiBulkReply) ToBytes() []byte { return emptyMultiBulkBytes }

// MultiBulkReply is an array of bulk strings.
type MultiBulkReply struct {
	Args []string
}

func MakeMultiBulkReply(args []string) Reply {
	if len(args) == 0 {
		return EmptyMultiBulkReply{}
	}
	return &MultiBulkReply{Args: args}
}

func (r *MultiBulkReply) ToBytes() []byte {
	var b strings.Builder
	b.WriteString("*" + strconv.Itoa(len(r.Args)) + CRLF)
	for _, arg := range r.Args {
		b.WriteString(bulkString(arg))
	}
	return []byte(b.String())
}

// ErrReply is -<message>
type ErrReply struct {
	Msg string
}

func MakeErrReply(msg string) *ErrReply {
	return &ErrReply{Msg: msg}
}

func (r *ErrReply) ToBytes() []byte {
	return []byte("-" + r.Msg + CRLF)
}

func (r *ErrReply) Error() string {
	return r.Msg
}

func isErrReply(r Reply) bool {
	_, ok := r.(*ErrReply)
	return ok
}
