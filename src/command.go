package src

import (
	"errors"
	"strconv"
	"strings"

	"blinkdb/src/log"
)

func init() {
	commandTable = make(map[string]command)
	register("ping", 0, Ping)
	register("quit", 0, Quit)

	register("set", 2, SetCmd)
	register("get", 1, GetCmd)
	register("del", 1, DelCmd)
	register("type", 1, TypeCmd)
	register("exists", 1, ExistsCmd)
	register("dbsize", 0, DBSizeCmd)
	register("keys", 1, KeysCmd)

	register("lpush", 2, LPushCmd)
	register("rpush", 2, RPushCmd)
	register("lpop", 1, LPopCmd)
	register("rpop", 1, RPopCmd)
	register("lindex", 2, LIndexCmd)
	register("llen", 1, LLenCmd)
	register("lrange", 3, LRangeCmd)

	register("sadd", 2, SAddCmd)
	register("sismember", 2, SIsMemberCmd)
	register("srem", 2, SRemCmd)
	register("scard", 1, SCardCmd)
	register("smembers", 1, SMembersCmd)

	register("hset", 3, HSetCmd)
	register("hget", 2, HGetCmd)
	register("hexists", 2, HExistsCmd)
	register("hdel", 2, HDelCmd)
	register("hlen", 1, HLenCmd)
	register("hkeys", 1, HKeysCmd)
	register("hvals", 1, HValsCmd)
	register("hgetall", 1, HGetAllCmd)

	register("save", 0, SaveCmd)
	register("bgsave", 0, BGSaveCmd)
}

// 客户端cmd
var commandTable map[string]command

type command struct {
	name  string                                  //命令名字
	arity int                                     //最少参数个数, 不含命令本身
	proc  func(p *Processor, args []string) Reply //执行的函数
}

func register(name string, arity int, proc func(p *Processor, args []string) Reply) {
	commandTable[name] = command{name: name, arity: arity, proc: proc}
}

// Processor turns request lines into replies against one KeySpace.
type Processor struct {
	db        *KeySpace
	persister *Persister
}

func NewProcessor(db *KeySpace, persister *Persister) *Processor {
	return &Processor{db: db, persister: persister}
}

func (p *Processor) DB() *KeySpace {
	return p.db
}

// Process executes one request line and returns the encoded reply. quit is
// true when the connection should be closed after the reply is written.
func (p *Processor) Process(line string) (reply []byte, quit bool) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return MakeErrReply("ERR empty command").ToBytes(), false
	}
	name := strings.ToLower(args[0])
	cmd, ok := commandTable[name]
	if !ok || len(args)-1 < cmd.arity {
		commandsTotal.WithLabelValues("unknown").Inc()
		commandErrorsTotal.WithLabelValues("unknown").Inc()
		return MakeErrReply("ERR unknown command '" + name + "'").ToBytes(), false
	}
	r := p.exec(cmd, args[1:])
	commandsTotal.WithLabelValues(name).Inc()
	if isErrReply(r) {
		commandErrorsTotal.WithLabelValues(name).Inc()
	}
	return r.ToBytes(), name == "quit"
}

func (p *Processor) exec(cmd command, args []string) (r Reply) {
	defer func() {
		if err := recover(); err != nil {
			log.DBLogger.Errorf("command %s panic: %v", cmd.name, err)
			r = MakeErrReply("ERR internal error")
		}
	}()
	return cmd.proc(p, args)
}

// errReply renders err as a protocol error. Type mismatches keep their exact
// message, everything else gets the ERR prefix.
func errReply(err error) Reply {
	if errors.Is(err, ErrWrongType) {
		return MakeErrReply(WrongTypeMsg)
	}
	var e *ErrReply
	if errors.As(err, &e) {
		return e
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "ERR ") {
		return MakeErrReply(msg)
	}
	return MakeErrReply("ERR " + msg)
}

func bulkOrNull(v string, ok bool, err error) Reply {
	if err != nil {
		return errReply(err)
	}
	if !ok {
		return NullBulkReply{}
	}
	return MakeBulkReply(v)
}

func intOrErr(n int, err error) Reply {
	if err != nil {
		return errReply(err)
	}
	return MakeIntReply(int64(n))
}

func boolOrErr(b bool, err error) Reply {
	if err != nil {
		return errReply(err)
	}
	return MakeBoolReply(b)
}

func arrayOrErr(elems []string, err error) Reply {
	if err != nil {
		return errReply(err)
	}
	return MakeMultiBulkReply(elems)
}

func Ping(p *Processor, args []string) Reply {
	return MakeStatusReply(PongStr)
}

func Quit(p *Processor, args []string) Reply {
	return OkReply{}
}

func SetCmd(p *Processor, args []string) Reply {
	p.db.Set(args[0], args[1])
	return OkReply{}
}

func GetCmd(p *Processor, args []string) Reply {
	return bulkOrNull(p.db.Get(args[0]))
}

// DelCmd always answers 1, whether or not the key existed.
func DelCmd(p *Processor, args []string) Reply {
	p.db.Del(args[0])
	return MakeIntReply(1)
}

func TypeCmd(p *Processor, args []string) Reply {
	return MakeStatusReply(p.db.Type(args[0]))
}

func ExistsCmd(p *Processor, args []string) Reply {
	return MakeBoolReply(p.db.Exists(args[0]))
}

func DBSizeCmd(p *Processor, args []string) Reply {
	return MakeIntReply(int64(p.db.DBSize()))
}

func KeysCmd(p *Processor, args []string) Reply {
	return MakeMultiBulkReply(p.db.Keys(args[0]))
}

func LPushCmd(p *Processor, args []string) Reply {
	return intOrErr(p.db.LPush(args[0], args[1]))
}

func RPushCmd(p *Processor, args []string) Reply {
	return intOrErr(p.db.RPush(args[0], args[1]))
}

func LPopCmd(p *Processor, args []string) Reply {
	return bulkOrNull(p.db.LPop(args[0]))
}

func RPopCmd(p *Processor, args []string) Reply {
	return bulkOrNull(p.db.RPop(args[0]))
}

func LIndexCmd(p *Processor, args []string) Reply {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return errReply(err)
	}
	return bulkOrNull(p.db.LIndex(args[0], index))
}

func LLenCmd(p *Processor, args []string) Reply {
	return intOrErr(p.db.LLen(args[0]))
}

func LRangeCmd(p *Processor, args []string) Reply {
	start, err := strconv.Atoi(args[1])
	if err != nil {
		return errReply(err)
	}
	end, err := strconv.Atoi(args[2])
	if err != nil {
		return errReply(err)
	}
	return arrayOrErr(p.db.LRange(args[0], start, end))
}

func SAddCmd(p *Processor, args []string) Reply {
	return boolOrErr(p.db.SAdd(args[0], args[1]))
}

func SIsMemberCmd(p *Processor, args []string) Reply {
	return boolOrErr(p.db.SIsMember(args[0], args[1]))
}

func SRemCmd(p *Processor, args []string) Reply {
	return boolOrErr(p.db.SRem(args[0], args[1]))
}

func SCardCmd(p *Processor, args []string) Reply {
	return intOrErr(p.db.SCard(args[0]))
}

func SMembersCmd(p *Processor, args []string) Reply {
	return arrayOrErr(p.db.SMembers(args[0]))
}

func HSetCmd(p *Processor, args []string) Reply {
	return boolOrErr(p.db.HSet(args[0], args[1], args[2]))
}

func HGetCmd(p *Processor, args []string) Reply {
	return bulkOrNull(p.db.HGet(args[0], args[1]))
}

func HExistsCmd(p *Processor, args []string) Reply {
	return boolOrErr(p.db.HExists(args[0], args[1]))
}

func HDelCmd(p *Processor, args []string) Reply {
	return boolOrErr(p.db.HDel(args[0], args[1]))
}

func HLenCmd(p *Processor, args []string) Reply {
	return intOrErr(p.db.HLen(args[0]))
}

func HKeysCmd(p *Processor, args []string) Reply {
	return arrayOrErr(p.db.HKeys(args[0]))
}

func HValsCmd(p *Processor, args []string) Reply {
	return arrayOrErr(p.db.HVals(args[0]))
}

// HGetAllCmd answers field, value, field, value...
func HGetAllCmd(p *Processor, args []string) Reply {
	all, err := p.db.HGetAll(args[0])
	if err != nil {
		return errReply(err)
	}
	flat := make([]string, 0, 2*len(all))
	for f, v := range all {
		flat = append(flat, f, v)
	}
	return MakeMultiBulkReply(flat)
}

func SaveCmd(p *Processor, args []string) Reply {
	if p.persister == nil {
		return MakeErrReply("ERR persistence is not configured")
	}
	if err := p.persister.SaveFile(); err != nil {
		log.DBLogger.Errorf("save error %v", err)
		return errReply(err)
	}
	return OkReply{}
}

func BGSaveCmd(p *Processor, args []string) Reply {
	if p.persister == nil {
		return MakeErrReply("ERR persistence is not configured")
	}
	if err := p.persister.BGSave(); err != nil {
		return errReply(err)
	}
	return MakeStatusReply("Background saving started")
}
