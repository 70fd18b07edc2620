package src

import (
	"io"
	"strconv"
	"time"

	"github.com/hdt3213/rdb/encoder"
	"github.com/hdt3213/rdb/parser"

	"blinkdb/src/log"
)

// ExportRDB writes entries as a single-db redis rdb stream.
func ExportRDB(w io.Writer, entries []Entry) error {
	enc := encoder.NewEncoder(w).EnableCompress()
	if err := enc.WriteHeader(); err != nil {
		return err
	}
	auxMap := map[string]string{
		"redis-ver":  "6.0.0",
		"redis-bits": "64",
		"ctime":      strconv.FormatInt(time.Now().Unix(), 10),
	}
	for k, v := range auxMap {
		if err := enc.WriteAux(k, v); err != nil {
			return err
		}
	}
	if err := enc.WriteDBHeader(0, uint64(len(entries)), 0); err != nil {
		return err
	}
	for _, e := range entries {
		var err error
		switch v := e.Value.(type) {
		case *String:
			err = enc.WriteStringObject(e.Key, []byte(v.Get()))
		case *List:
			err = enc.WriteListObject(e.Key, toByteSlices(v.Elements()))
		case *Set:
			err = enc.WriteSetObject(e.Key, toByteSlices(v.Members()))
		case *Hash:
			hash := make(map[string][]byte, v.Len())
			for f, val := range v.M {
				hash[f] = []byte(val)
			}
			err = enc.WriteHashMapObject(e.Key, hash)
		}
		if err != nil {
			return err
		}
	}
	return enc.WriteEnd()
}

func toByteSlices(elems []string) [][]byte {
	out := make([][]byte, len(elems))
	for i, e := range elems {
		out[i] = []byte(e)
	}
	return out
}

// ImportRDB restores string, list, set and hash objects from an rdb stream.
// Other object types, expirations and values the data file cannot hold
// (keys with whitespace, line breaks anywhere) are skipped.
func ImportRDB(r io.Reader, db *KeySpace) (LoadStats, error) {
	var stats LoadStats
	dec := parser.NewDecoder(r)
	err := dec.Parse(func(o parser.RedisObject) bool {
		var v Value
		switch o.GetType() {
		case parser.StringType:
			v = NewString(string(o.(*parser.StringObject).Value))
		case parser.ListType:
			list := NewList()
			for _, e := range o.(*parser.ListObject).Values {
				list.PushBack(string(e))
			}
			v = list
		case parser.SetType:
			set := NewSet()
			for _, m := range o.(*parser.SetObject).Members {
				set.Add(string(m))
			}
			v = set
		case parser.HashType:
			hash := NewHash()
			for f, val := range o.(*parser.HashObject).Hash {
				hash.Set(f, string(val))
			}
			v = hash
		}
		if v == nil || isEmpty(v) {
			stats.Skipped++
			log.DBLogger.Debugf("skip rdb object %s of type %s", o.GetKey(), o.GetType())
			return true
		}
		if !fitsRecord(o.GetKey(), v) {
			stats.Skipped++
			log.DBLogger.Debugf("skip rdb object %q: not storable in the data file", o.GetKey())
			return true
		}
		db.Restore(o.GetKey(), v)
		stats.Loaded++
		return true
	})
	return stats, err
}
