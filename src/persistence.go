package src

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"blinkdb/src/log"
)

var (
	ErrSaveInProgress = errors.New("ERR Background save already in progress")
	ErrRDBDisabled    = errors.New("ERR rdb file is not configured")
)

// LoadStats counts the records applied and skipped by a load.
type LoadStats struct {
	Loaded  int
	Skipped int
}

// Save writes one "<K> <key> <encoding>" line per entry.
func Save(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%c %s %s\n", byte(e.Value.Kind()), e.Key, e.Value.Marshal()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// fitsRecord reports whether key and v survive a round trip through one
// record line: the key is a single token and no encoding holds a line break.
func fitsRecord(key string, v Value) bool {
	if key == "" || strings.ContainsAny(key, " \t\r\n") {
		return false
	}
	return !strings.ContainsAny(v.Marshal(), "\r\n")
}

// parseRecord splits a record line into its kind, key and decoded value.
func parseRecord(line string) (string, Value, error) {
	if len(line) < 3 || line[1] != ' ' {
		return "", nil, fmt.Errorf("%w: short line", ErrMalformedRecord)
	}
	kind, ok := ParseKind(line[0])
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown marker %q", ErrMalformedRecord, line[0])
	}
	rest := line[2:]
	sep := strings.IndexByte(rest, ' ')
	if sep <= 0 {
		return "", nil, fmt.Errorf("%w: missing key", ErrMalformedRecord)
	}
	key := rest[:sep]
	v, err := UnmarshalValue(kind, rest[sep+1:])
	if err != nil {
		return "", nil, err
	}
	if isEmpty(v) {
		return "", nil, fmt.Errorf("%w: empty %s", ErrMalformedRecord, kind)
	}
	return key, v, nil
}

// Load restores every well formed record from r into db. Malformed lines are
// skipped; only read errors are returned.
func Load(r io.Reader, db *KeySpace) (LoadStats, error) {
	var stats LoadStats
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if line != "" {
				key, v, perr := parseRecord(line)
				if perr != nil {
					stats.Skipped++
					log.DBLogger.Debugf("skip line %d: %v", lineNo, perr)
				} else {
					db.Restore(key, v)
					stats.Loaded++
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
	}
}

// Persister 负责数据文件和rdb文件的读写
type Persister struct {
	db          *KeySpace
	dir         string
	filename    string
	rdbFilename string

	writeMu sync.Mutex
	saving  atomic.Bool
	bg      sync.WaitGroup
}

func NewPersister(db *KeySpace, dir, filename, rdbFilename string) *Persister {
	if filename == "" {
		filename = DefaultFilename
	}
	return &Persister{db: db, dir: dir, filename: filename, rdbFilename: rdbFilename}
}

func (p *Persister) FilePath() string {
	return filepath.Join(p.dir, p.filename)
}

// RDBPath is empty when rdb output is disabled.
func (p *Persister) RDBPath() string {
	if p.rdbFilename == "" {
		return ""
	}
	return filepath.Join(p.dir, p.rdbFilename)
}

// writeAtomic writes through a temp file in the target directory and renames
// it over path.
func (p *Persister) writeAtomic(path string, write func(w io.Writer) error) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SaveFile snapshots the key space and writes the flat file.
func (p *Persister) SaveFile() error {
	entries := p.db.Snapshot()
	err := p.writeAtomic(p.FilePath(), func(w io.Writer) error {
		return Save(w, entries)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", p.FilePath(), err)
	}
	log.DBLogger.Infof("saved %d keys to %s", len(entries), p.FilePath())
	return nil
}

// SaveRDB snapshots the key space and writes the rdb file.
func (p *Persister) SaveRDB() error {
	path := p.RDBPath()
	if path == "" {
		return ErrRDBDisabled
	}
	entries := p.db.Snapshot()
	err := p.writeAtomic(path, func(w io.Writer) error {
		return ExportRDB(w, entries)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	log.DBLogger.Infof("rdb file with %d keys created at %s", len(entries), path)
	return nil
}

// BGSave starts an rdb save in the background. Only one runs at a time.
func (p *Persister) BGSave() error {
	if p.RDBPath() == "" {
		return ErrRDBDisabled
	}
	if !p.saving.CompareAndSwap(false, true) {
		return ErrSaveInProgress
	}
	p.bg.Add(1)
	go func() {
		defer p.bg.Done()
		defer p.saving.Store(false)
		defer func() {
			if err := recover(); err != nil {
				log.DBLogger.Errorf("bgsave panic: %v", err)
			}
		}()
		if err := p.SaveRDB(); err != nil {
			log.DBLogger.Errorf("bgsave error %v", err)
		}
	}()
	return nil
}

// Wait blocks until any running background save finishes.
func (p *Persister) Wait() {
	p.bg.Wait()
}

// LoadFile restores the flat file. When it does not exist the rdb file is
// tried instead; when neither exists the key space stays empty.
func (p *Persister) LoadFile() (LoadStats, error) {
	f, err := os.Open(p.FilePath())
	if errors.Is(err, fs.ErrNotExist) {
		return p.loadRDBFile()
	}
	if err != nil {
		return LoadStats{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	stats, err := Load(f, p.db)
	if err != nil {
		return stats, fmt.Errorf("load %s: %w", p.FilePath(), err)
	}
	log.DBLogger.Infof("loaded %d keys from %s, skipped %d lines", stats.Loaded, p.FilePath(), stats.Skipped)
	return stats, nil
}

func (p *Persister) loadRDBFile() (LoadStats, error) {
	path := p.RDBPath()
	if path == "" {
		return LoadStats{}, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadStats{}, nil
	}
	if err != nil {
		return LoadStats{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	stats, err := ImportRDB(f, p.db)
	if err != nil {
		return stats, fmt.Errorf("load rdb file failed: %w", err)
	}
	log.DBLogger.Infof("loaded %d keys from %s", stats.Loaded, path)
	return stats, nil
}
