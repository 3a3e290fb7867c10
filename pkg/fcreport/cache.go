package fcreport

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/tiendc/go-deepcopy"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	"golang.org/x/crypto/blake2b"
)

// Cache memoizes Load keyed by the input paths and their size and modification time.
// Callers get deep copies, so a cached table is never shared.
type Cache struct {
	opts Options

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	table  *models.Table
	report models.LoadReport
}

// NewCache creates an empty cache loading with opts.
func NewCache(opts Options) *Cache {
	return &Cache{opts: opts, entries: make(map[string]cacheEntry)}
}

// Load returns the unified table for paths, loading only when a file changed.
func (c *Cache) Load(paths []string) (*models.Table, models.LoadReport, error) {
	key, err := cacheKey(paths)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.opts.logger()
	e, ok := c.entries[key]
	if ok {
		logger.Debug("workbook cache hit", "key", key[:12])
	} else {
		logger.Debug("workbook cache miss", "key", key[:12])
		table, report, err := Load(paths, c.opts)
		if err != nil {
			return nil, report, err
		}
		e = cacheEntry{table: table, report: report}
		c.entries[key] = e
	}

	var (
		table  models.Table
		report models.LoadReport
	)
	if err := deepcopy.Copy(&table, e.table); err != nil {
		return nil, nil, err
	}
	if err := deepcopy.Copy(&report, &e.report); err != nil {
		return nil, nil, err
	}
	return &table, report, nil
}

// Invalidate drops every cached table.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey hashes the ordered paths with each file's size and modification time.
func cacheKey(paths []string) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	var buf [8]byte
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		info, err := os.Stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			h.Write([]byte("missing"))
		case err != nil:
			h.Write([]byte(err.Error()))
		default:
			binary.LittleEndian.PutUint64(buf[:], uint64(info.Size()))
			h.Write(buf[:])
			binary.LittleEndian.PutUint64(buf[:], uint64(info.ModTime().UnixNano()))
			h.Write(buf[:])
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
