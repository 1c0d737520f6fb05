package fs

import (
	"crypto/sha256"
	"sync"
	"time"
)

// digest identifies a blob's content.
type digest [sha256.Size]byte

// writeCache remembers what this process last wrote, so the watcher can tell
// its own writes from edits made by someone else.
type writeCache struct {
	mu        sync.RWMutex
	last      digest
	has       bool
	lastWrite time.Time
	writes    int
}

func (c *writeCache) record(data []byte, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = sha256.Sum256(data)
	c.has = true
	c.lastWrite = at
	c.writes++
}

// isOwn reports whether data matches the last blob this process wrote.
func (c *writeCache) isOwn(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.has && sha256.Sum256(data) == c.last
}

func (c *writeCache) stats() (time.Time, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastWrite, c.writes
}
