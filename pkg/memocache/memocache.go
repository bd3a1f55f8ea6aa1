package memocache

import (
	"TrattoriaGolang/internal/entity"
	"sync"
)

// Cache memoizes sample-conversation analyses for the lifetime of the
// process. A key is written at most once; failed computations are never
// cached so the next call retries.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu     sync.Mutex
	done   bool
	record entity.AnalysisRecord
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
	}
}

// GetOrCompute returns the memoized record for key, running compute when no
// record exists yet. Concurrent calls for the same key serialize, so compute
// runs at most once per successful fill; calls for distinct keys do not
// block each other.
func (c *Cache) GetOrCompute(key string, compute func() (entity.AnalysisRecord, error)) (entity.AnalysisRecord, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return e.record, nil
	}

	record, err := compute()
	if err != nil {
		return entity.AnalysisRecord{}, err
	}

	e.record = record
	e.done = true

	return record, nil
}

// Peek returns the memoized record without computing a missing one.
func (c *Cache) Peek(key string) (entity.AnalysisRecord, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		return entity.AnalysisRecord{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.done {
		return entity.AnalysisRecord{}, false
	}
	return e.record, true
}
