package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryRankCache is an in-process RankCache with the same ordering
// semantics as the Redis implementation. It backs the process when Redis is
// unreachable at boot, and the engine tests.
type MemoryRankCache struct {
	mu   sync.RWMutex
	sets map[string]map[string]uint32
}

// NewMemoryRankCache returns an empty in-memory rank cache.
func NewMemoryRankCache() *MemoryRankCache {
	return &MemoryRankCache{sets: make(map[string]map[string]uint32)}
}

func (c *MemoryRankCache) Add(_ context.Context, key string, score uint32, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[key]
	if !ok {
		set = make(map[string]uint32)
		c.sets[key] = set
	}
	set[member] = score
	return nil
}

func (c *MemoryRankCache) Score(_ context.Context, key, member string) (uint32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sets[key]
	if !ok {
		return 0, false, nil
	}
	score, ok := set[member]
	return score, ok, nil
}

func (c *MemoryRankCache) TopWithScores(_ context.Context, key string, limit int64) ([]MemberScore, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set, ok := c.sets[key]
	if !ok || limit <= 0 {
		return nil, nil
	}
	top := make([]MemberScore, 0, len(set))
	for member, score := range set {
		top = append(top, MemberScore{Member: member, Score: score})
	}
	// Score descending, ties by member descending, matching ZREVRANGE.
	sort.Slice(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].Member > top[j].Member
	})
	if int64(len(top)) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (c *MemoryRankCache) DeleteKey(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, existed := c.sets[key]
	delete(c.sets, key)
	return existed, nil
}

func (c *MemoryRankCache) HasKey(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.sets[key]
	return ok, nil
}

// MemoryEntryLog is an in-process EntryLog used by tests.
type MemoryEntryLog struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryEntryLog returns an empty in-memory entry log.
func NewMemoryEntryLog() *MemoryEntryLog {
	return &MemoryEntryLog{}
}

func matches(e Entry, f RangeFilter) bool {
	if e.ScoreType != f.ScoreType {
		return false
	}
	if f.PlayerID != "" && e.PlayerID != f.PlayerID {
		return false
	}
	return f.Range.Contains(e.Timestamp)
}

func (l *MemoryEntryLog) DeleteRange(_ context.Context, f RangeFilter) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	for _, e := range l.entries {
		if !matches(e, f) {
			kept = append(kept, e)
		}
	}
	l.entries = kept
	return nil
}

func (l *MemoryEntryLog) Insert(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	return nil
}

func (l *MemoryEntryLog) FindRange(_ context.Context, f RangeFilter) (Cursor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var found []Entry
	for _, e := range l.entries {
		if matches(e, f) {
			found = append(found, e)
		}
	}
	return &sliceCursor{entries: found}, nil
}

// Entries returns a snapshot of the whole log, for test assertions.
func (l *MemoryEntryLog) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

type sliceCursor struct {
	entries []Entry
	pos     int
}

func (c *sliceCursor) Next(_ context.Context) bool {
	if c.pos >= len(c.entries) {
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Entry() Entry {
	return c.entries[c.pos-1]
}

func (c *sliceCursor) Err() error {
	return nil
}

func (c *sliceCursor) Close(_ context.Context) error {
	return nil
}
