package leaderboard

import (
	"fmt"

	"github.com/astrocraft-network/stats-api/internal/scoretype"
	"github.com/astrocraft-network/stats-api/internal/store"
)

// Registry owns one engine per score type, all sharing the same log and
// cache handles. Built once at startup.
type Registry struct {
	engines map[scoretype.ScoreType]*Engine
}

// NewRegistry constructs every engine. Failing to build any engine is a
// configuration error and aborts startup.
func NewRegistry(log store.EntryLog, cache store.RankCache) (*Registry, error) {
	engines := make(map[scoretype.ScoreType]*Engine, len(scoretype.All()))
	for _, st := range scoretype.All() {
		engine, err := NewEngine(st, log, cache)
		if err != nil {
			return nil, fmt.Errorf("build %s engine: %w", st, err)
		}
		engines[st] = engine
	}
	return &Registry{engines: engines}, nil
}

// Engine returns the engine ranking the given score type.
func (r *Registry) Engine(st scoretype.ScoreType) *Engine {
	return r.engines[st]
}
