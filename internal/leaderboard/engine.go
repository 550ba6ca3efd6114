// Package leaderboard maintains the six time-windowed rankings kept for
// every score type: a persistent entry log as the source of truth and one
// cached sorted set per period, rebuilt lazily from the log whenever a view
// goes stale.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/astrocraft-network/stats-api/internal/calendar"
	"github.com/astrocraft-network/stats-api/internal/scoretype"
	"github.com/astrocraft-network/stats-api/internal/store"
)

// Engine owns the six period views of a single score type.
//
// Locking is two-level and always acquired metadata lock first, view lock
// second. Point updates take both in reader mode, so concurrent updates to
// the same view run in parallel. A reconstruction takes both in writer mode
// and therefore excludes updates and reads for its whole duration.
type Engine struct {
	scoreType scoretype.ScoreType
	agg       scoretype.Aggregation
	log       store.EntryLog
	cache     store.RankCache

	// mu guards views. Reconstruction holds it in writer mode end to end,
	// which is what lets FetchTop detect in-flight rebuilds with a failed
	// try-read instead of blocking.
	mu    sync.RWMutex
	views map[calendar.Period]*view

	// now is the leaderboard clock, swappable in tests.
	now func() time.Time
}

// NewEngine builds the engine for one score type over the shared stores.
// Score types whose aggregation would need sequentially consistent updates
// are refused: the update stream carries no ordering guarantee.
func NewEngine(st scoretype.ScoreType, log store.EntryLog, cache store.RankCache) (*Engine, error) {
	agg := st.Aggregation()
	if agg.RequiresSequentialConsistency() {
		return nil, fmt.Errorf("score type %s requires sequentially consistent updates", st)
	}
	return &Engine{
		scoreType: st,
		agg:       agg,
		log:       log,
		cache:     cache,
		views:     make(map[calendar.Period]*view),
		now:       calendar.Now,
	}, nil
}

// ScoreType returns the score type this engine ranks.
func (e *Engine) ScoreType() scoretype.ScoreType {
	return e.scoreType
}

// ProcessUpdate absorbs one point delta for a player. The daily log entry is
// superseded first (the log keeps at most one entry per player and day),
// then all six cached views are updated in parallel. A log failure is
// returned to the caller and must be treated as fatal: the log is the source
// of truth. Cache failures only degrade the fan-out; stale views heal on
// their next reconstruction.
func (e *Engine) ProcessUpdate(ctx context.Context, player string, delta uint32) error {
	if e.agg.DeltaUseless(delta) {
		return nil
	}

	now := e.now()

	// The day's standing comes from the log, not the cache: the cached
	// daily view may still carry yesterday's bucket right after midnight,
	// and a stale read here would write a wrong value into the log.
	daily, err := e.dailyStanding(ctx, player, now)
	if err != nil {
		return err
	}
	if e.agg == scoretype.Max && delta <= daily {
		// The record already outperforms this streak.
		return nil
	}
	dailyNew := e.agg.Merge(daily, delta)

	// Same-day supersede: drop today's earlier entry, then append the new
	// standing. Not transactional; reconstruction collapses duplicates
	// with the same merge rule should a crash land between the two.
	today := store.RangeFilter{
		PlayerID:  player,
		ScoreType: e.scoreType,
		Range:     calendar.FullRange(calendar.MostGranular(), now),
	}
	if err := e.log.DeleteRange(ctx, today); err != nil {
		return fmt.Errorf("supersede daily entries for %s: %w", e.scoreType, err)
	}
	entry := store.Entry{
		PlayerID:  player,
		Timestamp: now,
		ScoreType: e.scoreType,
		Value:     dailyNew,
	}
	if err := e.log.Insert(ctx, entry); err != nil {
		return fmt.Errorf("append entry for %s: %w", e.scoreType, err)
	}

	// One writer pass so every period has its metadata before fan-out.
	e.mu.Lock()
	for _, p := range calendar.Periods() {
		if _, ok := e.views[p]; !ok {
			e.views[p] = &view{}
		}
	}
	e.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range calendar.Periods() {
		wg.Add(1)
		go func(p calendar.Period) {
			defer wg.Done()
			e.updateView(ctx, p, player, delta, dailyNew)
		}(p)
	}
	wg.Wait()
	return nil
}

// updateView folds the delta into one cached period view, respecting an
// in-flight reconstruction of that view.
func (e *Engine) updateView(ctx context.Context, p calendar.Period, player string, delta, dailyNew uint32) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v := e.views[p]
	v.mu.RLock()
	defer v.mu.RUnlock()

	newValue := dailyNew
	if p != calendar.MostGranular() {
		standing, _ := e.QueryStanding(ctx, player, p)
		newValue = e.agg.Merge(standing, delta)
	}
	if err := e.cache.Add(ctx, viewID(e.scoreType, p), newValue, player); err != nil {
		slog.Warn("Cached view update failed, view heals on next reconstruction",
			"scoreType", e.scoreType, "period", p, "error", err)
	}
}

// dailyStanding folds the player's entries of today's bucket out of the
// log. At most one entry should exist; any duplicates left behind by a crash
// collapse under the same merge rule reconstruction uses.
func (e *Engine) dailyStanding(ctx context.Context, player string, now time.Time) (uint32, error) {
	cur, err := e.log.FindRange(ctx, store.RangeFilter{
		PlayerID:  player,
		ScoreType: e.scoreType,
		Range:     calendar.FullRange(calendar.MostGranular(), now),
	})
	if err != nil {
		return 0, fmt.Errorf("read daily standing for %s: %w", e.scoreType, err)
	}
	defer cur.Close(ctx)

	var standing uint32
	seen := false
	for cur.Next(ctx) {
		if seen {
			standing = e.agg.Merge(standing, cur.Entry().Value)
		} else {
			standing = cur.Entry().Value
			seen = true
		}
	}
	if err := cur.Err(); err != nil {
		return 0, fmt.Errorf("read daily standing for %s: %w", e.scoreType, err)
	}
	return standing, nil
}

// QueryStanding returns the player's current cached standing for a period,
// with ok false when the player has none. Pure cache read: it never
// triggers a reconstruction.
func (e *Engine) QueryStanding(ctx context.Context, player string, p calendar.Period) (uint32, bool) {
	score, ok, err := e.cache.Score(ctx, viewID(e.scoreType, p), player)
	if err != nil {
		slog.Warn("Standing lookup failed",
			"scoreType", e.scoreType, "period", p, "error", err)
		return 0, false
	}
	return score, ok
}

// FetchTop returns the period's top limit players by score descending,
// reconstructing the cached view from the log first when the view is stale,
// was never built, or was evicted. ErrUpdateInProgress is returned instead
// of blocking behind a rebuild owned by another caller.
func (e *Engine) FetchTop(ctx context.Context, p calendar.Period, limit int64) ([]Line, error) {
	id := viewID(e.scoreType, p)

	needs, err := e.needsReconstruction(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if needs {
		if err := e.reconstruct(ctx, p, id); err != nil {
			return nil, err
		}
	}

	rows, err := e.cache.TopWithScores(ctx, id, limit)
	if err != nil {
		slog.Warn("Cached view range read failed",
			"scoreType", e.scoreType, "period", p, "error", err)
		return []Line{}, nil
	}
	return linesFromMembers(rows), nil
}

// needsReconstruction decides whether the cached view can serve reads as-is.
func (e *Engine) needsReconstruction(ctx context.Context, p calendar.Period, id string) (bool, error) {
	if !e.mu.TryRLock() {
		return false, ErrUpdateInProgress
	}
	v, ok := e.views[p]
	var lastUpdated time.Time
	if ok {
		v.mu.RLock()
		lastUpdated = v.lastUpdated
		v.mu.RUnlock()
	}
	e.mu.RUnlock()

	if !ok || lastUpdated.IsZero() {
		return true, nil
	}
	if !calendar.SameBucket(p, lastUpdated, e.now()) {
		return true, nil
	}
	exists, err := e.cache.HasKey(ctx, id)
	if err != nil {
		slog.Warn("Cached view existence check failed",
			"scoreType", e.scoreType, "period", p, "error", err)
		exists = false
	}
	return !exists, nil
}

// reconstruct rebuilds one cached view from the log inside the view's
// writer lock, folding every entry of the period's bucket into per-player
// standings with the score type's merge rule.
func (e *Engine) reconstruct(ctx context.Context, p calendar.Period, id string) error {
	slog.Info("Populating leaderboard view", "scoreType", e.scoreType, "period", p)
	started := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.views[p]
	if !ok {
		v = &view{}
		e.views[p] = v
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, err := e.cache.DeleteKey(ctx, id); err != nil {
		slog.Warn("Failed to drop cached view before rebuild", "view", id, "error", err)
	}

	now := e.now()
	cur, err := e.log.FindRange(ctx, store.RangeFilter{
		ScoreType: e.scoreType,
		Range:     calendar.FullRange(p, now),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentStream, err)
	}
	defer cur.Close(ctx)

	standings := make(map[string]uint32)
	for cur.Next(ctx) {
		entry := cur.Entry()
		if current, seen := standings[entry.PlayerID]; seen {
			standings[entry.PlayerID] = e.agg.Merge(current, entry.Value)
		} else {
			standings[entry.PlayerID] = entry.Value
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentStream, err)
	}

	for member, value := range standings {
		if err := e.cache.Add(ctx, id, value, member); err != nil {
			slog.Warn("Failed to populate standing during rebuild",
				"view", id, "member", member, "error", err)
		}
	}
	v.lastUpdated = now

	slog.Info("Populated leaderboard view",
		"scoreType", e.scoreType, "period", p,
		"players", len(standings), "took", time.Since(started))
	return nil
}
