// Package store defines the two backing stores the leaderboard engine runs
// against: an append-only entry log (the source of truth) and a sorted-set
// rank cache (the derived view).
package store

import (
	"context"
	"time"

	"github.com/astrocraft-network/stats-api/internal/calendar"
	"github.com/astrocraft-network/stats-api/internal/scoretype"
)

// BatchSize is the hint used when streaming entries out of the log during a
// view reconstruction.
const BatchSize = 50_000

// Entry is one log record: a player's standing for a score type on the day
// containing Timestamp. The log holds at most one entry per
// (player, score type, day).
type Entry struct {
	PlayerID  string              `bson:"playerId" json:"playerId"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
	ScoreType scoretype.ScoreType `bson:"scoreType" json:"scoreType"`
	Value     uint32              `bson:"value" json:"value"`
}

// RangeFilter selects log entries by score type, an optional player and a
// timestamp window. An empty PlayerID matches every player; an unbounded
// Range start matches arbitrarily old entries.
type RangeFilter struct {
	PlayerID  string
	ScoreType scoretype.ScoreType
	Range     calendar.Range
}

// Cursor streams entries out of the log one at a time.
type Cursor interface {
	// Next advances the cursor, returning false once the stream is
	// exhausted or fails. Err distinguishes the two.
	Next(ctx context.Context) bool
	Entry() Entry
	Err() error
	Close(ctx context.Context) error
}

// EntryLog is the persistent, queryable log of leaderboard entries.
type EntryLog interface {
	DeleteRange(ctx context.Context, f RangeFilter) error
	Insert(ctx context.Context, e Entry) error
	FindRange(ctx context.Context, f RangeFilter) (Cursor, error)
}

// MemberScore is one sorted-set member together with its score.
type MemberScore struct {
	Member string
	Score  uint32
}

// RankCache is the sorted-set store cached leaderboard views live in. A
// missing key is indistinguishable from an empty ranking; callers treat
// absence as "view needs reconstruction".
type RankCache interface {
	// Add inserts or replaces a member's score under key.
	Add(ctx context.Context, key string, score uint32, member string) error
	// Score returns a member's score, with ok false when either the key
	// or the member is absent.
	Score(ctx context.Context, key, member string) (score uint32, ok bool, err error)
	// TopWithScores returns up to limit members ordered by score
	// descending.
	TopWithScores(ctx context.Context, key string, limit int64) ([]MemberScore, error)
	// DeleteKey removes the whole sorted set, reporting whether it existed.
	DeleteKey(ctx context.Context, key string) (bool, error)
	// HasKey reports whether the sorted set exists.
	HasKey(ctx context.Context, key string) (bool, error)
}
