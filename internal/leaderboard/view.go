package leaderboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/astrocraft-network/stats-api/internal/calendar"
	"github.com/astrocraft-network/stats-api/internal/scoretype"
)

// view is the in-memory coordination anchor for one cached leaderboard
// sorted set. Updates take the lock in reader mode so they can run in
// parallel; a reconstruction takes it in writer mode and excludes everyone.
type view struct {
	mu sync.RWMutex
	// lastUpdated is the instant of the last completed reconstruction.
	// Zero means the view has never been reconstructed. Written only
	// while both the engine's metadata lock and mu are writer-held.
	lastUpdated time.Time
}

// viewID is the cache key of one (score type, period) sorted set.
func viewID(st scoretype.ScoreType, p calendar.Period) string {
	return fmt.Sprintf("lb_view:%s:%s", st, p)
}
