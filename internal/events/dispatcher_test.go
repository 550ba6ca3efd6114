package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrocraft-network/stats-api/internal/calendar"
	"github.com/astrocraft-network/stats-api/internal/leaderboard"
	"github.com/astrocraft-network/stats-api/internal/scoretype"
	"github.com/astrocraft-network/stats-api/internal/store"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *leaderboard.Registry) {
	t.Helper()
	registry, err := leaderboard.NewRegistry(store.NewMemoryEntryLog(), store.NewMemoryRankCache())
	require.NoError(t, err)
	return NewDispatcher(registry), registry
}

func standing(t *testing.T, r *leaderboard.Registry, st scoretype.ScoreType, member string) uint32 {
	t.Helper()
	value, _ := r.Engine(st).QueryStanding(context.Background(), member, calendar.AllTime)
	return value
}

func TestDispatchRouting(t *testing.T) {
	base := Event{PlayerID: "p1", PlayerName: "Alpha", TrackingStats: true}
	member := "p1/Alpha"

	tests := []struct {
		name   string
		event  func() Event
		expect map[scoretype.ScoreType]uint32
	}{
		{
			name: "kill without first blood",
			event: func() Event {
				e := base
				e.Type = Kill
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.Kills:       1,
				scoretype.FirstBloods: 0,
			},
		},
		{
			name: "first blood kill",
			event: func() Event {
				e := base
				e.Type = Kill
				e.FirstBlood = true
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.Kills:       1,
				scoretype.FirstBloods: 1,
			},
		},
		{
			name: "death",
			event: func() Event {
				e := base
				e.Type = Death
				return e
			},
			expect: map[scoretype.ScoreType]uint32{scoretype.Deaths: 1},
		},
		{
			name: "killstreak carries its amount",
			event: func() Event {
				e := base
				e.Type = Killstreak
				e.Amount = 7
				return e
			},
			expect: map[scoretype.ScoreType]uint32{scoretype.HighestKillstreak: 7},
		},
		{
			name: "won match end",
			event: func() Event {
				e := base
				e.Type = MatchEnd
				e.Result = ResultWin
				e.MessagesSent = 12
				e.GamePlaytime = 903
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.Wins:          1,
				scoretype.Losses:        0,
				scoretype.Ties:          0,
				scoretype.MatchesPlayed: 1,
				scoretype.MessagesSent:  12,
				scoretype.GamePlaytime:  903,
			},
		},
		{
			name: "abandoned match still counts participation",
			event: func() Event {
				e := base
				e.Type = MatchEnd
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.Wins:          0,
				scoretype.Losses:        0,
				scoretype.Ties:          0,
				scoretype.MatchesPlayed: 1,
			},
		},
		{
			name: "destroyable destroy counts blocks separately",
			event: func() Event {
				e := base
				e.Type = DestroyableDestroy
				e.BlockCount = 14
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.DestroyableDestroys:      1,
				scoretype.DestroyableBlockDestroys: 14,
			},
		},
		{
			name: "core leak",
			event: func() Event {
				e := base
				e.Type = CoreLeak
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.CoreLeaks:         1,
				scoretype.CoreBlockDestroys: 1,
			},
		},
		{
			name: "flag place counts capture and hold time",
			event: func() Event {
				e := base
				e.Type = FlagPlace
				e.HeldTime = 45
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.FlagCaptures: 1,
				scoretype.FlagHoldTime: 45,
			},
		},
		{
			name: "flag drop keeps hold time",
			event: func() Event {
				e := base
				e.Type = FlagDrop
				e.HeldTime = 30
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.FlagDrops:    1,
				scoretype.FlagCaptures: 0,
				scoretype.FlagHoldTime: 30,
			},
		},
		{
			name: "wool place counts capture only",
			event: func() Event {
				e := base
				e.Type = WoolPlace
				e.HeldTime = 30
				return e
			},
			expect: map[scoretype.ScoreType]uint32{
				scoretype.WoolCaptures: 1,
				scoretype.FlagHoldTime: 0,
			},
		},
		{
			name: "control point capture",
			event: func() Event {
				e := base
				e.Type = ControlPointCapture
				return e
			},
			expect: map[scoretype.ScoreType]uint32{scoretype.ControlPointCaptures: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher, registry := newTestDispatcher(t)
			require.NoError(t, dispatcher.Dispatch(context.Background(), tt.event()))
			for st, want := range tt.expect {
				assert.Equal(t, want, standing(t, registry, st, member), "standing for %s", st)
			}
		})
	}
}

func TestDispatchDropsUntrackedMatches(t *testing.T) {
	dispatcher, registry := newTestDispatcher(t)

	err := dispatcher.Dispatch(context.Background(), Event{
		Type:       Kill,
		PlayerID:   "p1",
		PlayerName: "Alpha",
	})
	require.NoError(t, err)
	assert.Zero(t, standing(t, registry, scoretype.Kills, "p1/Alpha"))
}

func TestDispatchRejectsMalformedEvents(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, Event{PlayerID: "p1", TrackingStats: true})
	assert.ErrorIs(t, err, ErrMalformedEvent)
	err = dispatcher.Dispatch(ctx, Event{Type: Kill, TrackingStats: true})
	assert.ErrorIs(t, err, ErrMalformedEvent)
	err = dispatcher.Dispatch(ctx, Event{Type: "TELEPORT", PlayerID: "p1", TrackingStats: true})
	assert.ErrorIs(t, err, ErrUnroutableEvent)
}

func TestRunDrainsChannelAndSkipsBadEvents(t *testing.T) {
	dispatcher, registry := newTestDispatcher(t)

	in := make(chan Event, 4)
	in <- Event{Type: Kill, PlayerID: "p1", PlayerName: "Alpha", TrackingStats: true}
	in <- Event{Type: "TELEPORT", PlayerID: "p1", TrackingStats: true} // unroutable, skipped
	in <- Event{Type: Kill, TrackingStats: true}                      // no player, skipped
	in <- Event{Type: Death, PlayerID: "p1", PlayerName: "Alpha", TrackingStats: true}
	close(in)

	require.NoError(t, dispatcher.Run(context.Background(), in))
	assert.Equal(t, uint32(1), standing(t, registry, scoretype.Kills, "p1/Alpha"))
	assert.Equal(t, uint32(1), standing(t, registry, scoretype.Deaths, "p1/Alpha"))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := dispatcher.Run(ctx, make(chan Event))
	assert.ErrorIs(t, err, context.Canceled)
}
