package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/astrocraft-network/stats-api/internal/leaderboard"
	"github.com/astrocraft-network/stats-api/internal/scoretype"
)

// delta is one score-type update derived from an event.
type delta struct {
	scoreType scoretype.ScoreType
	amount    uint32
}

// Dispatcher routes game-server events to the score types they affect.
type Dispatcher struct {
	registry *leaderboard.Registry
}

// NewDispatcher wires a dispatcher over the engine registry.
func NewDispatcher(registry *leaderboard.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// deltasFor maps one event onto the score-type updates it implies. Events
// from matches not tracking stats map to nothing.
func deltasFor(e Event) ([]delta, error) {
	if !e.TrackingStats {
		return nil, nil
	}

	switch e.Type {
	case Kill:
		deltas := []delta{{scoretype.Kills, 1}}
		if e.FirstBlood {
			deltas = append(deltas, delta{scoretype.FirstBloods, 1})
		}
		return deltas, nil
	case Death:
		return []delta{{scoretype.Deaths, 1}}, nil
	case Killstreak:
		return []delta{{scoretype.HighestKillstreak, e.Amount}}, nil
	case MatchEnd:
		var deltas []delta
		switch e.Result {
		case ResultWin:
			deltas = append(deltas, delta{scoretype.Wins, 1})
		case ResultLose:
			deltas = append(deltas, delta{scoretype.Losses, 1})
		case ResultTie:
			deltas = append(deltas, delta{scoretype.Ties, 1})
		}
		return append(deltas,
			delta{scoretype.MatchesPlayed, 1},
			delta{scoretype.MessagesSent, e.MessagesSent},
			delta{scoretype.GamePlaytime, e.GamePlaytime},
		), nil
	case DestroyableDestroy:
		return []delta{
			{scoretype.DestroyableDestroys, 1},
			{scoretype.DestroyableBlockDestroys, e.BlockCount},
		}, nil
	case CoreLeak:
		return []delta{
			{scoretype.CoreLeaks, 1},
			{scoretype.CoreBlockDestroys, 1},
		}, nil
	case FlagPlace:
		return []delta{
			{scoretype.FlagCaptures, 1},
			{scoretype.FlagHoldTime, e.HeldTime},
		}, nil
	case FlagPickup:
		return []delta{{scoretype.FlagPickups, 1}}, nil
	case FlagDrop:
		return []delta{
			{scoretype.FlagDrops, 1},
			{scoretype.FlagHoldTime, e.HeldTime},
		}, nil
	case FlagDefend:
		return []delta{{scoretype.FlagDefends, 1}}, nil
	case WoolPlace:
		return []delta{{scoretype.WoolCaptures, 1}}, nil
	case WoolPickup:
		return []delta{{scoretype.WoolPickups, 1}}, nil
	case WoolDrop:
		return []delta{{scoretype.WoolDrops, 1}}, nil
	case WoolDefend:
		return []delta{{scoretype.WoolDefends, 1}}, nil
	case ControlPointCapture:
		return []delta{{scoretype.ControlPointCaptures, 1}}, nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnroutableEvent, e.Type)
	}
}

// Dispatch applies one event to every leaderboard it affects. A log write
// failure aborts mid-event; the engine's same-day supersede makes replaying
// the event safe for Sum types only in the not-yet-applied deltas, so the
// error is surfaced rather than swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	deltas, err := deltasFor(e)
	if err != nil {
		return err
	}

	member := leaderboard.MemberID(e.PlayerID, e.PlayerName)
	for _, update := range deltas {
		engine := d.registry.Engine(update.scoreType)
		if err := engine.ProcessUpdate(ctx, member, update.amount); err != nil {
			return fmt.Errorf("apply %s event %s to %s: %w", e.Type, e.ID, update.scoreType, err)
		}
	}
	return nil
}

// Run drains the event channel until it closes or the context ends.
// Malformed and unroutable events are logged and skipped; a log-store
// failure is fatal and stops the loop, since every later update would
// corrupt standings built on a log the process can no longer read.
func (d *Dispatcher) Run(ctx context.Context, in <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-in:
			if !ok {
				return nil
			}
			if err := d.Dispatch(ctx, e); err != nil {
				if errors.Is(err, ErrMalformedEvent) || errors.Is(err, ErrUnroutableEvent) {
					slog.Warn("Dropping event", "event", e.ID, "error", err)
					continue
				}
				return err
			}
		}
	}
}
