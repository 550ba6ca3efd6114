// Package events defines the game-server event stream feeding the
// leaderboards and the dispatcher that turns each event into score updates.
package events

import (
	"errors"
	"fmt"
)

// Classification for events the dispatcher must drop rather than retry.
var (
	// ErrMalformedEvent marks an event missing fields every type needs.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrUnroutableEvent marks an event type no leaderboard consumes.
	ErrUnroutableEvent = errors.New("unroutable event")
)

// Type tags a game-server event.
type Type string

const (
	Kill                Type = "KILL"
	Death               Type = "DEATH"
	Killstreak          Type = "KILLSTREAK"
	MatchEnd            Type = "MATCH_END"
	DestroyableDestroy  Type = "DESTROYABLE_DESTROY"
	CoreLeak            Type = "CORE_LEAK"
	FlagPlace           Type = "FLAG_PLACE"
	FlagPickup          Type = "FLAG_PICKUP"
	FlagDrop            Type = "FLAG_DROP"
	FlagDefend          Type = "FLAG_DEFEND"
	WoolPlace           Type = "WOOL_PLACE"
	WoolPickup          Type = "WOOL_PICKUP"
	WoolDrop            Type = "WOOL_DROP"
	WoolDefend          Type = "WOOL_DEFEND"
	ControlPointCapture Type = "CONTROL_POINT_CAPTURE"
)

// MatchResult is a participant's outcome at match end. Intermediate results
// (abandoned matches and the like) count nothing beyond participation.
type MatchResult string

const (
	ResultWin  MatchResult = "WIN"
	ResultLose MatchResult = "LOSE"
	ResultTie  MatchResult = "TIE"
)

// Event is one stat-relevant occurrence for one participant. Payload fields
// are populated per type; unused ones stay zero.
type Event struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`

	// TrackingStats mirrors the match flag. Events from matches that do not
	// track stats are dropped whole.
	TrackingStats bool `json:"trackingStats"`

	// Kill
	FirstBlood bool `json:"firstBlood,omitempty"`

	// Killstreak
	Amount uint32 `json:"amount,omitempty"`

	// DestroyableDestroy
	BlockCount uint32 `json:"blockCount,omitempty"`

	// FlagPlace / FlagDrop, in seconds
	HeldTime uint32 `json:"heldTime,omitempty"`

	// MatchEnd
	Result       MatchResult `json:"result,omitempty"`
	MessagesSent uint32      `json:"messagesSent,omitempty"`
	GamePlaytime uint32      `json:"gamePlaytime,omitempty"`
}

// Validate checks the fields every event needs regardless of type.
func (e Event) Validate() error {
	if e.Type == "" {
		return fmt.Errorf("%w: event %s has no type", ErrMalformedEvent, e.ID)
	}
	if e.PlayerID == "" {
		return fmt.Errorf("%w: %s event %s has no player id", ErrMalformedEvent, e.Type, e.ID)
	}
	return nil
}
