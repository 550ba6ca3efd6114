// Package scoretype enumerates the tracked player statistics and the
// aggregation rule each one ranks by.
package scoretype

import "fmt"

// ScoreType identifies a tracked statistic. The serialized form is
// SCREAMING_SNAKE_CASE and appears verbatim in cache keys and log documents.
type ScoreType string

const (
	Kills                    ScoreType = "KILLS"
	Deaths                   ScoreType = "DEATHS"
	FirstBloods              ScoreType = "FIRST_BLOODS"
	Wins                     ScoreType = "WINS"
	Losses                   ScoreType = "LOSSES"
	Ties                     ScoreType = "TIES"
	Xp                       ScoreType = "XP"
	MessagesSent             ScoreType = "MESSAGES_SENT"
	MatchesPlayed            ScoreType = "MATCHES_PLAYED"
	ServerPlaytime           ScoreType = "SERVER_PLAYTIME"
	GamePlaytime             ScoreType = "GAME_PLAYTIME"
	CoreLeaks                ScoreType = "CORE_LEAKS"
	CoreBlockDestroys        ScoreType = "CORE_BLOCK_DESTROYS"
	DestroyableDestroys      ScoreType = "DESTROYABLE_DESTROYS"
	DestroyableBlockDestroys ScoreType = "DESTROYABLE_BLOCK_DESTROYS"
	FlagCaptures             ScoreType = "FLAG_CAPTURES"
	FlagDrops                ScoreType = "FLAG_DROPS"
	FlagPickups              ScoreType = "FLAG_PICKUPS"
	FlagDefends              ScoreType = "FLAG_DEFENDS"
	FlagHoldTime             ScoreType = "FLAG_HOLD_TIME"
	WoolCaptures             ScoreType = "WOOL_CAPTURES"
	WoolDrops                ScoreType = "WOOL_DROPS"
	WoolPickups              ScoreType = "WOOL_PICKUPS"
	WoolDefends              ScoreType = "WOOL_DEFENDS"
	ControlPointCaptures     ScoreType = "CONTROL_POINT_CAPTURES"
	HighestKillstreak        ScoreType = "HIGHEST_KILLSTREAK"
)

var all = []ScoreType{
	Kills, Deaths, FirstBloods, Wins, Losses, Ties, Xp, MessagesSent,
	MatchesPlayed, ServerPlaytime, GamePlaytime, CoreLeaks,
	CoreBlockDestroys, DestroyableDestroys, DestroyableBlockDestroys,
	FlagCaptures, FlagDrops, FlagPickups, FlagDefends, FlagHoldTime,
	WoolCaptures, WoolDrops, WoolPickups, WoolDefends,
	ControlPointCaptures, HighestKillstreak,
}

// All returns every score type in declaration order.
func All() []ScoreType {
	out := make([]ScoreType, len(all))
	copy(out, all)
	return out
}

// Parse converts a SCREAMING_SNAKE_CASE tag into a ScoreType.
func Parse(s string) (ScoreType, error) {
	for _, st := range all {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown score type %q", s)
}

func (s ScoreType) String() string {
	return string(s)
}

// Aggregation returns how standings of this score type combine. Everything
// accumulates except the killstreak record, which keeps the best value seen.
func (s ScoreType) Aggregation() Aggregation {
	if s == HighestKillstreak {
		return Max
	}
	return Sum
}
