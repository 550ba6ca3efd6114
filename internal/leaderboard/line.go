package leaderboard

import (
	"strings"

	"github.com/astrocraft-network/stats-api/internal/store"
)

// Line is one row of a leaderboard as served to callers.
type Line struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score uint32 `json:"score"`
}

// MemberID builds the composite sorted-set member for a player. The engine
// treats the result as opaque; reads split it back apart on the first slash.
func MemberID(playerID, name string) string {
	return playerID + "/" + name
}

// linesFromMembers converts cache rows into leaderboard lines, skipping any
// member that does not carry the "<id>/<name>" composite form.
func linesFromMembers(rows []store.MemberScore) []Line {
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		id, name, ok := strings.Cut(row.Member, "/")
		if !ok {
			continue
		}
		lines = append(lines, Line{ID: id, Name: name, Score: row.Score})
	}
	return lines
}
