// Package leaderboard keeps the top scores, backed by a remote libSQL database
// with the local SQLite store as fallback.
package leaderboard

import (
	"context"
	"errors"
	"strings"
)

// DefaultLimit is the number of entries kept on the board.
const DefaultLimit = 10

// AnonymousName replaces blank player names.
const AnonymousName = "Anonymous"

// ErrNotConfigured is returned when no remote database URL is set.
var ErrNotConfigured = errors.New("leaderboard: remote not configured")

// Entry is one line of the leaderboard.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Remote is a shared highscore table.
type Remote interface {
	// FetchTopScores returns at most the configured number of entries, best first.
	FetchTopScores(ctx context.Context) ([]Entry, error)
	// SubmitScore stores a score and reports whether a row was written.
	SubmitScore(ctx context.Context, name string, score int) (bool, error)
}

// NormalizeName trims the name and substitutes AnonymousName for blanks.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnonymousName
	}
	return name
}

// Insert places e into list, which must be sorted best first, and truncates
// the result to limit. A new entry goes after existing entries with the same
// score. The input slice is not modified.
func Insert(list []Entry, e Entry, limit int) []Entry {
	pos := len(list)
	for i, cur := range list {
		if e.Score > cur.Score {
			pos = i
			break
		}
	}

	out := make([]Entry, 0, len(list)+1)
	out = append(out, list[:pos]...)
	out = append(out, e)
	out = append(out, list[pos:]...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Qualifies reports whether score would make it onto a board of limit entries.
func Qualifies(list []Entry, score, limit int) bool {
	if score <= 0 {
		return false
	}
	if len(list) < limit {
		return true
	}
	return score > list[len(list)-1].Score
}
