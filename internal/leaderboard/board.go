package leaderboard

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/retro-snake/internal/storage"
)

// Local is the on-disk fallback table.
type Local interface {
	SaveScore(name string, score int) (int64, error)
	TopScores(limit int) ([]storage.ScoreEntry, error)
}

// Source tells where the cached entries came from.
type Source string

const (
	SourceNone   Source = ""
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Board is the cached leaderboard shared by every session.
type Board struct {
	mu      sync.Mutex
	remote  Remote // nil when not configured
	local   Local  // nil when storage is unavailable
	limit   int
	entries []Entry
	source  Source
	log     *log.Logger
}

// NewBoard creates a board. Either backend may be nil.
func NewBoard(remote Remote, local Local, limit int, logger *log.Logger) *Board {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Board{
		remote: remote,
		local:  local,
		limit:  limit,
		log:    logger,
	}
}

// Entries returns a copy of the cached list, best first.
func (b *Board) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// Source returns where the cached entries were last loaded from.
func (b *Board) Source() Source {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source
}

// Qualifies reports whether score would enter the cached board.
func (b *Board) Qualifies(score int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Qualifies(b.entries, score, b.limit)
}

// Refresh reloads the board from the remote, falling back to the local table
// when the remote fails or is empty. If both fail the stale cache is kept.
func (b *Board) Refresh(ctx context.Context) []Entry {
	if b.remote != nil {
		entries, err := b.remote.FetchTopScores(ctx)
		switch {
		case err != nil:
			b.log.Warn("remote leaderboard unavailable", "error", err)
		case len(entries) > 0:
			return b.set(truncate(entries, b.limit), SourceRemote)
		}
	}

	if b.local != nil {
		rows, err := b.local.TopScores(b.limit)
		if err == nil {
			entries := make([]Entry, len(rows))
			for i, r := range rows {
				entries[i] = Entry{Name: r.Name, Score: r.Score}
			}
			return b.set(entries, SourceLocal)
		}
		b.log.Warn("local leaderboard unavailable", "error", err)
	}

	return b.Entries()
}

// Add records a score. The cache and local table are updated immediately;
// the remote submit is best effort and failures are only logged. The board
// is refreshed afterwards.
func (b *Board) Add(ctx context.Context, name string, score int) []Entry {
	name = NormalizeName(name)

	b.mu.Lock()
	b.entries = Insert(b.entries, Entry{Name: name, Score: score}, b.limit)
	b.mu.Unlock()

	if b.local != nil {
		if _, err := b.local.SaveScore(name, score); err != nil {
			b.log.Warn("cannot save score locally", "error", err)
		}
	}

	if b.remote != nil {
		ok, err := b.remote.SubmitScore(ctx, name, score)
		switch {
		case err != nil:
			b.log.Warn("cannot submit score", "name", name, "score", score, "error", err)
		case !ok:
			b.log.Warn("remote rejected score", "name", name, "score", score)
		}
	}

	return b.Refresh(ctx)
}

func (b *Board) set(entries []Entry, src Source) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = entries
	b.source = src
	return append([]Entry(nil), entries...)
}

func truncate(entries []Entry, limit int) []Entry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
