package service

import (
	"context"
	"log/slog"
)

// NextKey selects the credential at cursor and computes the follow-up cursor
// position. A cursor at or past the end of the pool (the pool shrank since
// the cursor was written) resets to 0 before use. The pool must be non-empty.
func NextKey(pool []string, cursor int) (key string, next int) {
	if cursor < 0 || cursor >= len(pool) {
		cursor = 0
	}
	return pool[cursor], (cursor + 1) % len(pool)
}

// CursorRepository persists the rotation cursor position.
type CursorRepository interface {
	// Get returns the current cursor position; a missing row reads as 0.
	Get(ctx context.Context) (int, error)

	// Set upserts the cursor position.
	Set(ctx context.Context, position int) error
}

// Rotator hands out upstream credentials round-robin over a configured pool,
// persisting the cursor between calls. Rotation is fire-and-forget: the
// cursor advances once per dispatched call regardless of that call's outcome,
// and a failed cursor write only costs fairness, never the lookup itself.
type Rotator struct {
	cursorRepo CursorRepository
	logger     *slog.Logger
}

// NewRotator creates a Rotator backed by the given cursor repository.
func NewRotator(cursorRepo CursorRepository, logger *slog.Logger) *Rotator {
	return &Rotator{
		cursorRepo: cursorRepo,
		logger:     logger,
	}
}

// Next returns the credential to use for one upstream call and advances the
// persisted cursor. Cursor read failures fall back to position 0; write
// failures are logged and swallowed. The read-increment-write is not guarded
// against concurrent rotation, rotation fairness is the goal, not exactness.
func (r *Rotator) Next(ctx context.Context, pool []string) string {
	cursor, err := r.cursorRepo.Get(ctx)
	if err != nil {
		r.logger.Warn("failed to read rotation cursor, starting from 0", slog.Any("error", err))
		cursor = 0
	}

	key, next := NextKey(pool, cursor)

	if err := r.cursorRepo.Set(ctx, next); err != nil {
		r.logger.Warn("failed to persist rotation cursor", slog.Any("error", err))
	}

	return key
}
