package queue

import (
	"context"
	"fmt"
	"time"
)

// SetStatus overwrites a request's status unconditionally. Writing the current
// status again is a no-op apart from updated_at, and unknown ids are ignored.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) error {
	if _, ok := statusSet[status]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}
	now := timestamp(time.Now())
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE download_requests
         SET status = ?, updated_at = ?,
             started_at = CASE WHEN ? = ? AND started_at IS NULL THEN ? ELSE started_at END,
             finished_at = CASE WHEN ? IN (?, ?) AND finished_at IS NULL THEN ? ELSE finished_at END
         WHERE id = ?`,
		status, now,
		status, StatusInProgress, now,
		status, StatusDone, StatusFailed, now,
		id,
	); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// Transition moves a request from one status to the next only if it is still
// in the expected from status. It reports whether this call performed the
// change; false means another writer got there first or the id is unknown.
// message is stored as the error message and is cleared when empty.
func (s *Store) Transition(ctx context.Context, id int64, from, to Status, message string) (bool, error) {
	if !CanTransition(from, to) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	now := timestamp(time.Now())
	var started, finished any
	if to == StatusInProgress {
		started = now
	}
	if to.IsTerminal() {
		finished = now
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE download_requests
         SET status = ?, error_message = ?, updated_at = ?,
             started_at = COALESCE(?, started_at),
             finished_at = COALESCE(?, finished_at)
         WHERE id = ? AND status = ?`,
		to, nullableString(message), now,
		started,
		finished,
		id, from,
	)
	if err != nil {
		return false, fmt.Errorf("transition %s -> %s: %w", from, to, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition rows affected: %w", err)
	}
	return affected == 1, nil
}

// FailInterrupted moves requests left in progress by a previous process to
// failed. The daemon calls it once before its dispatcher starts.
func (s *Store) FailInterrupted(ctx context.Context, reason string) (int64, error) {
	if reason == "" {
		reason = DaemonStopReason
	}
	now := timestamp(time.Now())
	res, err := s.execWithRetry(
		ctx,
		`UPDATE download_requests
         SET status = ?, error_message = ?, updated_at = ?, finished_at = ?
         WHERE status = ?`,
		StatusFailed, reason, now, now,
		StatusInProgress,
	)
	if err != nil {
		return 0, fmt.Errorf("fail interrupted requests: %w", err)
	}
	return res.RowsAffected()
}

// Requeue enqueues a fresh pending request with the owner and source of a
// finished one. The original row keeps its terminal status.
func (s *Store) Requeue(ctx context.Context, id int64) (*Request, error) {
	original, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: %d", ErrRequestNotFound, id)
	}
	if !original.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %d is %s", ErrNotTerminal, id, original.Status)
	}
	return s.Enqueue(ctx, original.Owner, original.Source)
}
