package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Enqueue inserts a new pending request. Duplicate owner/source pairs create
// independent rows.
func (s *Store) Enqueue(ctx context.Context, owner, source string) (*Request, error) {
	owner = strings.TrimSpace(owner)
	source = strings.TrimSpace(source)
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	if source == "" {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidRequest)
	}

	now := timestamp(time.Now())
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO download_requests (owner, source, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		owner,
		source,
		StatusPending,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a request by identifier. It returns nil, nil when the id is unknown.
func (s *Store) GetByID(ctx context.Context, id int64) (*Request, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM download_requests WHERE id = ?`, id)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// ListPending returns every pending request ordered by ascending id.
func (s *Store) ListPending(ctx context.Context) ([]*Request, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+requestColumns+` FROM download_requests WHERE status = ? ORDER BY id`,
		StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	reqs, err := scanRequests(rows)
	if err != nil {
		return nil, fmt.Errorf("scan pending: %w", err)
	}
	return reqs, nil
}

// NextPending returns the oldest pending request, or nil when the backlog is empty.
func (s *Store) NextPending(ctx context.Context) (*Request, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+requestColumns+` FROM download_requests WHERE status = ? ORDER BY id LIMIT 1`,
		StatusPending,
	)
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next pending: %w", err)
	}
	return req, nil
}

// List returns requests filtered by status, newest first. No statuses means all.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Request, error) {
	return s.list(ctx, "", statuses)
}

// ListByOwner returns one owner's requests, newest first, optionally filtered by status.
func (s *Store) ListByOwner(ctx context.Context, owner string, statuses ...Status) ([]*Request, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	return s.list(ctx, owner, statuses)
}

func (s *Store) list(ctx context.Context, owner string, statuses []Status) ([]*Request, error) {
	ctx = ensureContext(ctx)
	var (
		clauses []string
		args    []any
	)
	if owner != "" {
		clauses = append(clauses, "owner = ?")
		args = append(args, owner)
	}
	if len(statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(statuses))+")")
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query := `SELECT ` + requestColumns + ` FROM download_requests`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	reqs, err := scanRequests(rows)
	if err != nil {
		return nil, fmt.Errorf("scan requests: %w", err)
	}
	return reqs, nil
}
