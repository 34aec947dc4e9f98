package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertOwner registers or updates the destination directory for an owner.
func (s *Store) UpsertOwner(ctx context.Context, name, directory string) (*Owner, error) {
	name = strings.TrimSpace(name)
	directory = strings.TrimSpace(directory)
	if name == "" {
		return nil, fmt.Errorf("%w: owner name is required", ErrInvalidRequest)
	}
	if directory == "" {
		return nil, fmt.Errorf("%w: owner directory is required", ErrInvalidRequest)
	}
	now := timestamp(time.Now())
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO owners (name, directory, created_at, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET directory = excluded.directory, updated_at = excluded.updated_at`,
		name, directory, now, now,
	); err != nil {
		return nil, fmt.Errorf("upsert owner: %w", err)
	}
	return s.GetOwner(ctx, name)
}

// GetOwner returns a registered owner, or nil when the name is unknown.
func (s *Store) GetOwner(ctx context.Context, name string) (*Owner, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT name, directory, created_at, updated_at FROM owners WHERE name = ?`,
		strings.TrimSpace(name),
	)
	owner, err := scanOwner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return owner, nil
}

// ListOwners returns every registered owner ordered by name.
func (s *Store) ListOwners(ctx context.Context) ([]*Owner, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT name, directory, created_at, updated_at FROM owners ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []*Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// RemoveOwner deletes an owner mapping. Existing requests keep their owner
// name and will fail resolution on their next dispatch.
func (s *Store) RemoveOwner(ctx context.Context, name string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM owners WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("remove owner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ResolveDestination maps an owner to the directory their downloads land in.
// ErrDestinationNotFound marks an owner without a usable directory; any other
// error means the store itself could not answer.
func (s *Store) ResolveDestination(ctx context.Context, owner string) (string, error) {
	record, err := s.GetOwner(ctx, owner)
	if err != nil {
		return "", err
	}
	if record == nil || strings.TrimSpace(record.Directory) == "" {
		return "", fmt.Errorf("%w: owner %q", ErrDestinationNotFound, owner)
	}
	return record.Directory, nil
}
