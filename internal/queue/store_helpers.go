package queue

import (
	"database/sql"
	"errors"
	"time"
)

const requestColumns = "id, owner, source, status, error_message, created_at, updated_at, started_at, finished_at"

func scanRequest(scanner interface{ Scan(dest ...any) error }) (*Request, error) {
	var (
		id          int64
		owner       string
		source      string
		statusStr   string
		errorMsg    sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&owner,
		&source,
		&statusStr,
		&errorMsg,
		&createdRaw,
		&updatedRaw,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	req := &Request{
		ID:           id,
		Owner:        owner,
		Source:       source,
		Status:       Status(statusStr),
		ErrorMessage: errorMsg.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		req.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		req.UpdatedAt = updated
	}
	req.StartedAt = parseOptionalTime(startedRaw)
	req.FinishedAt = parseOptionalTime(finishedRaw)
	return req, nil
}

func scanRequests(rows *sql.Rows) ([]*Request, error) {
	defer rows.Close()
	var out []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanOwner(scanner interface{ Scan(dest ...any) error }) (*Owner, error) {
	var (
		name       string
		directory  string
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&name, &directory, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	owner := &Owner{Name: name, Directory: directory}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		owner.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		owner.UpdatedAt = updated
	}
	return owner, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseOptionalTime(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	parsed, err := parseTimeString(value.String)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
