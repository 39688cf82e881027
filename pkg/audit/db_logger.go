package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBLogger writes audit entries to the audit_log table.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger creates a database-backed audit logger. The audit_log table is
// part of the main schema and created by the storage migrations.
func NewDBLogger(db *sql.DB) (*DBLogger, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &DBLogger{db: db}, nil
}

// Record inserts an audit entry. The entry's ID and CreatedAt are filled in
// on success.
func (l *DBLogger) Record(ctx context.Context, entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	err := l.db.QueryRowContext(ctx, `
		INSERT INTO audit_log (
			user_id, group_id, action, resource_type, resource_id,
			status, error_message, ip_address, user_agent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		entry.UserID, entry.GroupID, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.Status, entry.ErrorMessage, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns entries matching the filter, newest first.
func (l *DBLogger) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	query := `
		SELECT id, user_id, group_id, action, resource_type, resource_id,
		       status, error_message, ip_address, user_agent, created_at
		FROM audit_log
		WHERE 1=1`

	args := []interface{}{}
	argCount := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, *filter.UserID)
		argCount++
	}
	if filter.GroupID != nil {
		query += fmt.Sprintf(" AND group_id = $%d", argCount)
		args = append(args, *filter.GroupID)
		argCount++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argCount)
		args = append(args, string(filter.Action))
		argCount++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, string(filter.Status))
		argCount++
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
		argCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := &Entry{}
		var errMsg, ip, ua, resourceID sql.NullString
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.GroupID, &entry.Action, &entry.ResourceType,
			&resourceID, &entry.Status, &errMsg, &ip, &ua, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.ResourceID = resourceID.String
		entry.ErrorMessage = errMsg.String
		entry.IPAddress = ip.String
		entry.UserAgent = ua.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}
