package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists the audit trail in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO form_activities (id, form_id, user_id, activity_type, activity_description, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		event.FormID,
		nullableString(event.UserID),
		string(event.Action),
		event.Description,
		nullableString(event.IPAddress),
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByForm(ctx context.Context, formID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT form_id, COALESCE(user_id, ''), activity_type, COALESCE(activity_description, ''), COALESCE(ip_address, ''), created_at
		FROM form_activities
		WHERE form_id = $1
		ORDER BY created_at DESC`, formID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var action string
		if err := rows.Scan(&e.FormID, &e.UserID, &action, &e.Description, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = Action(action)
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
