package view

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresEventStore persists view events in PostgreSQL. The table
// carries a partial index per identity channel so the recency lookups
// stay cheap.
type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEventStore(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

func (s *PostgresEventStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO form_views (id, form_id, user_id, ip_address, viewed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.FormID,
		nullable(event.UserID),
		nullable(event.IPAddress),
		event.ViewedAt,
	)
	if err != nil {
		return fmt.Errorf("append view event: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) MostRecentByFormAndUser(ctx context.Context, formID, userID string, since time.Time) (*Event, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, form_id, COALESCE(user_id, ''), COALESCE(ip_address, ''), viewed_at
		FROM form_views
		WHERE form_id = $1 AND user_id = $2 AND viewed_at >= $3
		ORDER BY viewed_at DESC
		LIMIT 1`, formID, userID, since))
}

func (s *PostgresEventStore) MostRecentByFormAndIP(ctx context.Context, formID, ip string, since time.Time) (*Event, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, form_id, COALESCE(user_id, ''), COALESCE(ip_address, ''), viewed_at
		FROM form_views
		WHERE form_id = $1 AND user_id IS NULL AND ip_address = $2 AND viewed_at >= $3
		ORDER BY viewed_at DESC
		LIMIT 1`, formID, ip, since))
}

func (s *PostgresEventStore) TopNAcrossForms(ctx context.Context, formIDs []string, n int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, COALESCE(user_id, ''), COALESCE(ip_address, ''), viewed_at
		FROM form_views
		WHERE form_id = ANY($1)
		ORDER BY viewed_at DESC
		LIMIT $2`, pq.Array(formIDs), n)
	if err != nil {
		return nil, fmt.Errorf("query recent views: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.FormID, &e.UserID, &e.IPAddress, &e.ViewedAt); err != nil {
			return nil, fmt.Errorf("scan view event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresEventStore) scanOne(row *sql.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.FormID, &e.UserID, &e.IPAddress, &e.ViewedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan view event: %w", err)
	}
	return &e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
