package response

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists submissions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, r Response) error {
	query := `
		INSERT INTO responses (id, form_id, user_id, response_data, content, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.FormID, r.UserID, []byte(r.Answers), r.Content, r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByForm(ctx context.Context, formID string) ([]Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, user_id, response_data, COALESCE(content, ''), submitted_at
		FROM responses WHERE form_id = $1
		ORDER BY submitted_at DESC`, formID)
	if err != nil {
		return nil, fmt.Errorf("find responses: %w", err)
	}
	defer rows.Close()

	var responses []Response
	for rows.Next() {
		var r Response
		var raw []byte
		if err := rows.Scan(&r.ID, &r.FormID, &r.UserID, &raw, &r.Content, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.Answers = raw
		responses = append(responses, r)
	}
	return responses, rows.Err()
}
