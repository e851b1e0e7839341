package form

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore persists forms and questions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, f Form) error {
	query := `
		INSERT INTO forms (id, owner_id, title, description, view_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description
	`
	_, err := s.db.ExecContext(ctx, query, f.ID, f.OwnerID, f.Title, f.Description, f.ViewCount, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("save form: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Form, error) {
	var f Form
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, view_count, created_at
		FROM forms WHERE id = $1`, id).
		Scan(&f.ID, &f.OwnerID, &f.Title, &f.Description, &f.ViewCount, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Form{}, ErrNotFound
		}
		return Form{}, fmt.Errorf("find form: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, ownerID string) ([]Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, view_count, created_at
		FROM forms WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find forms by owner: %w", err)
	}
	defer rows.Close()

	var forms []Form
	for rows.Next() {
		var f Form
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Title, &f.Description, &f.ViewCount, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// IncrementViewCount bumps the counter atomically in the database rather
// than read-modify-write in the application.
func (s *PostgresStore) IncrementViewCount(ctx context.Context, formID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE forms SET view_count = view_count + 1 WHERE id = $1`, formID)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveQuestions stores the questions with their slice index as position so
// forms render in authoring order.
func (s *PostgresStore) SaveQuestions(ctx context.Context, formID string, questions []Question) error {
	for i, q := range questions {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO questions (id, form_id, position, type, question, required, options, min_value, max_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			q.ID, formID, i, q.Type, q.Label, q.Required, pq.Array(q.Options), q.Min, q.Max)
		if err != nil {
			return fmt.Errorf("save question: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) QuestionsByForm(ctx context.Context, formID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, type, question, required, options, min_value, max_value
		FROM questions WHERE form_id = $1
		ORDER BY position`, formID)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.FormID, &q.Type, &q.Label, &q.Required, pq.Array(&q.Options), &q.Min, &q.Max); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
