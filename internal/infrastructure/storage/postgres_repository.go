package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"PitchPipeline/internal/domain"
	"PitchPipeline/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists processed prospects into Postgres so later
// runs can skip journalists who already received a pitch.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ProspectRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AlreadyPitched returns a map with contact names that already have a
// pitched snapshot in storage.
func (r *PostgresRepository) AlreadyPitched(ctx context.Context, names []string) (map[string]bool, error) {
	if r.db == nil || len(names) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.
		Select("contact_name").
		From("processed_prospects").
		Where(sq.Expr("contact_name = ANY(?)", pq.StringArray(names))).
		Where(sq.Eq{"status": domain.StatusPitched}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pitched query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pitched: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan contact name: %w", err)
		}
		result[name] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// SaveOutcome upserts the processed prospect snapshot.
func (r *PostgresRepository) SaveOutcome(ctx context.Context, processed domain.ProcessedProspect) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.
		Insert("processed_prospects").
		Columns("contact_name", "slug", "subject", "status", "created_at").
		Values(processed.ContactName, processed.Slug, processed.Subject, processed.Status, processed.CreatedAt).
		Suffix(`ON CONFLICT (contact_name) DO UPDATE
                SET slug = EXCLUDED.slug,
                    subject = EXCLUDED.subject,
                    status = EXCLUDED.status,
                    created_at = EXCLUDED.created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed prospect: %w", err)
	}

	return nil
}
