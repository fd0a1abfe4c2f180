package repository

import (
	"context"
	"fmt"
	"time"

	"partshub-backend/internal/domains/importlog/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Start(ctx context.Context, targetType string, totalRecords int, importedBy *string, source string) (uuid.UUID, error) {
	var id uuid.UUID
	// Counters start at zero, not NULL, so in-progress rows scan cleanly.
	err := r.pool.QueryRow(ctx, `
		INSERT INTO import_logs (target_type, import_type, total_records, successful_records, failed_records, status, started_at, imported_by, import_source)
		VALUES ($1, $2, $3, 0, 0, $4, NOW(), $5, $6)
		RETURNING id`,
		targetType,
		model.ImportTypeFor(totalRecords),
		totalRecords,
		model.StatusInProgress,
		importedBy,
		source,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create import log: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) Finish(ctx context.Context, id uuid.UUID, successful, failed int, errs []string) error {
	status := model.StatusCompleted
	if failed > 0 {
		status = model.StatusCompletedWithErrors
	}

	// errors stays NULL when the batch was clean.
	var errArray interface{}
	if len(errs) > 0 {
		errArray = pq.Array(errs)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE import_logs
		SET successful_records = $2,
		    failed_records = $3,
		    errors = $4,
		    status = $5,
		    completed_at = NOW()
		WHERE id = $1`,
		id, successful, failed, errArray, status,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize import log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import log %s not found", id)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, targetType string, limit int) ([]model.ImportLog, error) {
	query := `
		SELECT id, target_type, import_type, total_records, successful_records,
		       failed_records, errors, status, started_at, completed_at,
		       imported_by, import_source
		FROM import_logs`
	args := []interface{}{}

	if targetType != "" {
		query += ` WHERE target_type = $1`
		args = append(args, targetType)
	}
	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func (r *postgresRepository) FindStale(ctx context.Context, olderThan time.Duration) ([]model.ImportLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, target_type, import_type, total_records, successful_records,
		       failed_records, errors, status, started_at, completed_at,
		       imported_by, import_source
		FROM import_logs
		WHERE status = $1 AND started_at < NOW() - $2::interval
		ORDER BY started_at ASC`,
		model.StatusInProgress,
		fmt.Sprintf("%d seconds", int(olderThan.Seconds())),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale import logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func scanLogs(rows pgx.Rows) ([]model.ImportLog, error) {
	logs := make([]model.ImportLog, 0)
	for rows.Next() {
		var l model.ImportLog
		var errs []string
		// Rows written before the counters carried defaults may hold NULL;
		// scan through pointers so a stuck in_progress row stays readable.
		var successful, failed *int
		err := rows.Scan(
			&l.ID,
			&l.TargetType,
			&l.ImportType,
			&l.TotalRecords,
			&successful,
			&failed,
			pq.Array(&errs),
			&l.Status,
			&l.StartedAt,
			&l.CompletedAt,
			&l.ImportedBy,
			&l.ImportSource,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		if successful != nil {
			l.SuccessfulRecords = *successful
		}
		if failed != nil {
			l.FailedRecords = *failed
		}
		l.Errors = errs
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return logs, nil
}
