package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"partshub-backend/internal/domains/crossref/model"
	"partshub-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Raw SQL with pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const crossRefColumns = `
	id, internal_part_number, customer_part_number, supplier_part_number,
	description, reference_type, product_id, customer_id, created_at, updated_at`

var insertColumns = []string{
	"internal_part_number", "customer_part_number", "supplier_part_number",
	"description", "reference_type", "product_id", "customer_id",
}

func rowArgs(row model.NormalizedCrossReference) []interface{} {
	return []interface{}{
		row.InternalPartNumber, row.CustomerPartNumber, row.SupplierPartNumber,
		row.Description, row.ReferenceType, row.ProductID, row.CustomerID,
	}
}

func scanCrossReference(row pgx.Row) (*model.CrossReference, error) {
	var x model.CrossReference
	err := row.Scan(
		&x.ID, &x.InternalPartNumber, &x.CustomerPartNumber, &x.SupplierPartNumber,
		&x.Description, &x.ReferenceType, &x.ProductID, &x.CustomerID,
		&x.CreatedAt, &x.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

func (r *postgresRepository) List(ctx context.Context, req model.ListRequest) ([]model.CrossReference, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(internal_part_number ILIKE $%d OR customer_part_number ILIKE $%d OR supplier_part_number ILIKE $%d)",
			argIndex, argIndex, argIndex))
		args = append(args, "%"+req.Search+"%")
		argIndex++
	}
	if req.CustomerID != "" {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argIndex))
		args = append(args, req.CustomerID)
		argIndex++
	}

	whereClause := utils.JoinWithAnd(conditions)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM cross_references WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("cross reference count failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM cross_references
		WHERE %s
		ORDER BY internal_part_number ASC, customer_part_number ASC
		LIMIT $%d OFFSET $%d`,
		crossRefColumns, whereClause, argIndex, argIndex+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("cross reference list query failed: %w", err)
	}
	defer rows.Close()

	refs := make([]model.CrossReference, 0, req.Limit)
	for rows.Next() {
		x, err := scanCrossReference(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan cross reference: %w", err)
		}
		refs = append(refs, *x)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return refs, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CrossReference, error) {
	query := fmt.Sprintf(`SELECT %s FROM cross_references WHERE id = $1`, crossRefColumns)
	x, err := scanCrossReference(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCrossReferenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cross reference lookup failed: %w", err)
	}
	return x, nil
}

func (r *postgresRepository) FindByTriple(ctx context.Context, internal, customer, supplier string) (*model.CrossReference, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cross_references
		WHERE internal_part_number = $1
		  AND customer_part_number = $2
		  AND supplier_part_number = $3
		LIMIT 1`, crossRefColumns)

	x, err := scanCrossReference(r.pool.QueryRow(ctx, query, internal, customer, supplier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cross reference triple lookup failed: %w", err)
	}
	return x, nil
}

func (r *postgresRepository) Insert(ctx context.Context, row model.NormalizedCrossReference) (*model.CrossReference, error) {
	placeholders := make([]string, len(insertColumns))
	for i := range insertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO cross_references (%s)
		VALUES (%s)
		RETURNING %s`,
		strings.Join(insertColumns, ", "),
		strings.Join(placeholders, ", "),
		crossRefColumns)

	x, err := scanCrossReference(r.pool.QueryRow(ctx, query, rowArgs(row)...))
	if err != nil {
		return nil, fmt.Errorf("cross reference insert failed: %w", err)
	}
	return x, nil
}

func (r *postgresRepository) UpdateByID(ctx context.Context, id uuid.UUID, row model.NormalizedCrossReference) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cross_references SET
			internal_part_number = $2,
			customer_part_number = $3,
			supplier_part_number = $4,
			description = COALESCE($5, description),
			reference_type = COALESCE($6, reference_type),
			product_id = COALESCE($7, product_id),
			customer_id = COALESCE($8, customer_id),
			updated_at = NOW()
		WHERE id = $1`,
		id, row.InternalPartNumber, row.CustomerPartNumber, row.SupplierPartNumber,
		row.Description, row.ReferenceType, row.ProductID, row.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("cross reference update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCrossReferenceNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cross_references WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cross reference delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCrossReferenceNotFound
	}
	return nil
}

func (r *postgresRepository) BulkInsert(ctx context.Context, rows []model.NormalizedCrossReference) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(insertColumns))
	for i, row := range rows {
		placeholders := make([]string, len(insertColumns))
		for j := range insertColumns {
			placeholders[j] = fmt.Sprintf("$%d", i*len(insertColumns)+j+1)
		}
		values[i] = "(" + strings.Join(placeholders, ", ") + ")"
		args = append(args, rowArgs(row)...)
	}

	query := fmt.Sprintf(`
		INSERT INTO cross_references (%s)
		VALUES %s`,
		strings.Join(insertColumns, ", "),
		strings.Join(values, ", "))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk insert failed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *postgresRepository) FindProductIDBySKU(ctx context.Context, sku string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM products WHERE sku = $1`, sku).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("product sku lookup failed: %w", err)
	}
	return &id, nil
}

func (r *postgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cross_references`)
	if err != nil {
		return 0, fmt.Errorf("cross reference delete-all failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
