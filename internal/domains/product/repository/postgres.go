package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/shared/utils"
	"partshub-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Raw SQL with pgxpool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const productColumns = `
	id, sku, name, description, category, manufacturer, supplier,
	unit_cost, list_price, weight_kg, length_cm, width_cm, height_cm,
	lead_time_days, min_order_quantity, reorder_point, quantity_on_hand,
	barcode, unit_of_measure, country_of_origin, hs_code, notes, is_active,
	created_at, updated_at`

// insertColumns excludes id/timestamps, which the database fills.
var insertColumns = []string{
	"sku", "name", "description", "category", "manufacturer", "supplier",
	"unit_cost", "list_price", "weight_kg", "length_cm", "width_cm", "height_cm",
	"lead_time_days", "min_order_quantity", "reorder_point", "quantity_on_hand",
	"barcode", "unit_of_measure", "country_of_origin", "hs_code", "notes", "is_active",
}

func rowArgs(p model.NormalizedProduct) []interface{} {
	return []interface{}{
		p.SKU, p.Name, p.Description, p.Category, p.Manufacturer, p.Supplier,
		p.UnitCost, p.ListPrice, p.WeightKg, p.LengthCm, p.WidthCm, p.HeightCm,
		p.LeadTimeDays, p.MinOrderQty, p.ReorderPoint, p.QuantityOnHand,
		p.Barcode, p.UnitOfMeasure, p.CountryOfOrigin, p.HSCode, p.Notes, p.IsActive,
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category, &p.Manufacturer, &p.Supplier,
		&p.UnitCost, &p.ListPrice, &p.WeightKg, &p.LengthCm, &p.WidthCm, &p.HeightCm,
		&p.LeadTimeDays, &p.MinOrderQty, &p.ReorderPoint, &p.QuantityOnHand,
		&p.Barcode, &p.UnitOfMeasure, &p.CountryOfOrigin, &p.HSCode, &p.Notes, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ============================================
// CRUD
// ============================================

func (r *postgresRepository) List(ctx context.Context, req model.ListProductsRequest) ([]model.Product, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(sku ILIKE $%d OR name ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+req.Search+"%")
		argIndex++
	}
	if req.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, req.Category)
		argIndex++
	}
	if req.Supplier != "" {
		conditions = append(conditions, fmt.Sprintf("supplier = $%d", argIndex))
		args = append(args, req.Supplier)
		argIndex++
	}
	if req.Active != nil {
		conditions = append(conditions, fmt.Sprintf("COALESCE(is_active, true) = $%d", argIndex))
		args = append(args, *req.Active)
		argIndex++
	}

	whereClause := utils.JoinWithAnd(conditions)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("product count failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE %s
		ORDER BY sku ASC
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argIndex, argIndex+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("product list query failed: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0, req.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return products, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE sku = $1`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Create(ctx context.Context, row model.NormalizedProduct) (*model.Product, error) {
	placeholders := make([]string, len(insertColumns))
	for i := range insertColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO products (%s)
		VALUES (%s)
		RETURNING %s`,
		strings.Join(insertColumns, ", "),
		strings.Join(placeholders, ", "),
		productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, rowArgs(row)...))
	if isUniqueViolation(err) {
		return nil, model.ErrDuplicateSKU
	}
	if err != nil {
		return nil, fmt.Errorf("product insert failed: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIndex := 2

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	// Only fields present in the payload are written.
	if req.Name.Present {
		addSet("name", req.Name.Ptr())
	}
	if req.Description.Present {
		addSet("description", req.Description.Ptr())
	}
	if req.Category.Present {
		addSet("category", req.Category.Ptr())
	}
	if req.Manufacturer.Present {
		addSet("manufacturer", req.Manufacturer.Ptr())
	}
	if req.Supplier.Present {
		addSet("supplier", req.Supplier.Ptr())
	}
	if req.UnitCost.Present {
		addSet("unit_cost", req.UnitCost.Ptr())
	}
	if req.ListPrice.Present {
		addSet("list_price", req.ListPrice.Ptr())
	}
	if req.Notes.Present {
		addSet("notes", req.Notes.Ptr())
	}
	if req.IsActive.Present {
		addSet("is_active", req.IsActive.Ptr())
	}
	if req.UnitOfMeasure.Present {
		addSet("unit_of_measure", req.UnitOfMeasure.Ptr())
	}
	if req.CountryOfOrigin.Present {
		addSet("country_of_origin", req.CountryOfOrigin.Ptr())
	}

	query := fmt.Sprintf(`
		UPDATE products SET %s
		WHERE id = $1
		RETURNING %s`,
		strings.Join(setClauses, ", "), productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product update failed: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("product delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

// ============================================
// BULK IMPORT WRITES
// ============================================

func buildValuesClause(rowCount, colCount int) string {
	values := make([]string, rowCount)
	for i := 0; i < rowCount; i++ {
		placeholders := make([]string, colCount)
		for j := 0; j < colCount; j++ {
			placeholders[j] = fmt.Sprintf("$%d", i*colCount+j+1)
		}
		values[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}
	return strings.Join(values, ", ")
}

func collectArgs(rows []model.NormalizedProduct) []interface{} {
	args := make([]interface{}, 0, len(rows)*len(insertColumns))
	for _, row := range rows {
		args = append(args, rowArgs(row)...)
	}
	return args
}

func collectRefs(rows pgx.Rows) ([]model.ProductRef, error) {
	refs := make([]model.ProductRef, 0)
	for rows.Next() {
		var ref model.ProductRef
		if err := rows.Scan(&ref.ID, &ref.SKU); err != nil {
			return nil, fmt.Errorf("failed to scan product ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return refs, nil
}

func (r *postgresRepository) BulkInsert(ctx context.Context, rows []model.NormalizedProduct) ([]model.ProductRef, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO products (%s)
		VALUES %s
		RETURNING id, sku`,
		strings.Join(insertColumns, ", "),
		buildValuesClause(len(rows), len(insertColumns)))

	result, err := r.pool.Query(ctx, query, collectArgs(rows)...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicateSKU
		}
		return nil, fmt.Errorf("bulk insert failed: %w", err)
	}
	defer result.Close()

	return collectRefs(result)
}

func (r *postgresRepository) BulkUpsert(ctx context.Context, rows []model.NormalizedProduct) ([]model.ProductRef, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	// Optional columns coalesce with the stored value: a field the input
	// did not provide arrives as NULL and leaves the row untouched.
	updateClauses := []string{"name = EXCLUDED.name", "updated_at = NOW()"}
	for _, col := range insertColumns[2:] {
		updateClauses = append(updateClauses,
			fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, products.%s)", col, col, col))
	}

	query := fmt.Sprintf(`
		INSERT INTO products (%s)
		VALUES %s
		ON CONFLICT (sku) DO UPDATE SET %s
		RETURNING id, sku`,
		strings.Join(insertColumns, ", "),
		buildValuesClause(len(rows), len(insertColumns)),
		strings.Join(updateClauses, ", "))

	result, err := r.pool.Query(ctx, query, collectArgs(rows)...)
	if err != nil {
		return nil, fmt.Errorf("bulk upsert failed: %w", err)
	}
	defer result.Close()

	return collectRefs(result)
}

func (r *postgresRepository) ReplacePriceBreaks(ctx context.Context, productID uuid.UUID, breaks []model.NormalizedPriceBreak) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM price_breaks WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("price break delete failed: %w", err)
		}

		for _, b := range breaks {
			_, err := tx.Exec(ctx, `
				INSERT INTO price_breaks (product_id, min_quantity, max_quantity, unit_cost, description, discount_percent, effective_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				productID, b.MinQuantity, b.MaxQuantity, b.UnitCost, b.Description, b.DiscountPercent, b.EffectiveDate,
			)
			if err != nil {
				return fmt.Errorf("price break insert failed: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresRepository) ListPriceBreaks(ctx context.Context, productID uuid.UUID) ([]model.PriceBreak, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, min_quantity, max_quantity, unit_cost, description, discount_percent, effective_date, created_at
		FROM price_breaks
		WHERE product_id = $1
		ORDER BY min_quantity ASC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("price break query failed: %w", err)
	}
	defer rows.Close()

	breaks := make([]model.PriceBreak, 0)
	for rows.Next() {
		var b model.PriceBreak
		err := rows.Scan(&b.ID, &b.ProductID, &b.MinQuantity, &b.MaxQuantity, &b.UnitCost,
			&b.Description, &b.DiscountPercent, &b.EffectiveDate, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price break: %w", err)
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return breaks, nil
}

func (r *postgresRepository) FindBreakForQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*model.PriceBreak, error) {
	var b model.PriceBreak
	err := r.pool.QueryRow(ctx, `
		SELECT id, product_id, min_quantity, max_quantity, unit_cost, description, discount_percent, effective_date, created_at
		FROM price_breaks
		WHERE product_id = $1
		  AND min_quantity <= $2
		  AND (max_quantity IS NULL OR max_quantity >= $2)
		ORDER BY min_quantity DESC
		LIMIT 1`,
		productID, quantity,
	).Scan(&b.ID, &b.ProductID, &b.MinQuantity, &b.MaxQuantity, &b.UnitCost,
		&b.Description, &b.DiscountPercent, &b.EffectiveDate, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("price break lookup failed: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("product delete-all failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
