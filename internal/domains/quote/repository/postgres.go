package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"partshub-backend/internal/domains/quote/model"
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

const quoteColumns = `
	id, quote_number, customer_id, status, valid_until, notes,
	subtotal, total_cost, margin_amount, margin_percent, created_at, updated_at`

const itemColumns = `
	id, quote_id, product_id, description, quantity,
	unit_cost, unit_price, extended_price, created_at, updated_at`

func scanQuote(row pgx.Row) (*model.Quote, error) {
	var q model.Quote
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.CustomerID, &q.Status, &q.ValidUntil, &q.Notes,
		&q.Subtotal, &q.TotalCost, &q.MarginAmount, &q.MarginPercent,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func scanItem(row pgx.Row) (*model.QuoteItem, error) {
	var it model.QuoteItem
	err := row.Scan(
		&it.ID, &it.QuoteID, &it.ProductID, &it.Description, &it.Quantity,
		&it.UnitCost, &it.UnitPrice, &it.ExtendedPrice, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepository) List(ctx context.Context, req model.ListQuotesRequest) ([]model.Quote, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if req.CustomerID != "" {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argIndex))
		args = append(args, req.CustomerID)
		argIndex++
	}
	if req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, req.Status)
		argIndex++
	}

	whereClause := utils.JoinWithAnd(conditions)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM quotes WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quote count failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM quotes
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		quoteColumns, whereClause, argIndex, argIndex+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("quote list query failed: %w", err)
	}
	defer rows.Close()

	quotes := make([]model.Quote, 0, req.Limit)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return quotes, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotes WHERE id = $1`, quoteColumns)
	q, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("quote lookup failed: %w", err)
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Items = items
	return q, nil
}

func (r *postgresRepository) Create(ctx context.Context, quote model.Quote) (*model.Quote, error) {
	query := fmt.Sprintf(`
		INSERT INTO quotes (quote_number, customer_id, status, valid_until, notes,
			subtotal, total_cost, margin_amount, margin_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, quoteColumns)

	q, err := scanQuote(r.pool.QueryRow(ctx, query,
		quote.QuoteNumber, quote.CustomerID, quote.Status, quote.ValidUntil, quote.Notes,
		quote.Subtotal, quote.TotalCost, quote.MarginAmount, quote.MarginPercent,
	))
	if err != nil {
		return nil, fmt.Errorf("quote insert failed: %w", err)
	}
	return q, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuoteRequest) (*model.Quote, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIndex := 2

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if req.Status.Present {
		addSet("status", req.Status.Ptr())
	}
	if req.ValidUntil.Present {
		var validUntil *time.Time
		if req.ValidUntil.Valid {
			parsed, err := time.Parse("2006-01-02", req.ValidUntil.Value)
			if err != nil {
				return nil, fmt.Errorf("valid_until must be YYYY-MM-DD")
			}
			validUntil = &parsed
		}
		addSet("valid_until", validUntil)
	}
	if req.Notes.Present {
		addSet("notes", req.Notes.Ptr())
	}

	query := fmt.Sprintf(`
		UPDATE quotes SET %s
		WHERE id = $1
		RETURNING %s`,
		strings.Join(setClauses, ", "), quoteColumns)

	q, err := scanQuote(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("quote update failed: %w", err)
	}
	return q, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("quote delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQuoteNotFound
	}
	return nil
}

func (r *postgresRepository) ListItems(ctx context.Context, quoteID uuid.UUID) ([]model.QuoteItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM quote_items
		WHERE quote_id = $1
		ORDER BY created_at ASC`, itemColumns)

	rows, err := r.pool.Query(ctx, query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("quote item query failed: %w", err)
	}
	defer rows.Close()

	items := make([]model.QuoteItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func (r *postgresRepository) GetItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.QuoteItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM quote_items WHERE id = $1 AND quote_id = $2`, itemColumns)
	it, err := scanItem(r.pool.QueryRow(ctx, query, itemID, quoteID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrQuoteItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("quote item lookup failed: %w", err)
	}
	return it, nil
}

func (r *postgresRepository) InsertItem(ctx context.Context, item model.QuoteItem) (*model.QuoteItem, error) {
	query := fmt.Sprintf(`
		INSERT INTO quote_items (quote_id, product_id, description, quantity, unit_cost, unit_price, extended_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, itemColumns)

	it, err := scanItem(r.pool.QueryRow(ctx, query,
		item.QuoteID, item.ProductID, item.Description, item.Quantity,
		item.UnitCost, item.UnitPrice, item.ExtendedPrice,
	))
	if err != nil {
		return nil, fmt.Errorf("quote item insert failed: %w", err)
	}
	return it, nil
}

func (r *postgresRepository) UpdateItem(ctx context.Context, item model.QuoteItem) (*model.QuoteItem, error) {
	query := fmt.Sprintf(`
		UPDATE quote_items SET
			description = $3,
			quantity = $4,
			unit_cost = $5,
			unit_price = $6,
			extended_price = $7,
			updated_at = NOW()
		WHERE id = $1 AND quote_id = $2
		RETURNING %s`, itemColumns)

	it, err := scanItem(r.pool.QueryRow(ctx, query,
		item.ID, item.QuoteID, item.Description, item.Quantity,
		item.UnitCost, item.UnitPrice, item.ExtendedPrice,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrQuoteItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("quote item update failed: %w", err)
	}
	return it, nil
}

func (r *postgresRepository) DeleteItem(ctx context.Context, quoteID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quote_items WHERE id = $1 AND quote_id = $2`, itemID, quoteID)
	if err != nil {
		return fmt.Errorf("quote item delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQuoteItemNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateTotals(ctx context.Context, quoteID uuid.UUID, totals Totals) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE quotes SET
			subtotal = $2,
			total_cost = $3,
			margin_amount = $4,
			margin_percent = $5,
			updated_at = NOW()
		WHERE id = $1`,
		quoteID, totals.Subtotal, totals.TotalCost, totals.MarginAmount, totals.MarginPercent,
	)
	if err != nil {
		return fmt.Errorf("quote totals update failed: %w", err)
	}
	return nil
}
