package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"partshub-backend/internal/domains/customer/model"
	"partshub-backend/internal/shared/utils"

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

const customerColumns = `
	id, name, code, contact_name, email, phone, address,
	default_margin_percent, notes, is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*model.Customer, error) {
	var cust model.Customer
	err := row.Scan(
		&cust.ID, &cust.Name, &cust.Code, &cust.ContactName, &cust.Email,
		&cust.Phone, &cust.Address, &cust.DefaultMarginPercent, &cust.Notes,
		&cust.IsActive, &cust.CreatedAt, &cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *postgresRepository) List(ctx context.Context, req model.ListCustomersRequest) ([]model.Customer, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+req.Search+"%")
		argIndex++
	}
	if req.Active != nil {
		conditions = append(conditions, fmt.Sprintf("COALESCE(is_active, true) = $%d", argIndex))
		args = append(args, *req.Active)
		argIndex++
	}

	whereClause := utils.JoinWithAnd(conditions)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM customers WHERE %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customer count failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`,
		customerColumns, whereClause, argIndex, argIndex+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customer list query failed: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Customer, 0, req.Limit)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *cust)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return customers, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns)
	cust, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	return cust, nil
}

func (r *postgresRepository) Create(ctx context.Context, req model.CreateCustomerRequest) (*model.Customer, error) {
	query := fmt.Sprintf(`
		INSERT INTO customers (name, code, contact_name, email, phone, address, default_margin_percent, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, customerColumns)

	cust, err := scanCustomer(r.pool.QueryRow(ctx, query,
		req.Name, req.Code.Ptr(), req.ContactName.Ptr(), req.Email.Ptr(),
		req.Phone.Ptr(), req.Address.Ptr(), req.DefaultMarginPercent.Ptr(), req.Notes.Ptr(),
	))
	if isUniqueViolation(err) {
		return nil, model.ErrDuplicateCode
	}
	if err != nil {
		return nil, fmt.Errorf("customer insert failed: %w", err)
	}
	return cust, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateCustomerRequest) (*model.Customer, error) {
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
	if req.Code.Present {
		addSet("code", req.Code.Ptr())
	}
	if req.ContactName.Present {
		addSet("contact_name", req.ContactName.Ptr())
	}
	if req.Email.Present {
		addSet("email", req.Email.Ptr())
	}
	if req.Phone.Present {
		addSet("phone", req.Phone.Ptr())
	}
	if req.Address.Present {
		addSet("address", req.Address.Ptr())
	}
	if req.DefaultMarginPercent.Present {
		addSet("default_margin_percent", req.DefaultMarginPercent.Ptr())
	}
	if req.Notes.Present {
		addSet("notes", req.Notes.Ptr())
	}
	if req.IsActive.Present {
		addSet("is_active", req.IsActive.Ptr())
	}

	query := fmt.Sprintf(`
		UPDATE customers SET %s
		WHERE id = $1
		RETURNING %s`,
		strings.Join(setClauses, ", "), customerColumns)

	cust, err := scanCustomer(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCustomerNotFound
	}
	if isUniqueViolation(err) {
		return nil, model.ErrDuplicateCode
	}
	if err != nil {
		return nil, fmt.Errorf("customer update failed: %w", err)
	}
	return cust, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("customer delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCustomerNotFound
	}
	return nil
}
