package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CustomerInput is the payload for registering a due customer.
// OpeningBalance seeds a pre-existing position: positive means the customer
// already owes the shop, negative means the customer holds an advance.
type CustomerInput struct {
	Name           string
	Phone          string
	Address        string
	OpeningBalance decimal.Decimal
}

func (in *CustomerInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	return nil
}

// CustomerUpdate changes profile and status fields only. Balance fields are
// deliberately absent: they move exclusively through ledger increments.
type CustomerUpdate struct {
	Name     *string
	Phone    *string
	Address  *string
	IsActive *bool
}

// EntityFilter narrows entity listings.
type EntityFilter struct {
	Search   string // matches name, phone, address
	Active   *bool
	HasDues  *bool // true: outstanding_due > 0; false: outstanding_due <= 0
	SortBy   string // name | gross | outstanding | created_at
	Limit    int
	Offset   int
}

// CustomerStats is the aggregate rollup over all customers of a shopkeeper.
type CustomerStats struct {
	TotalCustomers   int             `json:"total_customers"`
	ActiveCustomers  int             `json:"active_customers"`
	CustomersWithDue int             `json:"customers_with_due"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, shopkeeperID int, input CustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, shopkeeperID, customerID int) (*Customer, error)
	UpdateCustomer(ctx context.Context, shopkeeperID, customerID int, update CustomerUpdate) (*Customer, error)
	// DeleteCustomer removes the record permanently. Customers have no
	// soft-delete path; their bills keep the stored party name.
	DeleteCustomer(ctx context.Context, shopkeeperID, customerID int) error
	ListCustomers(ctx context.Context, shopkeeperID int, filter EntityFilter) ([]Customer, error)
	GetCustomerStats(ctx context.Context, shopkeeperID int) (*CustomerStats, error)
	// RecordPayment settles due balance outside the bill flow. Overpayment
	// is allowed and leaves a negative outstanding (advance).
	RecordPayment(ctx context.Context, shopkeeperID, customerID int, amount decimal.Decimal, method, note string) (*Customer, error)
}

type customerService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewCustomerService(pool *pgxpool.Pool, ledger *Ledger) CustomerService {
	return &customerService{pool: pool, ledger: ledger}
}

const customerColumns = `id, shopkeeper_id, name, phone, address,
       total_sales, total_paid, outstanding_due, is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.ShopkeeperID, &c.Name, &c.Phone, &c.Address,
		&c.TotalSales, &c.TotalPaid, &c.OutstandingDue, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, shopkeeperID int, input CustomerInput) (*Customer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	gross, paid := DecomposeOpeningBalance(input.OpeningBalance)

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (shopkeeper_id, name, phone, address, total_sales, total_paid, outstanding_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+customerColumns,
		shopkeeperID, strings.TrimSpace(input.Name), input.Phone, input.Address,
		gross, paid, input.OpeningBalance,
	))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, shopkeeperID, customerID int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1 AND shopkeeper_id = $2",
		customerID, shopkeeperID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch customer %d: %w", customerID, err)
	}
	return c, nil
}

// UpdateCustomer touches profile fields only; the balance triple cannot be
// reached from here.
func (s *customerService) UpdateCustomer(ctx context.Context, shopkeeperID, customerID int, update CustomerUpdate) (*Customer, error) {
	c, err := s.GetCustomer(ctx, shopkeeperID, customerID)
	if err != nil {
		return nil, err
	}

	name := c.Name
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
		}
		name = strings.TrimSpace(*update.Name)
	}
	phone := c.Phone
	if update.Phone != nil {
		phone = *update.Phone
	}
	address := c.Address
	if update.Address != nil {
		address = *update.Address
	}
	active := c.IsActive
	if update.IsActive != nil {
		active = *update.IsActive
	}

	c, err = scanCustomer(s.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND shopkeeper_id = $6
		RETURNING `+customerColumns,
		name, phone, address, active, customerID, shopkeeperID,
	))
	if err != nil {
		return nil, fmt.Errorf("update customer %d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, shopkeeperID, customerID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM customers WHERE id = $1 AND shopkeeper_id = $2",
		customerID, shopkeeperID,
	)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
	}
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context, shopkeeperID int, filter EntityFilter) ([]Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers WHERE shopkeeper_id = $1"
	args := []any{shopkeeperID}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%d OR phone ILIKE $%d OR address ILIKE $%d)", len(args), len(args), len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.HasDues != nil {
		if *filter.HasDues {
			q += " AND outstanding_due > 0"
		} else {
			q += " AND outstanding_due <= 0"
		}
	}

	q += " ORDER BY " + entitySortClause(filter.SortBy, "total_sales")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// entitySortClause maps a caller-facing sort key to a whitelisted ORDER BY
// clause. Unknown keys fall back to name.
func entitySortClause(sortBy, grossColumn string) string {
	switch sortBy {
	case "gross":
		return grossColumn + " DESC"
	case "outstanding":
		return "outstanding_due DESC"
	case "created_at":
		return "created_at DESC"
	default:
		return "name ASC"
	}
}

func (s *customerService) GetCustomerStats(ctx context.Context, shopkeeperID int) (*CustomerStats, error) {
	var st CustomerStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE outstanding_due > 0),
		       COALESCE(SUM(total_sales), 0),
		       COALESCE(SUM(total_paid), 0),
		       COALESCE(SUM(outstanding_due), 0)
		FROM customers
		WHERE shopkeeper_id = $1`,
		shopkeeperID,
	).Scan(
		&st.TotalCustomers, &st.ActiveCustomers, &st.CustomersWithDue,
		&st.TotalSales, &st.TotalPaid, &st.TotalOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("query customer stats: %w", err)
	}
	return &st, nil
}

func (s *customerService) RecordPayment(ctx context.Context, shopkeeperID, customerID int, amount decimal.Decimal, method, note string) (*Customer, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if method == "" {
		method = "cash"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin customer payment: %w", err)
	}
	defer tx.Rollback(ctx)

	party := SaleToDueCustomer(customerID)
	if err := s.ledger.ApplyDelta(ctx, tx, shopkeeperID, party, DeltaOnStandalonePayment(amount)); err != nil {
		return nil, err
	}

	paymentID, err := s.ledger.RecordPayment(ctx, tx, shopkeeperID, party, nil, amount, method, note)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RecordTransaction(ctx, tx, shopkeeperID, TxIncome, "due_collection",
		amount, method, fmt.Sprintf("payment-%d", paymentID), "Due collection from customer"); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit customer payment: %w", err)
	}
	return s.GetCustomer(ctx, shopkeeperID, customerID)
}
