package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// minBillAmount matches the validation layer's lower bound on totals.
var minBillAmount = decimal.NewFromFloat(0.01)

// BillInput is the pre-validated payload for creating a bill.
type BillInput struct {
	Party         Party
	PartyName     string // display name; resolved from the entity when linked
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentMethod string
	Notes         string
}

// Validate rejects malformed monetary input before the ledger runs.
func (in *BillInput) Validate() error {
	if in.TotalAmount.LessThan(minBillAmount) {
		return fmt.Errorf("%w: total amount must be at least %s", ErrInvalidInput, minBillAmount)
	}
	if in.PaidAmount.IsNegative() {
		return fmt.Errorf("%w: paid amount cannot be negative", ErrInvalidInput)
	}
	if in.PaidAmount.GreaterThan(in.TotalAmount) {
		return fmt.Errorf("%w: paid amount exceeds total amount", ErrInvalidInput)
	}
	if in.Party.Kind() == PartyWalkIn && strings.TrimSpace(in.PartyName) == "" {
		in.PartyName = "Walk-in Customer"
	}
	return nil
}

// BillUpdateInput carries the new amount snapshot for an edit. Nil fields
// keep the stored value.
type BillUpdateInput struct {
	TotalAmount   *decimal.Decimal
	PaidAmount    *decimal.Decimal
	PaymentMethod *string
	Notes         *string
}

// BillFilter narrows ListBills. Deleted bills are excluded unless
// IncludeDeleted is set.
type BillFilter struct {
	BillType       *BillType
	PartyKind      *PartyKind
	Search         string
	FromDate       string // YYYY-MM-DD, inclusive
	ToDate         string // YYYY-MM-DD, inclusive
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// BillStats is the aggregate rollup over non-deleted bills.
type BillStats struct {
	TotalBills    int             `json:"total_bills"`
	SalesCount    int             `json:"sales_count"`
	PurchaseCount int             `json:"purchase_count"`
	SalesTotal    decimal.Decimal `json:"sales_total"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalDue      decimal.Decimal `json:"total_due"`
}

// BillService owns the bill lifecycle and drives the ledger protocol at
// every transition. All mutations are scoped by shopkeeper id and run in a
// single database transaction.
type BillService interface {
	CreateBill(ctx context.Context, shopkeeperID int, input BillInput) (*Bill, error)
	UpdateBill(ctx context.Context, shopkeeperID, billID int, input BillUpdateInput) (*Bill, error)
	DeleteBill(ctx context.Context, shopkeeperID, billID int) error
	GetBill(ctx context.Context, shopkeeperID, billID int) (*Bill, error)
	GetBillByNumber(ctx context.Context, shopkeeperID int, billNumber string) (*Bill, error)
	ListBills(ctx context.Context, shopkeeperID int, filter BillFilter) ([]Bill, error)
	GetBillStats(ctx context.Context, shopkeeperID int) (*BillStats, error)
}

type billService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewBillService(pool *pgxpool.Pool, ledger *Ledger) BillService {
	return &billService{pool: pool, ledger: ledger}
}

const billColumns = `id, shopkeeper_id, bill_number, bill_type, party_kind, entity_id, party_name,
       total_amount, paid_amount, due_amount, payment_method, notes, status, is_edited,
       created_at, updated_at, deleted_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(
		&b.ID, &b.ShopkeeperID, &b.BillNumber, &b.BillType, &b.PartyKind, &b.EntityID, &b.PartyName,
		&b.TotalAmount, &b.PaidAmount, &b.DueAmount, &b.PaymentMethod, &b.Notes, &b.Status, &b.IsEdited,
		&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// resolvePartyName verifies the linked entity exists (and, for wholesalers,
// is not soft-deleted) and returns its display name.
func (s *billService) resolvePartyName(ctx context.Context, tx pgx.Tx, shopkeeperID int, party Party) (string, error) {
	entityID, ok := party.EntityID()
	if !ok {
		return "", nil
	}

	var name string
	switch party.Kind() {
	case PartyWholesaler:
		var deletedAt *time.Time
		err := tx.QueryRow(ctx,
			"SELECT name, deleted_at FROM wholesalers WHERE id = $1 AND shopkeeper_id = $2",
			entityID, shopkeeperID,
		).Scan(&name, &deletedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", fmt.Errorf("wholesaler %d: %w", entityID, ErrNotFound)
			}
			return "", fmt.Errorf("resolve wholesaler %d: %w", entityID, err)
		}
		if deletedAt != nil {
			return "", fmt.Errorf("wholesaler %d: %w", entityID, ErrEntityDeleted)
		}
	case PartyDueCustomer:
		err := tx.QueryRow(ctx,
			"SELECT name FROM customers WHERE id = $1 AND shopkeeper_id = $2",
			entityID, shopkeeperID,
		).Scan(&name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", fmt.Errorf("customer %d: %w", entityID, ErrNotFound)
			}
			return "", fmt.Errorf("resolve customer %d: %w", entityID, err)
		}
	}
	return name, nil
}

// CreateBill inserts the bill, applies the create delta to the linked
// entity, and, when money changed hands, appends the payment and cash-flow
// audit rows. All four writes commit atomically.
func (s *billService) CreateBill(ctx context.Context, shopkeeperID int, input BillInput) (*Bill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = "cash"
	}
	billType := input.Party.BillTypeFor()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create bill: %w", err)
	}
	defer tx.Rollback(ctx)

	partyName, err := s.resolvePartyName(ctx, tx, shopkeeperID, input.Party)
	if err != nil {
		return nil, err
	}
	if partyName == "" {
		partyName = input.PartyName
	}

	billNumber, err := nextBillNumber(ctx, tx, shopkeeperID, billType)
	if err != nil {
		return nil, err
	}

	var entityID *int
	if id, ok := input.Party.EntityID(); ok {
		entityID = &id
	}
	due := input.TotalAmount.Sub(input.PaidAmount)

	var billID int
	err = tx.QueryRow(ctx, `
		INSERT INTO bills (shopkeeper_id, bill_number, bill_type, party_kind, entity_id, party_name,
		                   total_amount, paid_amount, due_amount, payment_method, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'ACTIVE')
		RETURNING id`,
		shopkeeperID, billNumber, string(billType), string(input.Party.Kind()), entityID, partyName,
		input.TotalAmount, input.PaidAmount, due, method, input.Notes,
	).Scan(&billID)
	if err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}

	if err := s.ledger.ApplyDelta(ctx, tx, shopkeeperID, input.Party, DeltaOnCreate(input.TotalAmount, input.PaidAmount)); err != nil {
		return nil, err
	}

	if input.PaidAmount.IsPositive() {
		if _, err := s.ledger.RecordPayment(ctx, tx, shopkeeperID, input.Party, &billID, input.PaidAmount, method, "bill "+billNumber); err != nil {
			return nil, err
		}
		category := "sale"
		if billType == BillTypePurchase {
			category = "purchase"
		}
		if err := s.ledger.RecordTransaction(ctx, tx, shopkeeperID, transactionTypeFor(billType), category,
			input.PaidAmount, method, billNumber, fmt.Sprintf("Payment on bill %s (%s)", billNumber, partyName)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create bill: %w", err)
	}
	return s.GetBill(ctx, shopkeeperID, billID)
}

// UpdateBill overwrites the bill's amounts and applies the old/new
// difference to the linked entity. The bill row is locked for the duration,
// so concurrent edits always see the immediately-prior snapshot.
func (s *billService) UpdateBill(ctx context.Context, shopkeeperID, billID int, input BillUpdateInput) (*Bill, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update bill: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := scanBill(tx.QueryRow(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = $1 AND shopkeeper_id = $2 FOR UPDATE",
		billID, shopkeeperID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %d: %w", billID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch bill %d: %w", billID, err)
	}
	if bill.Status != BillStatusActive {
		return nil, fmt.Errorf("bill %d: %w", billID, ErrBillDeleted)
	}

	newTotal := bill.TotalAmount
	if input.TotalAmount != nil {
		newTotal = *input.TotalAmount
	}
	newPaid := bill.PaidAmount
	if input.PaidAmount != nil {
		newPaid = *input.PaidAmount
	}
	if newTotal.LessThan(minBillAmount) {
		return nil, fmt.Errorf("%w: total amount must be at least %s", ErrInvalidInput, minBillAmount)
	}
	if newPaid.IsNegative() || newPaid.GreaterThan(newTotal) {
		return nil, fmt.Errorf("%w: paid amount must be between 0 and the total amount", ErrInvalidInput)
	}

	method := bill.PaymentMethod
	if input.PaymentMethod != nil {
		method = *input.PaymentMethod
	}
	notes := bill.Notes
	if input.Notes != nil {
		notes = *input.Notes
	}

	delta := DeltaOnEdit(bill.TotalAmount, bill.PaidAmount, newTotal, newPaid)
	if err := s.ledger.ApplyDelta(ctx, tx, shopkeeperID, bill.Party(), delta); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE bills
		SET total_amount = $1, paid_amount = $2, due_amount = $3,
		    payment_method = $4, notes = $5, is_edited = true, updated_at = NOW()
		WHERE id = $6 AND shopkeeper_id = $7`,
		newTotal, newPaid, newTotal.Sub(newPaid), method, notes, billID, shopkeeperID,
	)
	if err != nil {
		return nil, fmt.Errorf("update bill %d: %w", billID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update bill: %w", err)
	}
	return s.GetBill(ctx, shopkeeperID, billID)
}

// DeleteBill soft-deletes the bill and reverses its stored contribution
// exactly, restoring the entity balances to their pre-create values.
func (s *billService) DeleteBill(ctx context.Context, shopkeeperID, billID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete bill: %w", err)
	}
	defer tx.Rollback(ctx)

	bill, err := scanBill(tx.QueryRow(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = $1 AND shopkeeper_id = $2 FOR UPDATE",
		billID, shopkeeperID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("bill %d: %w", billID, ErrNotFound)
		}
		return fmt.Errorf("fetch bill %d: %w", billID, err)
	}
	if bill.Status != BillStatusActive {
		return fmt.Errorf("bill %d: %w", billID, ErrBillDeleted)
	}

	if err := s.ledger.ApplyDelta(ctx, tx, shopkeeperID, bill.Party(), DeltaOnDelete(bill.TotalAmount, bill.PaidAmount)); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE bills
		SET status = 'DELETED', deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND shopkeeper_id = $2`,
		billID, shopkeeperID,
	)
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", billID, err)
	}

	return tx.Commit(ctx)
}

// GetBill returns a bill by id, including soft-deleted ones.
func (s *billService) GetBill(ctx context.Context, shopkeeperID, billID int) (*Bill, error) {
	bill, err := scanBill(s.pool.QueryRow(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = $1 AND shopkeeper_id = $2",
		billID, shopkeeperID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %d: %w", billID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch bill %d: %w", billID, err)
	}
	return bill, nil
}

func (s *billService) GetBillByNumber(ctx context.Context, shopkeeperID int, billNumber string) (*Bill, error) {
	bill, err := scanBill(s.pool.QueryRow(ctx,
		"SELECT "+billColumns+" FROM bills WHERE shopkeeper_id = $1 AND bill_number = $2",
		shopkeeperID, billNumber,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bill %s: %w", billNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch bill %s: %w", billNumber, err)
	}
	return bill, nil
}

// ListBills returns bills newest first. Deleted bills stay out of default
// listings; pass IncludeDeleted for audit views.
func (s *billService) ListBills(ctx context.Context, shopkeeperID int, filter BillFilter) ([]Bill, error) {
	q := "SELECT " + billColumns + " FROM bills WHERE shopkeeper_id = $1"
	args := []any{shopkeeperID}

	if !filter.IncludeDeleted {
		q += " AND status = 'ACTIVE'"
	}
	if filter.BillType != nil {
		args = append(args, string(*filter.BillType))
		q += fmt.Sprintf(" AND bill_type = $%d", len(args))
	}
	if filter.PartyKind != nil {
		args = append(args, string(*filter.PartyKind))
		q += fmt.Sprintf(" AND party_kind = $%d", len(args))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		q += fmt.Sprintf(" AND (bill_number ILIKE $%d OR party_name ILIKE $%d)", len(args), len(args))
	}
	if filter.FromDate != "" {
		args = append(args, filter.FromDate)
		q += fmt.Sprintf(" AND created_at >= $%d::date", len(args))
	}
	if filter.ToDate != "" {
		args = append(args, filter.ToDate)
		q += fmt.Sprintf(" AND created_at < $%d::date + INTERVAL '1 day'", len(args))
	}

	q += " ORDER BY id DESC"
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
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

// GetBillStats aggregates over non-deleted bills only, so the rollup always
// agrees with the entity balances the ledger maintains.
func (s *billService) GetBillStats(ctx context.Context, shopkeeperID int) (*BillStats, error) {
	var st BillStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE bill_type = 'sale'),
		       COUNT(*) FILTER (WHERE bill_type = 'purchase'),
		       COALESCE(SUM(total_amount) FILTER (WHERE bill_type = 'sale'), 0),
		       COALESCE(SUM(total_amount) FILTER (WHERE bill_type = 'purchase'), 0),
		       COALESCE(SUM(paid_amount), 0),
		       COALESCE(SUM(due_amount), 0)
		FROM bills
		WHERE shopkeeper_id = $1 AND status = 'ACTIVE'`,
		shopkeeperID,
	).Scan(
		&st.TotalBills, &st.SalesCount, &st.PurchaseCount,
		&st.SalesTotal, &st.PurchaseTotal, &st.TotalPaid, &st.TotalDue,
	)
	if err != nil {
		return nil, fmt.Errorf("query bill stats: %w", err)
	}
	return &st, nil
}
