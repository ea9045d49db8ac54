package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// WholesalerInput registers a supplier. OpeningBalance follows the payable
// convention: positive means the shop already owes the wholesaler, negative
// means the shop prepaid.
type WholesalerInput struct {
	Name           string
	Phone          string
	WhatsApp       string
	Address        string
	OpeningBalance decimal.Decimal
}

func (in *WholesalerInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: wholesaler name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("%w: wholesaler phone is required", ErrInvalidInput)
	}
	return nil
}

// WholesalerUpdate changes profile and status fields only.
type WholesalerUpdate struct {
	Name     *string
	Phone    *string
	WhatsApp *string
	Address  *string
	IsActive *bool
}

// WholesalerStats carries two views of the rollup: the active view used on
// dashboards and the full view including soft-deleted records.
type WholesalerStats struct {
	TotalWholesalers int             `json:"total_wholesalers"`
	ActiveCount      int             `json:"active_count"`
	DeletedCount     int             `json:"deleted_count"`
	WithDueCount     int             `json:"with_due_count"`
	TotalPurchased   decimal.Decimal `json:"total_purchased"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type WholesalerService interface {
	CreateWholesaler(ctx context.Context, shopkeeperID int, input WholesalerInput) (*Wholesaler, error)
	GetWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*Wholesaler, error)
	UpdateWholesaler(ctx context.Context, shopkeeperID, wholesalerID int, update WholesalerUpdate) (*Wholesaler, error)
	// DeleteWholesaler soft-deletes: the record is hidden from default
	// listings but keeps its balances and history, and can be restored.
	// Balances do not change on delete or restore.
	DeleteWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) error
	RestoreWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*Wholesaler, error)
	// ListWholesalers excludes soft-deleted records unless includeDeleted.
	ListWholesalers(ctx context.Context, shopkeeperID int, filter EntityFilter, includeDeleted bool) ([]Wholesaler, error)
	// GetWholesalerStats aggregates the active view when includeDeleted is
	// false, or every record including soft-deleted ones when true.
	GetWholesalerStats(ctx context.Context, shopkeeperID int, includeDeleted bool) (*WholesalerStats, error)
	RecordPayment(ctx context.Context, shopkeeperID, wholesalerID int, amount decimal.Decimal, method, note string) (*Wholesaler, error)
}

type wholesalerService struct {
	pool   *pgxpool.Pool
	ledger *Ledger
}

func NewWholesalerService(pool *pgxpool.Pool, ledger *Ledger) WholesalerService {
	return &wholesalerService{pool: pool, ledger: ledger}
}

const wholesalerColumns = `id, shopkeeper_id, name, phone, whatsapp, address,
       total_purchased, total_paid, outstanding_due, is_active, deleted_at, created_at, updated_at`

func scanWholesaler(row pgx.Row) (*Wholesaler, error) {
	var w Wholesaler
	err := row.Scan(
		&w.ID, &w.ShopkeeperID, &w.Name, &w.Phone, &w.WhatsApp, &w.Address,
		&w.TotalPurchased, &w.TotalPaid, &w.OutstandingDue, &w.IsActive, &w.DeletedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// mapUniqueViolation translates a 23505 on the wholesaler contact indexes
// into the matching domain error, so the caller can tell which field
// collided.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_wholesalers_phone":
			return ErrDuplicatePhone
		case "uq_wholesalers_whatsapp":
			return ErrDuplicateWhatsApp
		}
	}
	return err
}

func (s *wholesalerService) CreateWholesaler(ctx context.Context, shopkeeperID int, input WholesalerInput) (*Wholesaler, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	gross, paid := DecomposeOpeningBalance(input.OpeningBalance)

	w, err := scanWholesaler(s.pool.QueryRow(ctx, `
		INSERT INTO wholesalers (shopkeeper_id, name, phone, whatsapp, address, total_purchased, total_paid, outstanding_due)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+wholesalerColumns,
		shopkeeperID, strings.TrimSpace(input.Name), strings.TrimSpace(input.Phone),
		strings.TrimSpace(input.WhatsApp), input.Address,
		gross, paid, input.OpeningBalance,
	))
	if err != nil {
		return nil, fmt.Errorf("create wholesaler: %w", mapUniqueViolation(err))
	}
	return w, nil
}

func (s *wholesalerService) GetWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*Wholesaler, error) {
	w, err := scanWholesaler(s.pool.QueryRow(ctx,
		"SELECT "+wholesalerColumns+" FROM wholesalers WHERE id = $1 AND shopkeeper_id = $2",
		wholesalerID, shopkeeperID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("wholesaler %d: %w", wholesalerID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch wholesaler %d: %w", wholesalerID, err)
	}
	return w, nil
}

func (s *wholesalerService) UpdateWholesaler(ctx context.Context, shopkeeperID, wholesalerID int, update WholesalerUpdate) (*Wholesaler, error) {
	w, err := s.GetWholesaler(ctx, shopkeeperID, wholesalerID)
	if err != nil {
		return nil, err
	}
	if w.DeletedAt != nil {
		return nil, fmt.Errorf("wholesaler %d: %w", wholesalerID, ErrEntityDeleted)
	}

	name := w.Name
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, fmt.Errorf("%w: wholesaler name is required", ErrInvalidInput)
		}
		name = strings.TrimSpace(*update.Name)
	}
	phone := w.Phone
	if update.Phone != nil {
		phone = strings.TrimSpace(*update.Phone)
	}
	whatsapp := w.WhatsApp
	if update.WhatsApp != nil {
		whatsapp = strings.TrimSpace(*update.WhatsApp)
	}
	address := w.Address
	if update.Address != nil {
		address = *update.Address
	}
	active := w.IsActive
	if update.IsActive != nil {
		active = *update.IsActive
	}

	w, err = scanWholesaler(s.pool.QueryRow(ctx, `
		UPDATE wholesalers
		SET name = $1, phone = $2, whatsapp = $3, address = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6 AND shopkeeper_id = $7
		RETURNING `+wholesalerColumns,
		name, phone, whatsapp, address, active, wholesalerID, shopkeeperID,
	))
	if err != nil {
		return nil, fmt.Errorf("update wholesaler %d: %w", wholesalerID, mapUniqueViolation(err))
	}
	return w, nil
}

// DeleteWholesaler flips visibility only. The balance triple is untouched,
// so a later restore brings back exactly the same position.
func (s *wholesalerService) DeleteWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE wholesalers
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND shopkeeper_id = $2 AND deleted_at IS NULL`,
		wholesalerID, shopkeeperID,
	)
	if err != nil {
		return fmt.Errorf("delete wholesaler %d: %w", wholesalerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wholesaler %d: %w", wholesalerID, ErrNotFound)
	}
	return nil
}

func (s *wholesalerService) RestoreWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*Wholesaler, error) {
	w, err := scanWholesaler(s.pool.QueryRow(ctx, `
		UPDATE wholesalers
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND shopkeeper_id = $2 AND deleted_at IS NOT NULL
		RETURNING `+wholesalerColumns,
		wholesalerID, shopkeeperID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("wholesaler %d: %w", wholesalerID, ErrNotFound)
		}
		return nil, fmt.Errorf("restore wholesaler %d: %w", wholesalerID, err)
	}
	return w, nil
}

func (s *wholesalerService) ListWholesalers(ctx context.Context, shopkeeperID int, filter EntityFilter, includeDeleted bool) ([]Wholesaler, error) {
	q := "SELECT " + wholesalerColumns + " FROM wholesalers WHERE shopkeeper_id = $1"
	args := []any{shopkeeperID}

	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}
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

	q += " ORDER BY " + entitySortClause(filter.SortBy, "total_purchased")
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
		return nil, fmt.Errorf("query wholesalers: %w", err)
	}
	defer rows.Close()

	var wholesalers []Wholesaler
	for rows.Next() {
		w, err := scanWholesaler(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wholesaler: %w", err)
		}
		wholesalers = append(wholesalers, *w)
	}
	return wholesalers, rows.Err()
}

func (s *wholesalerService) GetWholesalerStats(ctx context.Context, shopkeeperID int, includeDeleted bool) (*WholesalerStats, error) {
	q := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active AND deleted_at IS NULL),
		       COUNT(*) FILTER (WHERE deleted_at IS NOT NULL),
		       COUNT(*) FILTER (WHERE outstanding_due > 0),
		       COALESCE(SUM(total_purchased), 0),
		       COALESCE(SUM(total_paid), 0),
		       COALESCE(SUM(outstanding_due), 0)
		FROM wholesalers
		WHERE shopkeeper_id = $1`
	if !includeDeleted {
		q += " AND deleted_at IS NULL"
	}

	var st WholesalerStats
	err := s.pool.QueryRow(ctx, q, shopkeeperID).Scan(
		&st.TotalWholesalers, &st.ActiveCount, &st.DeletedCount, &st.WithDueCount,
		&st.TotalPurchased, &st.TotalPaid, &st.TotalOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("query wholesaler stats: %w", err)
	}
	return &st, nil
}

func (s *wholesalerService) RecordPayment(ctx context.Context, shopkeeperID, wholesalerID int, amount decimal.Decimal, method, note string) (*Wholesaler, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if method == "" {
		method = "cash"
	}

	// Paying a deleted supplier is almost certainly a mistake.
	w, err := s.GetWholesaler(ctx, shopkeeperID, wholesalerID)
	if err != nil {
		return nil, err
	}
	if w.DeletedAt != nil {
		return nil, fmt.Errorf("wholesaler %d: %w", wholesalerID, ErrEntityDeleted)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin wholesaler payment: %w", err)
	}
	defer tx.Rollback(ctx)

	party := PurchaseFromWholesaler(wholesalerID)
	if err := s.ledger.ApplyDelta(ctx, tx, shopkeeperID, party, DeltaOnStandalonePayment(amount)); err != nil {
		return nil, err
	}

	paymentID, err := s.ledger.RecordPayment(ctx, tx, shopkeeperID, party, nil, amount, method, note)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RecordTransaction(ctx, tx, shopkeeperID, TxExpense, "supplier_payment",
		amount, method, fmt.Sprintf("payment-%d", paymentID), "Payment to wholesaler "+w.Name); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit wholesaler payment: %w", err)
	}
	return s.GetWholesaler(ctx, shopkeeperID, wholesalerID)
}
