package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentFilter narrows payment history listings.
type PaymentFilter struct {
	PartyKind *PartyKind
	EntityID  *int
	BillID    *int
	Limit     int
	Offset    int
}

// TransactionFilter narrows the cash-flow line listing.
type TransactionFilter struct {
	Type     *TransactionType
	Category string
	FromDate string // YYYY-MM-DD, inclusive
	ToDate   string // YYYY-MM-DD, inclusive
	Limit    int
	Offset   int
}

// CashFlowSummary is the income/expense rollup for a period.
type CashFlowSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetCashFlow  decimal.Decimal `json:"net_cash_flow"`
	IncomeCount  int             `json:"income_count"`
	ExpenseCount int             `json:"expense_count"`
}

// DashboardSummary combines the per-store rollups into the single payload
// the dashboard page renders. Read-only: it consumes the invariants the
// ledger maintains and never writes.
type DashboardSummary struct {
	Bills       BillStats       `json:"bills"`
	Customers   CustomerStats   `json:"customers"`
	Wholesalers WholesalerStats `json:"wholesalers"`
	CashFlow    CashFlowSummary `json:"cash_flow"`
	RecentBills []Bill          `json:"recent_bills"`
}

// ReportingService serves the read-side audit and rollup queries.
type ReportingService interface {
	ListPayments(ctx context.Context, shopkeeperID int, filter PaymentFilter) ([]Payment, error)
	ListTransactions(ctx context.Context, shopkeeperID int, filter TransactionFilter) ([]Transaction, error)
	GetCashFlowSummary(ctx context.Context, shopkeeperID int, fromDate, toDate string) (*CashFlowSummary, error)
	GetDashboard(ctx context.Context, shopkeeperID int) (*DashboardSummary, error)
}

type reportingService struct {
	pool        *pgxpool.Pool
	bills       BillService
	customers   CustomerService
	wholesalers WholesalerService
}

func NewReportingService(pool *pgxpool.Pool, bills BillService, customers CustomerService, wholesalers WholesalerService) ReportingService {
	return &reportingService{pool: pool, bills: bills, customers: customers, wholesalers: wholesalers}
}

func (s *reportingService) ListPayments(ctx context.Context, shopkeeperID int, filter PaymentFilter) ([]Payment, error) {
	q := `SELECT id, shopkeeper_id, party_kind, entity_id, bill_id, amount, method, note, created_at
	      FROM payments WHERE shopkeeper_id = $1`
	args := []any{shopkeeperID}

	if filter.PartyKind != nil {
		args = append(args, string(*filter.PartyKind))
		q += fmt.Sprintf(" AND party_kind = $%d", len(args))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		q += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	if filter.BillID != nil {
		args = append(args, *filter.BillID)
		q += fmt.Sprintf(" AND bill_id = $%d", len(args))
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
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.ShopkeeperID, &p.PartyKind, &p.EntityID, &p.BillID,
			&p.Amount, &p.Method, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *reportingService) ListTransactions(ctx context.Context, shopkeeperID int, filter TransactionFilter) ([]Transaction, error) {
	q := `SELECT id, shopkeeper_id, tx_type, category, amount, method, reference, description, created_at
	      FROM transactions WHERE shopkeeper_id = $1`
	args := []any{shopkeeperID}

	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		q += fmt.Sprintf(" AND tx_type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		q += fmt.Sprintf(" AND category = $%d", len(args))
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
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.ShopkeeperID, &t.Type, &t.Category, &t.Amount,
			&t.Method, &t.Reference, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *reportingService) GetCashFlowSummary(ctx context.Context, shopkeeperID int, fromDate, toDate string) (*CashFlowSummary, error) {
	q := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE tx_type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE tx_type = 'expense'), 0),
		       COUNT(*) FILTER (WHERE tx_type = 'income'),
		       COUNT(*) FILTER (WHERE tx_type = 'expense')
		FROM transactions
		WHERE shopkeeper_id = $1`
	args := []any{shopkeeperID}

	if fromDate != "" {
		args = append(args, fromDate)
		q += fmt.Sprintf(" AND created_at >= $%d::date", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		q += fmt.Sprintf(" AND created_at < $%d::date + INTERVAL '1 day'", len(args))
	}

	var sum CashFlowSummary
	if err := s.pool.QueryRow(ctx, q, args...).Scan(
		&sum.TotalIncome, &sum.TotalExpense, &sum.IncomeCount, &sum.ExpenseCount,
	); err != nil {
		return nil, fmt.Errorf("query cash flow summary: %w", err)
	}
	sum.NetCashFlow = sum.TotalIncome.Sub(sum.TotalExpense)
	return &sum, nil
}

func (s *reportingService) GetDashboard(ctx context.Context, shopkeeperID int) (*DashboardSummary, error) {
	billStats, err := s.bills.GetBillStats(ctx, shopkeeperID)
	if err != nil {
		return nil, err
	}
	customerStats, err := s.customers.GetCustomerStats(ctx, shopkeeperID)
	if err != nil {
		return nil, err
	}
	wholesalerStats, err := s.wholesalers.GetWholesalerStats(ctx, shopkeeperID, false)
	if err != nil {
		return nil, err
	}
	cashFlow, err := s.GetCashFlowSummary(ctx, shopkeeperID, "", "")
	if err != nil {
		return nil, err
	}
	recent, err := s.bills.ListBills(ctx, shopkeeperID, BillFilter{Limit: 10})
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Bills:       *billStats,
		Customers:   *customerStats,
		Wholesalers: *wholesalerStats,
		CashFlow:    *cashFlow,
		RecentBills: recent,
	}, nil
}
