package app

import (
	"context"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the single interface all adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// RegisterShopkeeper creates a new shop account.
	RegisterShopkeeper(ctx context.Context, req RegisterRequest) (*SessionResult, error)

	// AuthenticateShopkeeper verifies the credentials and returns the session identity.
	AuthenticateShopkeeper(ctx context.Context, email, password string) (*SessionResult, error)

	// GetShopkeeper returns the profile for the authenticated account.
	GetShopkeeper(ctx context.Context, shopkeeperID int) (*core.Shopkeeper, error)

	// CreateBill records a purchase or sale and moves the party balances with it.
	CreateBill(ctx context.Context, shopkeeperID int, req CreateBillRequest) (*BillResult, error)

	// UpdateBill edits an active bill's amounts or details; balances follow.
	UpdateBill(ctx context.Context, shopkeeperID, billID int, req UpdateBillRequest) (*BillResult, error)

	// DeleteBill soft-deletes a bill and reverses its balance contribution.
	DeleteBill(ctx context.Context, shopkeeperID, billID int) error

	// GetBill returns a bill by id, including soft-deleted ones.
	GetBill(ctx context.Context, shopkeeperID, billID int) (*BillResult, error)

	// GetBillByNumber returns a bill by its human-facing number.
	GetBillByNumber(ctx context.Context, shopkeeperID int, billNumber string) (*BillResult, error)

	// ListBills returns bills filtered and paginated; deleted bills are
	// excluded unless the request asks for them.
	ListBills(ctx context.Context, shopkeeperID int, req BillListRequest) (*BillListResult, error)

	// GetBillStats returns the aggregate bill rollup for the shop.
	GetBillStats(ctx context.Context, shopkeeperID int) (*core.BillStats, error)

	// CreateCustomer registers a due customer, optionally seeding an opening balance.
	CreateCustomer(ctx context.Context, shopkeeperID int, req CustomerRequest) (*CustomerResult, error)
	GetCustomer(ctx context.Context, shopkeeperID, customerID int) (*CustomerResult, error)
	UpdateCustomer(ctx context.Context, shopkeeperID, customerID int, req CustomerUpdateRequest) (*CustomerResult, error)
	DeleteCustomer(ctx context.Context, shopkeeperID, customerID int) error
	ListCustomers(ctx context.Context, shopkeeperID int, req EntityListRequest) (*CustomerListResult, error)
	GetCustomerStats(ctx context.Context, shopkeeperID int) (*core.CustomerStats, error)

	// RecordCustomerPayment collects a due (or advance) from a customer.
	RecordCustomerPayment(ctx context.Context, shopkeeperID, customerID int, amount decimal.Decimal, method, note string) (*CustomerResult, error)

	// CreateWholesaler registers a supplier.
	CreateWholesaler(ctx context.Context, shopkeeperID int, req WholesalerRequest) (*WholesalerResult, error)
	GetWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*WholesalerResult, error)
	UpdateWholesaler(ctx context.Context, shopkeeperID, wholesalerID int, req WholesalerUpdateRequest) (*WholesalerResult, error)

	// DeleteWholesaler hides the supplier without touching balances or history.
	DeleteWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) error
	RestoreWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*WholesalerResult, error)
	ListWholesalers(ctx context.Context, shopkeeperID int, req EntityListRequest) (*WholesalerListResult, error)
	GetWholesalerStats(ctx context.Context, shopkeeperID int, includeDeleted bool) (*core.WholesalerStats, error)

	// RecordWholesalerPayment settles part of what the shop owes a supplier.
	RecordWholesalerPayment(ctx context.Context, shopkeeperID, wholesalerID int, amount decimal.Decimal, method, note string) (*WholesalerResult, error)

	// ListPayments returns the append-only payment audit trail.
	ListPayments(ctx context.Context, shopkeeperID int, req PaymentListRequest) (*PaymentListResult, error)

	// ListTransactions returns the shop-level cash-flow lines.
	ListTransactions(ctx context.Context, shopkeeperID int, req TransactionListRequest) (*TransactionListResult, error)

	// GetCashFlowSummary rolls up income and expense for an optional date window.
	GetCashFlowSummary(ctx context.Context, shopkeeperID int, fromDate, toDate string) (*core.CashFlowSummary, error)

	// GetDashboard returns the combined rollup payload for the dashboard page.
	GetDashboard(ctx context.Context, shopkeeperID int) (*core.DashboardSummary, error)
}
