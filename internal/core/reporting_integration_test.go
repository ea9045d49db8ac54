package core_test

import (
	"context"
	"testing"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"
)

func seedMixedActivity(t *testing.T, bills core.BillService,
	customers core.CustomerService, wholesalers core.WholesalerService) {
	t.Helper()
	ctx := context.Background()

	c, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{Name: "Regular"})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	w := newWholesaler(t, wholesalers, "Supplier", "6000000001")

	// Income 200 (sale), expense 150 (purchase), income 100 (due collection).
	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToDueCustomer(c.ID),
		TotalAmount: dec("500"),
		PaidAmount:  dec("200"),
	}); err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("150"),
		PaidAmount:  dec("150"),
	}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	if _, err := customers.RecordPayment(ctx, testShopkeeper, c.ID, dec("100"), "cash", ""); err != nil {
		t.Fatalf("seed collection: %v", err)
	}
}

func TestCashFlowSummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	customers := core.NewCustomerService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)
	reports := core.NewReportingService(pool, bills, customers, wholesalers)

	seedMixedActivity(t, bills, customers, wholesalers)

	sum, err := reports.GetCashFlowSummary(ctx, testShopkeeper, "", "")
	if err != nil {
		t.Fatalf("cash flow summary: %v", err)
	}
	if !sum.TotalIncome.Equal(dec("300")) {
		t.Errorf("income = %s, want 300", sum.TotalIncome)
	}
	if !sum.TotalExpense.Equal(dec("150")) {
		t.Errorf("expense = %s, want 150", sum.TotalExpense)
	}
	if !sum.NetCashFlow.Equal(dec("150")) {
		t.Errorf("net = %s, want 150", sum.NetCashFlow)
	}
	if sum.IncomeCount != 2 || sum.ExpenseCount != 1 {
		t.Errorf("counts = %d income / %d expense, want 2 / 1", sum.IncomeCount, sum.ExpenseCount)
	}

	// A window in the far past has no activity.
	empty, err := reports.GetCashFlowSummary(ctx, testShopkeeper, "2000-01-01", "2000-12-31")
	if err != nil {
		t.Fatalf("windowed summary: %v", err)
	}
	if !empty.TotalIncome.IsZero() || !empty.TotalExpense.IsZero() {
		t.Errorf("past window = %s / %s, want zeroes", empty.TotalIncome, empty.TotalExpense)
	}
}

func TestTransactionFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	customers := core.NewCustomerService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)
	reports := core.NewReportingService(pool, bills, customers, wholesalers)

	seedMixedActivity(t, bills, customers, wholesalers)

	income := core.TxIncome
	got, err := reports.ListTransactions(ctx, testShopkeeper, core.TransactionFilter{Type: &income})
	if err != nil {
		t.Fatalf("list income: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("income lines = %d, want 2", len(got))
	}
	for _, tx := range got {
		if tx.Type != core.TxIncome {
			t.Errorf("type filter leaked a %s line", tx.Type)
		}
	}

	collections, err := reports.ListTransactions(ctx, testShopkeeper, core.TransactionFilter{Category: "due_collection"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(collections) != 1 || !collections[0].Amount.Equal(dec("100")) {
		t.Fatalf("due_collection lines = %+v, want one 100 line", collections)
	}
}

func TestDashboard(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	customers := core.NewCustomerService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)
	reports := core.NewReportingService(pool, bills, customers, wholesalers)

	seedMixedActivity(t, bills, customers, wholesalers)

	dash, err := reports.GetDashboard(ctx, testShopkeeper)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Bills.TotalBills != 2 {
		t.Errorf("dashboard bills = %d, want 2", dash.Bills.TotalBills)
	}
	if dash.Customers.TotalCustomers != 1 {
		t.Errorf("dashboard customers = %d, want 1", dash.Customers.TotalCustomers)
	}
	if dash.Wholesalers.TotalWholesalers != 1 {
		t.Errorf("dashboard wholesalers = %d, want 1", dash.Wholesalers.TotalWholesalers)
	}
	if !dash.CashFlow.NetCashFlow.Equal(dec("150")) {
		t.Errorf("dashboard net cash flow = %s, want 150", dash.CashFlow.NetCashFlow)
	}
	if len(dash.RecentBills) != 2 {
		t.Errorf("recent bills = %d, want 2", len(dash.RecentBills))
	}
	// Newest first.
	if len(dash.RecentBills) == 2 && dash.RecentBills[0].ID < dash.RecentBills[1].ID {
		t.Error("recent bills not ordered newest first")
	}
}
