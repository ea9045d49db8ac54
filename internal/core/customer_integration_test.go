package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"
)

func TestCustomer_OpeningBalance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	customers := core.NewCustomerService(pool, core.NewLedger())

	debtor, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{
		Name:           "Debtor",
		OpeningBalance: dec("500"),
	})
	if err != nil {
		t.Fatalf("create debtor: %v", err)
	}
	if !debtor.TotalSales.Equal(dec("500")) || !debtor.TotalPaid.Equal(dec("0")) || !debtor.OutstandingDue.Equal(dec("500")) {
		t.Errorf("debtor balances = (%s, %s, %s), want (500, 0, 500)",
			debtor.TotalSales, debtor.TotalPaid, debtor.OutstandingDue)
	}

	creditor, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{
		Name:           "Creditor",
		OpeningBalance: dec("-200"),
	})
	if err != nil {
		t.Fatalf("create creditor: %v", err)
	}
	if !creditor.TotalSales.Equal(dec("0")) || !creditor.TotalPaid.Equal(dec("200")) || !creditor.OutstandingDue.Equal(dec("-200")) {
		t.Errorf("creditor balances = (%s, %s, %s), want (0, 200, -200)",
			creditor.TotalSales, creditor.TotalPaid, creditor.OutstandingDue)
	}
}

// A standalone payment larger than the outstanding due drives the balance
// negative: the customer now holds an advance.
func TestCustomer_OverpaymentBecomesAdvance(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	customers := core.NewCustomerService(pool, ledger)
	bills := core.NewBillService(pool, ledger)
	reports := core.NewReportingService(pool, bills, customers, core.NewWholesalerService(pool, ledger))

	c, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{Name: "Ravi"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToDueCustomer(c.ID),
		TotalAmount: dec("300"),
		PaidAmount:  dec("0"),
	}); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	got, err := customers.RecordPayment(ctx, testShopkeeper, c.ID, dec("400"), "cash", "cleared plus advance")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if !got.OutstandingDue.Equal(dec("-100")) {
		t.Errorf("outstanding = %s, want -100 (advance)", got.OutstandingDue)
	}
	if !got.TotalSales.Equal(dec("300")) || !got.TotalPaid.Equal(dec("400")) {
		t.Errorf("balances = (%s, %s), want (300, 400)", got.TotalSales, got.TotalPaid)
	}

	payments, err := reports.ListPayments(ctx, testShopkeeper, core.PaymentFilter{})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
	if payments[0].BillID != nil {
		t.Errorf("standalone payment must not link to a bill, got %v", *payments[0].BillID)
	}

	txs, err := reports.ListTransactions(ctx, testShopkeeper, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != core.TxIncome {
		t.Fatalf("want exactly one income transaction for the collection, got %+v", txs)
	}
}

func TestCustomer_UpdateProfileKeepsBalances(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	customers := core.NewCustomerService(pool, core.NewLedger())

	c, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{
		Name:           "Before",
		Phone:          "8000000001",
		OpeningBalance: dec("150"),
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	newName := "After"
	got, err := customers.UpdateCustomer(ctx, testShopkeeper, c.ID, core.CustomerUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("update customer: %v", err)
	}
	if got.Name != "After" {
		t.Errorf("name = %q, want After", got.Name)
	}
	if got.Phone != "8000000001" {
		t.Errorf("phone = %q, want unchanged", got.Phone)
	}
	if !got.OutstandingDue.Equal(dec("150")) {
		t.Errorf("outstanding = %s, want untouched 150", got.OutstandingDue)
	}
}

func TestCustomer_ListAndStats(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	customers := core.NewCustomerService(pool, core.NewLedger())

	seed := []struct {
		name    string
		opening string
	}{
		{"Anand", "0"},
		{"Bhavna", "250"},
		{"Chirag", "-50"},
	}
	for _, s := range seed {
		if _, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{
			Name: s.name, OpeningBalance: dec(s.opening),
		}); err != nil {
			t.Fatalf("seed %s: %v", s.name, err)
		}
	}

	hasDues := true
	withDues, err := customers.ListCustomers(ctx, testShopkeeper, core.EntityFilter{HasDues: &hasDues})
	if err != nil {
		t.Fatalf("list with dues: %v", err)
	}
	if len(withDues) != 1 || withDues[0].Name != "Bhavna" {
		t.Fatalf("has-dues filter returned %+v, want only Bhavna", withDues)
	}

	byName, err := customers.ListCustomers(ctx, testShopkeeper, core.EntityFilter{Search: "chi"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Chirag" {
		t.Fatalf("search returned %+v, want only Chirag", byName)
	}

	stats, err := customers.GetCustomerStats(ctx, testShopkeeper)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCustomers != 3 {
		t.Errorf("total customers = %d, want 3", stats.TotalCustomers)
	}
	if !stats.TotalOutstanding.Equal(dec("200")) {
		t.Errorf("total outstanding = %s, want 200 (advances net against dues)", stats.TotalOutstanding)
	}
	if stats.CustomersWithDue != 1 {
		t.Errorf("customers with dues = %d, want 1", stats.CustomersWithDue)
	}
}

func TestCustomer_DeleteRemovesRecord(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	customers := core.NewCustomerService(pool, core.NewLedger())

	c, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{Name: "Gone"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if err := customers.DeleteCustomer(ctx, testShopkeeper, c.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, err := customers.GetCustomer(ctx, testShopkeeper, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
	if err := customers.DeleteCustomer(ctx, testShopkeeper, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
