package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE transactions, payments, bills, bill_sequences, customers, wholesalers, shopkeepers
		RESTART IDENTITY CASCADE;

		INSERT INTO shopkeepers (id, email, name, shop_name, password_hash)
		VALUES (1, 'test@shop.local', 'Test Shopkeeper', 'Test Shop', 'x');

		-- Keep the serial clear of the explicitly seeded tenant ids.
		SELECT setval(pg_get_serial_sequence('shopkeepers', 'id'), 100);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

const testShopkeeper = 1

func newWholesaler(t *testing.T, svc core.WholesalerService, name, phone string) *core.Wholesaler {
	t.Helper()
	w, err := svc.CreateWholesaler(context.Background(), testShopkeeper, core.WholesalerInput{
		Name: name, Phone: phone,
	})
	if err != nil {
		t.Fatalf("create wholesaler: %v", err)
	}
	return w
}

// Scenario from the purchase side: create 1000/300, edit to 1200/300,
// delete — the wholesaler balances must pass through (1000,300,700),
// (1200,300,900) and land back at zero.
func TestBillLifecycle_WholesalerBalances(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)

	w := newWholesaler(t, wholesalers, "Mehta Traders", "9000000001")

	assertBalances := func(stage, gross, paid, due string) {
		t.Helper()
		got, err := wholesalers.GetWholesaler(ctx, testShopkeeper, w.ID)
		if err != nil {
			t.Fatalf("%s: fetch wholesaler: %v", stage, err)
		}
		if !got.TotalPurchased.Equal(dec(gross)) || !got.TotalPaid.Equal(dec(paid)) || !got.OutstandingDue.Equal(dec(due)) {
			t.Fatalf("%s: balances = (%s, %s, %s), want (%s, %s, %s)",
				stage, got.TotalPurchased, got.TotalPaid, got.OutstandingDue, gross, paid, due)
		}
	}

	bill, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("1000"),
		PaidAmount:  dec("300"),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	assertBalances("after create", "1000", "300", "700")

	if !bill.DueAmount.Equal(dec("700")) {
		t.Errorf("bill due = %s, want 700", bill.DueAmount)
	}
	if bill.BillType != core.BillTypePurchase {
		t.Errorf("bill type = %s, want purchase", bill.BillType)
	}
	if bill.PartyName != "Mehta Traders" {
		t.Errorf("party name = %q, want resolved wholesaler name", bill.PartyName)
	}

	newTotal := dec("1200")
	edited, err := bills.UpdateBill(ctx, testShopkeeper, bill.ID, core.BillUpdateInput{TotalAmount: &newTotal})
	if err != nil {
		t.Fatalf("update bill: %v", err)
	}
	assertBalances("after edit", "1200", "300", "900")
	if !edited.IsEdited {
		t.Error("edited bill must carry the is_edited flag")
	}
	if !edited.DueAmount.Equal(dec("900")) {
		t.Errorf("edited bill due = %s, want 900", edited.DueAmount)
	}

	if err := bills.DeleteBill(ctx, testShopkeeper, bill.ID); err != nil {
		t.Fatalf("delete bill: %v", err)
	}
	assertBalances("after delete", "0", "0", "0")
}

// A paid amount > 0 on create must leave exactly one payment audit row and
// one cash-flow transaction; an unpaid bill must leave neither.
func TestCreateBill_AuditRecords(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)
	reports := core.NewReportingService(pool, bills, core.NewCustomerService(pool, ledger), wholesalers)

	w := newWholesaler(t, wholesalers, "Audit Supplier", "9000000002")

	paidBill, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("400"),
		PaidAmount:  dec("150"),
	})
	if err != nil {
		t.Fatalf("create paid bill: %v", err)
	}

	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("200"),
		PaidAmount:  dec("0"),
	}); err != nil {
		t.Fatalf("create unpaid bill: %v", err)
	}

	payments, err := reports.ListPayments(ctx, testShopkeeper, core.PaymentFilter{})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want exactly 1 (only the paid bill)", len(payments))
	}
	if payments[0].BillID == nil || *payments[0].BillID != paidBill.ID {
		t.Errorf("payment bill link = %v, want %d", payments[0].BillID, paidBill.ID)
	}
	if !payments[0].Amount.Equal(dec("150")) {
		t.Errorf("payment amount = %s, want 150", payments[0].Amount)
	}

	txs, err := reports.ListTransactions(ctx, testShopkeeper, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want exactly 1", len(txs))
	}
	if txs[0].Type != core.TxExpense {
		t.Errorf("purchase payment transaction type = %s, want expense", txs[0].Type)
	}
	if txs[0].Reference != paidBill.BillNumber {
		t.Errorf("transaction reference = %q, want bill number %q", txs[0].Reference, paidBill.BillNumber)
	}
}

// Walk-in sale: no entity exists, none is created, no balance moves; only a
// bill and (for paid>0) a payment record.
func TestCreateBill_WalkInSale(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	customers := core.NewCustomerService(pool, ledger)
	reports := core.NewReportingService(pool, bills, customers, core.NewWholesalerService(pool, ledger))

	bill, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToWalkIn(),
		TotalAmount: dec("500"),
		PaidAmount:  dec("500"),
	})
	if err != nil {
		t.Fatalf("create walk-in bill: %v", err)
	}
	if bill.EntityID != nil {
		t.Errorf("walk-in bill must carry no entity id, got %v", *bill.EntityID)
	}
	if bill.BillType != core.BillTypeSale {
		t.Errorf("bill type = %s, want sale", bill.BillType)
	}

	all, err := customers.ListCustomers(ctx, testShopkeeper, core.EntityFilter{})
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("walk-in sale created %d customer records, want 0", len(all))
	}

	payments, err := reports.ListPayments(ctx, testShopkeeper, core.PaymentFilter{})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(payments))
	}
	if payments[0].EntityID != nil {
		t.Errorf("walk-in payment must carry no entity id, got %v", *payments[0].EntityID)
	}
	if payments[0].PartyKind != core.PartyWalkIn {
		t.Errorf("payment party kind = %s, want walk_in", payments[0].PartyKind)
	}
}

// Editing to (150, 40) after creating with (100, 40) must land the customer
// on the same balances as a direct create with (150, 40).
func TestUpdateBill_EditComposition(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	customers := core.NewCustomerService(pool, ledger)

	edited, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{Name: "Edited Path"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	direct, err := customers.CreateCustomer(ctx, testShopkeeper, core.CustomerInput{Name: "Direct Path"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	bill, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToDueCustomer(edited.ID),
		TotalAmount: dec("100"),
		PaidAmount:  dec("40"),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	newTotal := dec("150")
	if _, err := bills.UpdateBill(ctx, testShopkeeper, bill.ID, core.BillUpdateInput{TotalAmount: &newTotal}); err != nil {
		t.Fatalf("update bill: %v", err)
	}

	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToDueCustomer(direct.ID),
		TotalAmount: dec("150"),
		PaidAmount:  dec("40"),
	}); err != nil {
		t.Fatalf("create direct bill: %v", err)
	}

	a, err := customers.GetCustomer(ctx, testShopkeeper, edited.ID)
	if err != nil {
		t.Fatal(err)
	}
	b, err := customers.GetCustomer(ctx, testShopkeeper, direct.ID)
	if err != nil {
		t.Fatal(err)
	}

	if !a.TotalSales.Equal(b.TotalSales) || !a.TotalPaid.Equal(b.TotalPaid) || !a.OutstandingDue.Equal(b.OutstandingDue) {
		t.Errorf("edited path (%s, %s, %s) != direct path (%s, %s, %s)",
			a.TotalSales, a.TotalPaid, a.OutstandingDue,
			b.TotalSales, b.TotalPaid, b.OutstandingDue)
	}
}

// Deleted bills disappear from default listings and from stats but stay
// retrievable by id; a second delete or an edit is rejected.
func TestDeleteBill_Visibility(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)

	bill, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToWalkIn(),
		TotalAmount: dec("80"),
		PaidAmount:  dec("80"),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	if err := bills.DeleteBill(ctx, testShopkeeper, bill.ID); err != nil {
		t.Fatalf("delete bill: %v", err)
	}

	listed, err := bills.ListBills(ctx, testShopkeeper, core.BillFilter{})
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("default listing contains %d bills, want 0 after delete", len(listed))
	}

	audit, err := bills.ListBills(ctx, testShopkeeper, core.BillFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("list bills incl. deleted: %v", err)
	}
	if len(audit) != 1 {
		t.Errorf("audit listing contains %d bills, want 1", len(audit))
	}

	stats, err := bills.GetBillStats(ctx, testShopkeeper)
	if err != nil {
		t.Fatalf("bill stats: %v", err)
	}
	if stats.TotalBills != 0 {
		t.Errorf("stats count %d bills, want 0 after delete", stats.TotalBills)
	}

	got, err := bills.GetBill(ctx, testShopkeeper, bill.ID)
	if err != nil {
		t.Fatalf("deleted bill must stay retrievable by id: %v", err)
	}
	if got.Status != core.BillStatusDeleted {
		t.Errorf("status = %s, want DELETED", got.Status)
	}

	if err := bills.DeleteBill(ctx, testShopkeeper, bill.ID); !errors.Is(err, core.ErrBillDeleted) {
		t.Errorf("second delete: got %v, want ErrBillDeleted", err)
	}
	newTotal := dec("90")
	if _, err := bills.UpdateBill(ctx, testShopkeeper, bill.ID, core.BillUpdateInput{TotalAmount: &newTotal}); !errors.Is(err, core.ErrBillDeleted) {
		t.Errorf("edit after delete: got %v, want ErrBillDeleted", err)
	}
}

// Tenant isolation: a bill is invisible to another shopkeeper's queries.
func TestBill_TenantScoping(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO shopkeepers (id, email, name, shop_name, password_hash)
		VALUES (2, 'other@shop.local', 'Other Shopkeeper', 'Other Shop', 'x');
	`)
	if err != nil {
		t.Fatalf("seed second shopkeeper: %v", err)
	}

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)

	bill, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.SaleToWalkIn(),
		TotalAmount: dec("60"),
		PaidAmount:  dec("60"),
	})
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if _, err := bills.GetBill(ctx, 2, bill.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-tenant read: got %v, want ErrNotFound", err)
	}
	if err := bills.DeleteBill(ctx, 2, bill.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-tenant delete: got %v, want ErrNotFound", err)
	}
}

// Bill numbers advance per shopkeeper and never repeat.
func TestBillNumber_Sequence(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		b, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
			Party:       core.SaleToWalkIn(),
			TotalAmount: dec("10"),
			PaidAmount:  dec("10"),
		})
		if err != nil {
			t.Fatalf("create bill %d: %v", i, err)
		}
		if seen[b.BillNumber] {
			t.Fatalf("duplicate bill number %s", b.BillNumber)
		}
		seen[b.BillNumber] = true

		byNumber, err := bills.GetBillByNumber(ctx, testShopkeeper, b.BillNumber)
		if err != nil {
			t.Fatalf("lookup by number: %v", err)
		}
		if byNumber.ID != b.ID {
			t.Errorf("lookup by number returned bill %d, want %d", byNumber.ID, b.ID)
		}
	}
}

// Every non-deleted bill holds due == total - paid exactly.
func TestBill_DueInvariant(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	bills := core.NewBillService(pool, ledger)
	wholesalers := core.NewWholesalerService(pool, ledger)
	w := newWholesaler(t, wholesalers, "Invariant Supplier", "9000000003")

	amounts := []struct{ total, paid string }{
		{"100.01", "0"}, {"250.75", "100.25"}, {"42", "42"},
	}
	for _, a := range amounts {
		if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
			Party:       core.PurchaseFromWholesaler(w.ID),
			TotalAmount: dec(a.total),
			PaidAmount:  dec(a.paid),
		}); err != nil {
			t.Fatalf("create bill: %v", err)
		}
	}
	// Mutate one of them to make sure the invariant survives edits.
	listed, err := bills.ListBills(ctx, testShopkeeper, core.BillFilter{})
	if err != nil {
		t.Fatal(err)
	}
	newPaid := dec("200")
	if _, err := bills.UpdateBill(ctx, testShopkeeper, listed[1].ID, core.BillUpdateInput{PaidAmount: &newPaid}); err != nil {
		t.Fatalf("update bill: %v", err)
	}

	listed, err = bills.ListBills(ctx, testShopkeeper, core.BillFilter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range listed {
		if !b.DueAmount.Equal(b.TotalAmount.Sub(b.PaidAmount)) {
			t.Errorf("bill %s: due %s != total %s - paid %s", b.BillNumber, b.DueAmount, b.TotalAmount, b.PaidAmount)
		}
	}
}

func TestCreateBill_UnknownEntity(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	bills := core.NewBillService(pool, core.NewLedger())

	_, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(99999),
		TotalAmount: dec("100"),
		PaidAmount:  decimal.Zero,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound for unknown wholesaler", err)
	}
}
