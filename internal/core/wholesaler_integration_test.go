package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"
)

func TestWholesaler_DuplicateContactDetection(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	wholesalers := core.NewWholesalerService(pool, core.NewLedger())

	if _, err := wholesalers.CreateWholesaler(ctx, testShopkeeper, core.WholesalerInput{
		Name: "First", Phone: "7000000001", WhatsApp: "7000000099",
	}); err != nil {
		t.Fatalf("create first: %v", err)
	}

	_, err := wholesalers.CreateWholesaler(ctx, testShopkeeper, core.WholesalerInput{
		Name: "Phone Clash", Phone: "7000000001",
	})
	if !errors.Is(err, core.ErrDuplicatePhone) {
		t.Errorf("duplicate phone: got %v, want ErrDuplicatePhone", err)
	}

	_, err = wholesalers.CreateWholesaler(ctx, testShopkeeper, core.WholesalerInput{
		Name: "WhatsApp Clash", Phone: "7000000002", WhatsApp: "7000000099",
	})
	if !errors.Is(err, core.ErrDuplicateWhatsApp) {
		t.Errorf("duplicate whatsapp: got %v, want ErrDuplicateWhatsApp", err)
	}

	// Empty whatsapp never collides with itself.
	for i, phone := range []string{"7000000003", "7000000004"} {
		if _, err := wholesalers.CreateWholesaler(ctx, testShopkeeper, core.WholesalerInput{
			Name: "No WhatsApp", Phone: phone,
		}); err != nil {
			t.Fatalf("create without whatsapp #%d: %v", i, err)
		}
	}
}

func TestWholesaler_SoftDeleteAndRestore(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	wholesalers := core.NewWholesalerService(pool, ledger)
	bills := core.NewBillService(pool, ledger)

	w := newWholesaler(t, wholesalers, "Dormant Supplier", "7000000010")
	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("900"),
		PaidAmount:  dec("100"),
	}); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	if err := wholesalers.DeleteWholesaler(ctx, testShopkeeper, w.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	active, err := wholesalers.ListWholesalers(ctx, testShopkeeper, core.EntityFilter{}, false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active listing has %d wholesalers, want 0 after soft delete", len(active))
	}

	all, err := wholesalers.ListWholesalers(ctx, testShopkeeper, core.EntityFilter{}, true)
	if err != nil {
		t.Fatalf("list incl. deleted: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("full listing has %d wholesalers, want 1", len(all))
	}
	if all[0].DeletedAt == nil {
		t.Error("soft-deleted wholesaler must carry deleted_at")
	}

	// Balances survive the soft delete: history is hidden, not erased.
	got, err := wholesalers.GetWholesaler(ctx, testShopkeeper, w.ID)
	if err != nil {
		t.Fatalf("get after soft delete: %v", err)
	}
	if !got.OutstandingDue.Equal(dec("800")) {
		t.Errorf("outstanding = %s, want 800 preserved through delete", got.OutstandingDue)
	}

	// Payments against a deleted supplier are refused.
	if _, err := wholesalers.RecordPayment(ctx, testShopkeeper, w.ID, dec("100"), "cash", ""); !errors.Is(err, core.ErrEntityDeleted) {
		t.Errorf("payment to deleted supplier: got %v, want ErrEntityDeleted", err)
	}
	// New purchase bills too.
	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("50"),
		PaidAmount:  dec("0"),
	}); !errors.Is(err, core.ErrEntityDeleted) {
		t.Errorf("bill for deleted supplier: got %v, want ErrEntityDeleted", err)
	}

	restored, err := wholesalers.RestoreWholesaler(ctx, testShopkeeper, w.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("restored wholesaler must clear deleted_at")
	}
	if !restored.OutstandingDue.Equal(dec("800")) {
		t.Errorf("outstanding after restore = %s, want 800", restored.OutstandingDue)
	}

	// Restoring an already-active supplier is a no-op error.
	if _, err := wholesalers.RestoreWholesaler(ctx, testShopkeeper, w.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("restore active supplier: got %v, want ErrNotFound", err)
	}
}

func TestWholesaler_StatsBothViews(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	wholesalers := core.NewWholesalerService(pool, ledger)
	bills := core.NewBillService(pool, ledger)

	kept := newWholesaler(t, wholesalers, "Kept", "7000000020")
	gone := newWholesaler(t, wholesalers, "Gone", "7000000021")

	for _, w := range []*core.Wholesaler{kept, gone} {
		if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
			Party:       core.PurchaseFromWholesaler(w.ID),
			TotalAmount: dec("100"),
			PaidAmount:  dec("25"),
		}); err != nil {
			t.Fatalf("create bill for %s: %v", w.Name, err)
		}
	}
	if err := wholesalers.DeleteWholesaler(ctx, testShopkeeper, gone.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	activeView, err := wholesalers.GetWholesalerStats(ctx, testShopkeeper, false)
	if err != nil {
		t.Fatalf("active stats: %v", err)
	}
	if activeView.TotalWholesalers != 1 || !activeView.TotalOutstanding.Equal(dec("75")) {
		t.Errorf("active view = %d suppliers / %s due, want 1 / 75",
			activeView.TotalWholesalers, activeView.TotalOutstanding)
	}

	fullView, err := wholesalers.GetWholesalerStats(ctx, testShopkeeper, true)
	if err != nil {
		t.Fatalf("full stats: %v", err)
	}
	if fullView.TotalWholesalers != 2 || !fullView.TotalOutstanding.Equal(dec("150")) {
		t.Errorf("full view = %d suppliers / %s due, want 2 / 150",
			fullView.TotalWholesalers, fullView.TotalOutstanding)
	}
	if fullView.DeletedCount != 1 {
		t.Errorf("deleted count = %d, want 1", fullView.DeletedCount)
	}
}

func TestWholesaler_StandalonePayment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	ledger := core.NewLedger()
	wholesalers := core.NewWholesalerService(pool, ledger)
	bills := core.NewBillService(pool, ledger)
	reports := core.NewReportingService(pool, bills, core.NewCustomerService(pool, ledger), wholesalers)

	w := newWholesaler(t, wholesalers, "Settled Supplier", "7000000030")
	if _, err := bills.CreateBill(ctx, testShopkeeper, core.BillInput{
		Party:       core.PurchaseFromWholesaler(w.ID),
		TotalAmount: dec("600"),
		PaidAmount:  dec("0"),
	}); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	got, err := wholesalers.RecordPayment(ctx, testShopkeeper, w.ID, dec("600"), "upi", "full settlement")
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if !got.OutstandingDue.IsZero() {
		t.Errorf("outstanding = %s, want 0 after settlement", got.OutstandingDue)
	}

	txs, err := reports.ListTransactions(ctx, testShopkeeper, core.TransactionFilter{})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != core.TxExpense {
		t.Fatalf("want one expense transaction for the settlement, got %+v", txs)
	}
}
