package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceDelta is the signed change a bill lifecycle event applies to an
// entity's running balance triple. Gross targets total_sales for customers
// and total_purchased for wholesalers; Paid targets total_paid; Outstanding
// targets outstanding_due.
type BalanceDelta struct {
	Gross       decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal
}

// IsZero reports whether applying the delta would be a no-op.
func (d BalanceDelta) IsZero() bool {
	return d.Gross.IsZero() && d.Paid.IsZero() && d.Outstanding.IsZero()
}

// Neg returns the exact reversal of the delta.
func (d BalanceDelta) Neg() BalanceDelta {
	return BalanceDelta{
		Gross:       d.Gross.Neg(),
		Paid:        d.Paid.Neg(),
		Outstanding: d.Outstanding.Neg(),
	}
}

// DeltaOnCreate is the contribution of a newly created bill.
func DeltaOnCreate(totalAmount, paidAmount decimal.Decimal) BalanceDelta {
	return BalanceDelta{
		Gross:       totalAmount,
		Paid:        paidAmount,
		Outstanding: totalAmount.Sub(paidAmount),
	}
}

// DeltaOnEdit is the difference between the bill's stored amounts and the
// new ones. Applying it and then overwriting the bill yields the same end
// state as if the bill had been created with the new amounts. The caller
// must pass the immediately-prior snapshot; the services guarantee that by
// locking the bill row for the duration of the edit.
func DeltaOnEdit(oldTotal, oldPaid, newTotal, newPaid decimal.Decimal) BalanceDelta {
	gross := newTotal.Sub(oldTotal)
	paid := newPaid.Sub(oldPaid)
	return BalanceDelta{
		Gross:       gross,
		Paid:        paid,
		Outstanding: gross.Sub(paid),
	}
}

// DeltaOnDelete reverses the bill's current stored contribution, so a
// delete immediately after a create restores the prior balances exactly.
func DeltaOnDelete(totalAmount, paidAmount decimal.Decimal) BalanceDelta {
	return DeltaOnCreate(totalAmount, paidAmount).Neg()
}

// DeltaOnStandalonePayment settles due balance without a new bill: paid
// rises, outstanding falls, gross is untouched. No upper bound is enforced;
// overpayment drives outstanding_due negative, representing an advance.
func DeltaOnStandalonePayment(amount decimal.Decimal) BalanceDelta {
	return BalanceDelta{
		Gross:       decimal.Zero,
		Paid:        amount,
		Outstanding: amount.Neg(),
	}
}

// DecomposeOpeningBalance splits a signed opening balance into the initial
// (gross, paid) pair for a freshly registered entity. A positive seed is
// pre-existing debt (outstanding = seed); a negative seed is a pre-existing
// advance, represented as paid money with no gross.
func DecomposeOpeningBalance(seed decimal.Decimal) (gross, paid decimal.Decimal) {
	if seed.IsNegative() {
		return decimal.Zero, seed.Neg()
	}
	return seed, decimal.Zero
}

// Ledger applies balance deltas and writes the paired audit records. All of
// its methods operate inside a caller-owned transaction so that the entity
// increment, the bill row, and the payment/transaction rows commit or roll
// back together.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// entityTable maps a party kind to the table holding its balance triple.
func entityTable(kind PartyKind) (table, grossColumn string, err error) {
	switch kind {
	case PartyWholesaler:
		return "wholesalers", "total_purchased", nil
	case PartyDueCustomer:
		return "customers", "total_sales", nil
	default:
		return "", "", fmt.Errorf("%w: party kind %q has no entity balance", ErrInvalidInput, kind)
	}
}

// ApplyDelta issues a single atomic increment against the entity row,
// scoped by shopkeeper id. There is no read-modify-write window: the three
// columns move together in one UPDATE.
func (l *Ledger) ApplyDelta(ctx context.Context, tx pgx.Tx, shopkeeperID int, party Party, delta BalanceDelta) error {
	entityID, ok := party.EntityID()
	if !ok {
		// Walk-in sales carry no entity by construction.
		return nil
	}
	if delta.IsZero() {
		return nil
	}

	table, grossCol, err := entityTable(party.Kind())
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + $1,
		    total_paid = total_paid + $2,
		    outstanding_due = outstanding_due + $3,
		    updated_at = NOW()
		WHERE id = $4 AND shopkeeper_id = $5`,
		table, grossCol, grossCol)

	tag, err := tx.Exec(ctx, q, delta.Gross, delta.Paid, delta.Outstanding, entityID, shopkeeperID)
	if err != nil {
		return fmt.Errorf("apply balance delta to %s %d: %w", table, entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", party.Kind(), entityID, ErrNotFound)
	}
	return nil
}

// RecordPayment appends a payment audit row.
func (l *Ledger) RecordPayment(ctx context.Context, tx pgx.Tx, shopkeeperID int, party Party, billID *int, amount decimal.Decimal, method, note string) (int, error) {
	var entityID *int
	if id, ok := party.EntityID(); ok {
		entityID = &id
	}

	var paymentID int
	err := tx.QueryRow(ctx, `
		INSERT INTO payments (shopkeeper_id, party_kind, entity_id, bill_id, amount, method, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		shopkeeperID, string(party.Kind()), entityID, billID, amount, method, note,
	).Scan(&paymentID)
	if err != nil {
		return 0, fmt.Errorf("record payment: %w", err)
	}
	return paymentID, nil
}

// RecordTransaction appends a cash-flow ledger line.
func (l *Ledger) RecordTransaction(ctx context.Context, tx pgx.Tx, shopkeeperID int, txType TransactionType, category string, amount decimal.Decimal, method, reference, description string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (shopkeeper_id, tx_type, category, amount, method, reference, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		shopkeeperID, string(txType), category, amount, method, reference, description,
	)
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

// transactionTypeFor maps a bill type to the cash direction of its payment:
// money received on a sale, money spent on a purchase.
func transactionTypeFor(billType BillType) TransactionType {
	if billType == BillTypeSale {
		return TxIncome
	}
	return TxExpense
}

// nextBillNumber advances the shopkeeper's bill sequence inside the current
// transaction and formats the human-readable number. The upsert serializes
// concurrent creators on the sequence row, keeping numbers gapless.
func nextBillNumber(ctx context.Context, tx pgx.Tx, shopkeeperID int, billType BillType) (string, error) {
	var last int64
	err := tx.QueryRow(ctx, `
		INSERT INTO bill_sequences (shopkeeper_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (shopkeeper_id)
		DO UPDATE SET last_number = bill_sequences.last_number + 1
		RETURNING last_number`,
		shopkeeperID,
	).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("advance bill sequence: %w", err)
	}

	prefix := "SAL"
	if billType == BillTypePurchase {
		prefix = "PUR"
	}
	return fmt.Sprintf("%s-%06d", prefix, last), nil
}
