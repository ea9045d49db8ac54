package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillType string

const (
	BillTypePurchase BillType = "purchase"
	BillTypeSale     BillType = "sale"
)

type PartyKind string

const (
	PartyWholesaler  PartyKind = "wholesaler"
	PartyDueCustomer PartyKind = "due_customer"
	PartyWalkIn      PartyKind = "walk_in"
)

type BillStatus string

const (
	BillStatusActive  BillStatus = "ACTIVE"
	BillStatusDeleted BillStatus = "DELETED"
)

type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

// Party identifies the counterparty of a bill. It is a closed variant:
// construct values only through the three constructors below, so a walk-in
// sale can never carry an entity id and a wholesaler purchase always does.
type Party struct {
	kind     PartyKind
	entityID int
}

// PurchaseFromWholesaler links a purchase bill to a wholesaler record.
func PurchaseFromWholesaler(wholesalerID int) Party {
	return Party{kind: PartyWholesaler, entityID: wholesalerID}
}

// SaleToDueCustomer links a sale bill to a due-customer record.
func SaleToDueCustomer(customerID int) Party {
	return Party{kind: PartyDueCustomer, entityID: customerID}
}

// SaleToWalkIn is an anonymous counter sale. No entity balance is touched.
func SaleToWalkIn() Party {
	return Party{kind: PartyWalkIn}
}

func (p Party) Kind() PartyKind { return p.kind }

// EntityID returns the linked entity id and whether one exists.
// Walk-in parties have none.
func (p Party) EntityID() (int, bool) {
	if p.kind == PartyWalkIn {
		return 0, false
	}
	return p.entityID, true
}

// BillTypeFor returns the bill type implied by the party variant.
func (p Party) BillTypeFor() BillType {
	if p.kind == PartyWholesaler {
		return BillTypePurchase
	}
	return BillTypeSale
}

// Customer holds running balances against the owning shopkeeper.
// The balance triple is only ever mutated by the ledger increments in
// ledger.go; profile updates cannot touch it.
type Customer struct {
	ID             int             `json:"id"`
	ShopkeeperID   int             `json:"shopkeeper_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	OutstandingDue decimal.Decimal `json:"outstanding_due"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Wholesaler mirrors Customer on the purchase side, with soft delete.
type Wholesaler struct {
	ID             int             `json:"id"`
	ShopkeeperID   int             `json:"shopkeeper_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	WhatsApp       string          `json:"whatsapp"`
	Address        string          `json:"address"`
	TotalPurchased decimal.Decimal `json:"total_purchased"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	OutstandingDue decimal.Decimal `json:"outstanding_due"`
	IsActive       bool            `json:"is_active"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Bill struct {
	ID            int             `json:"id"`
	ShopkeeperID  int             `json:"shopkeeper_id"`
	BillNumber    string          `json:"bill_number"`
	BillType      BillType        `json:"bill_type"`
	PartyKind     PartyKind       `json:"party_kind"`
	EntityID      *int            `json:"entity_id,omitempty"`
	PartyName     string          `json:"party_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	Status        BillStatus      `json:"status"`
	IsEdited      bool            `json:"is_edited"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
}

// Party reconstructs the party variant from the stored columns.
func (b *Bill) Party() Party {
	switch b.PartyKind {
	case PartyWholesaler:
		return PurchaseFromWholesaler(derefInt(b.EntityID))
	case PartyDueCustomer:
		return SaleToDueCustomer(derefInt(b.EntityID))
	default:
		return SaleToWalkIn()
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Payment is an append-only audit record of money movement.
type Payment struct {
	ID           int             `json:"id"`
	ShopkeeperID int             `json:"shopkeeper_id"`
	PartyKind    PartyKind       `json:"party_kind"`
	EntityID     *int            `json:"entity_id,omitempty"`
	BillID       *int            `json:"bill_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Transaction is a shopkeeper-level income/expense ledger line, decoupled
// from entity balances and used for cash-flow reporting.
type Transaction struct {
	ID           int             `json:"id"`
	ShopkeeperID int             `json:"shopkeeper_id"`
	Type         TransactionType `json:"type"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Shopkeeper is the authenticated tenant account.
type Shopkeeper struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ShopName     string    `json:"shop_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
