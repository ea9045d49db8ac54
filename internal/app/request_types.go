package app

import (
	"github.com/shopspring/decimal"
)

// RegisterRequest is the input for creating a shop account.
type RegisterRequest struct {
	Email    string
	Name     string
	ShopName string
	Password string
}

// CreateBillRequest is the input for recording a purchase or sale.
// PartyKind is one of "wholesaler", "due_customer", "walk_in"; EntityID is
// required for the first two and must be absent for walk-in.
type CreateBillRequest struct {
	PartyKind     string
	EntityID      *int
	PartyName     string
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentMethod string
	Notes         string
}

// UpdateBillRequest edits an active bill. Nil fields keep their value.
type UpdateBillRequest struct {
	TotalAmount   *decimal.Decimal
	PaidAmount    *decimal.Decimal
	PaymentMethod *string
	Notes         *string
}

// BillListRequest filters and paginates the bill listing.
type BillListRequest struct {
	BillType       string // "purchase", "sale", or empty for both
	PartyKind      string
	Search         string
	FromDate       string // YYYY-MM-DD, inclusive
	ToDate         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// CustomerRequest is the input for registering a due customer.
type CustomerRequest struct {
	Name           string
	Phone          string
	Address        string
	OpeningBalance decimal.Decimal
}

// CustomerUpdateRequest edits profile fields only; balances are owned by the
// bill and payment flows.
type CustomerUpdateRequest struct {
	Name     *string
	Phone    *string
	Address  *string
	IsActive *bool
}

// WholesalerRequest is the input for registering a supplier.
type WholesalerRequest struct {
	Name           string
	Phone          string
	WhatsApp       string
	Address        string
	OpeningBalance decimal.Decimal
}

// WholesalerUpdateRequest edits profile fields only.
type WholesalerUpdateRequest struct {
	Name     *string
	Phone    *string
	WhatsApp *string
	Address  *string
	IsActive *bool
}

// EntityListRequest filters customer and wholesaler listings.
type EntityListRequest struct {
	Search         string
	Active         *bool
	HasDues        *bool
	SortBy         string // name | gross | outstanding | created_at
	IncludeDeleted bool   // wholesalers only; customers are hard-deleted
	Limit          int
	Offset         int
}

// PaymentListRequest filters the payment audit trail.
type PaymentListRequest struct {
	PartyKind string
	EntityID  *int
	BillID    *int
	Limit     int
	Offset    int
}

// TransactionListRequest filters the cash-flow line listing.
type TransactionListRequest struct {
	Type     string // "income", "expense", or empty for both
	Category string
	FromDate string
	ToDate   string
	Limit    int
	Offset   int
}
