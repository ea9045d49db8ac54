package app

import "github.com/Rizwanu321/BillMate24-sub000/internal/core"

// SessionResult is returned by RegisterShopkeeper and AuthenticateShopkeeper.
type SessionResult struct {
	ShopkeeperID int    `json:"shopkeeper_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ShopName     string `json:"shop_name"`
}

// BillResult is returned by bill operations.
type BillResult struct {
	Bill *core.Bill `json:"bill"`
}

// BillListResult is returned by ListBills.
type BillListResult struct {
	Bills []core.Bill `json:"bills"`
}

// CustomerResult is returned by customer operations.
type CustomerResult struct {
	Customer *core.Customer `json:"customer"`
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer `json:"customers"`
}

// WholesalerResult is returned by wholesaler operations.
type WholesalerResult struct {
	Wholesaler *core.Wholesaler `json:"wholesaler"`
}

// WholesalerListResult is returned by ListWholesalers.
type WholesalerListResult struct {
	Wholesalers []core.Wholesaler `json:"wholesalers"`
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	Payments []core.Payment `json:"payments"`
}

// TransactionListResult is returned by ListTransactions.
type TransactionListResult struct {
	Transactions []core.Transaction `json:"transactions"`
}
