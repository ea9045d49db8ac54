package app

import (
	"context"
	"fmt"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	shopkeepers core.ShopkeeperService
	bills       core.BillService
	customers   core.CustomerService
	wholesalers core.WholesalerService
	reports     core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	shopkeepers core.ShopkeeperService,
	bills core.BillService,
	customers core.CustomerService,
	wholesalers core.WholesalerService,
	reports core.ReportingService,
) ApplicationService {
	return &appService{
		shopkeepers: shopkeepers,
		bills:       bills,
		customers:   customers,
		wholesalers: wholesalers,
		reports:     reports,
	}
}

func sessionFor(sk *core.Shopkeeper) *SessionResult {
	return &SessionResult{
		ShopkeeperID: sk.ID,
		Email:        sk.Email,
		Name:         sk.Name,
		ShopName:     sk.ShopName,
	}
}

func (s *appService) RegisterShopkeeper(ctx context.Context, req RegisterRequest) (*SessionResult, error) {
	sk, err := s.shopkeepers.Register(ctx, req.Email, req.Name, req.ShopName, req.Password)
	if err != nil {
		return nil, err
	}
	return sessionFor(sk), nil
}

func (s *appService) AuthenticateShopkeeper(ctx context.Context, email, password string) (*SessionResult, error) {
	sk, err := s.shopkeepers.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return sessionFor(sk), nil
}

func (s *appService) GetShopkeeper(ctx context.Context, shopkeeperID int) (*core.Shopkeeper, error) {
	return s.shopkeepers.GetByID(ctx, shopkeeperID)
}

// partyFromRequest builds the party variant from the wire representation,
// enforcing the entity id rules for each kind.
func partyFromRequest(kind string, entityID *int) (core.Party, error) {
	switch core.PartyKind(kind) {
	case core.PartyWholesaler:
		if entityID == nil {
			return core.Party{}, fmt.Errorf("%w: wholesaler bill requires entity_id", core.ErrInvalidInput)
		}
		return core.PurchaseFromWholesaler(*entityID), nil
	case core.PartyDueCustomer:
		if entityID == nil {
			return core.Party{}, fmt.Errorf("%w: due customer bill requires entity_id", core.ErrInvalidInput)
		}
		return core.SaleToDueCustomer(*entityID), nil
	case core.PartyWalkIn:
		if entityID != nil {
			return core.Party{}, fmt.Errorf("%w: walk-in bill cannot carry entity_id", core.ErrInvalidInput)
		}
		return core.SaleToWalkIn(), nil
	default:
		return core.Party{}, fmt.Errorf("%w: unknown party kind %q", core.ErrInvalidInput, kind)
	}
}

func (s *appService) CreateBill(ctx context.Context, shopkeeperID int, req CreateBillRequest) (*BillResult, error) {
	party, err := partyFromRequest(req.PartyKind, req.EntityID)
	if err != nil {
		return nil, err
	}

	bill, err := s.bills.CreateBill(ctx, shopkeeperID, core.BillInput{
		Party:         party,
		PartyName:     req.PartyName,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) UpdateBill(ctx context.Context, shopkeeperID, billID int, req UpdateBillRequest) (*BillResult, error) {
	bill, err := s.bills.UpdateBill(ctx, shopkeeperID, billID, core.BillUpdateInput{
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) DeleteBill(ctx context.Context, shopkeeperID, billID int) error {
	return s.bills.DeleteBill(ctx, shopkeeperID, billID)
}

func (s *appService) GetBill(ctx context.Context, shopkeeperID, billID int) (*BillResult, error) {
	bill, err := s.bills.GetBill(ctx, shopkeeperID, billID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) GetBillByNumber(ctx context.Context, shopkeeperID int, billNumber string) (*BillResult, error) {
	bill, err := s.bills.GetBillByNumber(ctx, shopkeeperID, billNumber)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) ListBills(ctx context.Context, shopkeeperID int, req BillListRequest) (*BillListResult, error) {
	filter := core.BillFilter{
		Search:         req.Search,
		FromDate:       req.FromDate,
		ToDate:         req.ToDate,
		IncludeDeleted: req.IncludeDeleted,
		Limit:          req.Limit,
		Offset:         req.Offset,
	}
	if req.BillType != "" {
		bt := core.BillType(req.BillType)
		if bt != core.BillTypePurchase && bt != core.BillTypeSale {
			return nil, fmt.Errorf("%w: unknown bill type %q", core.ErrInvalidInput, req.BillType)
		}
		filter.BillType = &bt
	}
	if req.PartyKind != "" {
		pk := core.PartyKind(req.PartyKind)
		switch pk {
		case core.PartyWholesaler, core.PartyDueCustomer, core.PartyWalkIn:
			filter.PartyKind = &pk
		default:
			return nil, fmt.Errorf("%w: unknown party kind %q", core.ErrInvalidInput, req.PartyKind)
		}
	}

	bills, err := s.bills.ListBills(ctx, shopkeeperID, filter)
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) GetBillStats(ctx context.Context, shopkeeperID int) (*core.BillStats, error) {
	return s.bills.GetBillStats(ctx, shopkeeperID)
}

func (s *appService) CreateCustomer(ctx context.Context, shopkeeperID int, req CustomerRequest) (*CustomerResult, error) {
	customer, err := s.customers.CreateCustomer(ctx, shopkeeperID, core.CustomerInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) GetCustomer(ctx context.Context, shopkeeperID, customerID int) (*CustomerResult, error) {
	customer, err := s.customers.GetCustomer(ctx, shopkeeperID, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, shopkeeperID, customerID int, req CustomerUpdateRequest) (*CustomerResult, error) {
	customer, err := s.customers.UpdateCustomer(ctx, shopkeeperID, customerID, core.CustomerUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, shopkeeperID, customerID int) error {
	return s.customers.DeleteCustomer(ctx, shopkeeperID, customerID)
}

func (s *appService) ListCustomers(ctx context.Context, shopkeeperID int, req EntityListRequest) (*CustomerListResult, error) {
	customers, err := s.customers.ListCustomers(ctx, shopkeeperID, core.EntityFilter{
		Search:  req.Search,
		Active:  req.Active,
		HasDues: req.HasDues,
		SortBy:  req.SortBy,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) GetCustomerStats(ctx context.Context, shopkeeperID int) (*core.CustomerStats, error) {
	return s.customers.GetCustomerStats(ctx, shopkeeperID)
}

func (s *appService) RecordCustomerPayment(ctx context.Context, shopkeeperID, customerID int, amount decimal.Decimal, method, note string) (*CustomerResult, error) {
	customer, err := s.customers.RecordPayment(ctx, shopkeeperID, customerID, amount, method, note)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) CreateWholesaler(ctx context.Context, shopkeeperID int, req WholesalerRequest) (*WholesalerResult, error) {
	wholesaler, err := s.wholesalers.CreateWholesaler(ctx, shopkeeperID, core.WholesalerInput{
		Name:           req.Name,
		Phone:          req.Phone,
		WhatsApp:       req.WhatsApp,
		Address:        req.Address,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		return nil, err
	}
	return &WholesalerResult{Wholesaler: wholesaler}, nil
}

func (s *appService) GetWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*WholesalerResult, error) {
	wholesaler, err := s.wholesalers.GetWholesaler(ctx, shopkeeperID, wholesalerID)
	if err != nil {
		return nil, err
	}
	return &WholesalerResult{Wholesaler: wholesaler}, nil
}

func (s *appService) UpdateWholesaler(ctx context.Context, shopkeeperID, wholesalerID int, req WholesalerUpdateRequest) (*WholesalerResult, error) {
	wholesaler, err := s.wholesalers.UpdateWholesaler(ctx, shopkeeperID, wholesalerID, core.WholesalerUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		WhatsApp: req.WhatsApp,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return &WholesalerResult{Wholesaler: wholesaler}, nil
}

func (s *appService) DeleteWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) error {
	return s.wholesalers.DeleteWholesaler(ctx, shopkeeperID, wholesalerID)
}

func (s *appService) RestoreWholesaler(ctx context.Context, shopkeeperID, wholesalerID int) (*WholesalerResult, error) {
	wholesaler, err := s.wholesalers.RestoreWholesaler(ctx, shopkeeperID, wholesalerID)
	if err != nil {
		return nil, err
	}
	return &WholesalerResult{Wholesaler: wholesaler}, nil
}

func (s *appService) ListWholesalers(ctx context.Context, shopkeeperID int, req EntityListRequest) (*WholesalerListResult, error) {
	wholesalers, err := s.wholesalers.ListWholesalers(ctx, shopkeeperID, core.EntityFilter{
		Search:  req.Search,
		Active:  req.Active,
		HasDues: req.HasDues,
		SortBy:  req.SortBy,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}, req.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	return &WholesalerListResult{Wholesalers: wholesalers}, nil
}

func (s *appService) GetWholesalerStats(ctx context.Context, shopkeeperID int, includeDeleted bool) (*core.WholesalerStats, error) {
	return s.wholesalers.GetWholesalerStats(ctx, shopkeeperID, includeDeleted)
}

func (s *appService) RecordWholesalerPayment(ctx context.Context, shopkeeperID, wholesalerID int, amount decimal.Decimal, method, note string) (*WholesalerResult, error) {
	wholesaler, err := s.wholesalers.RecordPayment(ctx, shopkeeperID, wholesalerID, amount, method, note)
	if err != nil {
		return nil, err
	}
	return &WholesalerResult{Wholesaler: wholesaler}, nil
}

func (s *appService) ListPayments(ctx context.Context, shopkeeperID int, req PaymentListRequest) (*PaymentListResult, error) {
	filter := core.PaymentFilter{
		EntityID: req.EntityID,
		BillID:   req.BillID,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.PartyKind != "" {
		pk := core.PartyKind(req.PartyKind)
		switch pk {
		case core.PartyWholesaler, core.PartyDueCustomer, core.PartyWalkIn:
			filter.PartyKind = &pk
		default:
			return nil, fmt.Errorf("%w: unknown party kind %q", core.ErrInvalidInput, req.PartyKind)
		}
	}

	payments, err := s.reports.ListPayments(ctx, shopkeeperID, filter)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

func (s *appService) ListTransactions(ctx context.Context, shopkeeperID int, req TransactionListRequest) (*TransactionListResult, error) {
	filter := core.TransactionFilter{
		Category: req.Category,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.Type != "" {
		tt := core.TransactionType(req.Type)
		if tt != core.TxIncome && tt != core.TxExpense {
			return nil, fmt.Errorf("%w: unknown transaction type %q", core.ErrInvalidInput, req.Type)
		}
		filter.Type = &tt
	}

	transactions, err := s.reports.ListTransactions(ctx, shopkeeperID, filter)
	if err != nil {
		return nil, err
	}
	return &TransactionListResult{Transactions: transactions}, nil
}

func (s *appService) GetCashFlowSummary(ctx context.Context, shopkeeperID int, fromDate, toDate string) (*core.CashFlowSummary, error) {
	return s.reports.GetCashFlowSummary(ctx, shopkeeperID, fromDate, toDate)
}

func (s *appService) GetDashboard(ctx context.Context, shopkeeperID int) (*core.DashboardSummary, error) {
	return s.reports.GetDashboard(ctx, shopkeeperID)
}
