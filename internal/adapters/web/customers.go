package web

import (
	"net/http"

	"github.com/Rizwanu321/BillMate24-sub000/internal/app"

	"github.com/shopspring/decimal"
)

// customerCreate handles POST /api/customers.
func (h *Handler) customerCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string          `json:"name"`
		Phone          string          `json:"phone"`
		Address        string          `json:"address"`
		OpeningBalance decimal.Decimal `json:"opening_balance"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateCustomer(r.Context(), shopkeeperID(r), app.CustomerRequest{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

// customerGet handles GET /api/customers/{id}.
func (h *Handler) customerGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetCustomer(r.Context(), shopkeeperID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// customerUpdate handles PUT /api/customers/{id}.
func (h *Handler) customerUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"is_active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.UpdateCustomer(r.Context(), shopkeeperID(r), id, app.CustomerUpdateRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// customerDelete handles DELETE /api/customers/{id}.
func (h *Handler) customerDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), shopkeeperID(r), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// customerList handles GET /api/customers.
func (h *Handler) customerList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListCustomers(r.Context(), shopkeeperID(r), app.EntityListRequest{
		Search:  q.Get("search"),
		Active:  queryBoolPtr(r, "active"),
		HasDues: queryBoolPtr(r, "has_dues"),
		SortBy:  q.Get("sort_by"),
		Limit:   queryInt(r, "limit"),
		Offset:  queryInt(r, "offset"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// customerStats handles GET /api/customers/stats.
func (h *Handler) customerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetCustomerStats(r.Context(), shopkeeperID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// customerPayment handles POST /api/customers/{id}/payments.
func (h *Handler) customerPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Method string          `json:"method"`
		Note   string          `json:"note"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.RecordCustomerPayment(r.Context(), shopkeeperID(r), id, req.Amount, req.Method, req.Note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}
