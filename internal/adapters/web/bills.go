package web

import (
	"net/http"

	"github.com/Rizwanu321/BillMate24-sub000/internal/app"
	"github.com/go-chi/chi/v5"

	"github.com/shopspring/decimal"
)

// billCreate handles POST /api/bills.
func (h *Handler) billCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartyKind     string          `json:"party_kind"`
		EntityID      *int            `json:"entity_id"`
		PartyName     string          `json:"party_name"`
		TotalAmount   decimal.Decimal `json:"total_amount"`
		PaidAmount    decimal.Decimal `json:"paid_amount"`
		PaymentMethod string          `json:"payment_method"`
		Notes         string          `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateBill(r.Context(), shopkeeperID(r), app.CreateBillRequest{
		PartyKind:     req.PartyKind,
		EntityID:      req.EntityID,
		PartyName:     req.PartyName,
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

// billUpdate handles PUT /api/bills/{id}.
func (h *Handler) billUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		TotalAmount   *decimal.Decimal `json:"total_amount"`
		PaidAmount    *decimal.Decimal `json:"paid_amount"`
		PaymentMethod *string          `json:"payment_method"`
		Notes         *string          `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.UpdateBill(r.Context(), shopkeeperID(r), id, app.UpdateBillRequest{
		TotalAmount:   req.TotalAmount,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// billDelete handles DELETE /api/bills/{id}.
func (h *Handler) billDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBill(r.Context(), shopkeeperID(r), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// billGet handles GET /api/bills/{id}.
func (h *Handler) billGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetBill(r.Context(), shopkeeperID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// billGetByNumber handles GET /api/bills/number/{number}.
func (h *Handler) billGetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	result, err := h.svc.GetBillByNumber(r.Context(), shopkeeperID(r), number)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// billList handles GET /api/bills.
func (h *Handler) billList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListBills(r.Context(), shopkeeperID(r), app.BillListRequest{
		BillType:       q.Get("bill_type"),
		PartyKind:      q.Get("party_kind"),
		Search:         q.Get("search"),
		FromDate:       q.Get("from_date"),
		ToDate:         q.Get("to_date"),
		IncludeDeleted: queryBool(r, "include_deleted"),
		Limit:          queryInt(r, "limit"),
		Offset:         queryInt(r, "offset"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// billStats handles GET /api/bills/stats.
func (h *Handler) billStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetBillStats(r.Context(), shopkeeperID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
