package web

import (
	"net/http"

	"github.com/Rizwanu321/BillMate24-sub000/internal/app"

	"github.com/shopspring/decimal"
)

// wholesalerCreate handles POST /api/wholesalers.
func (h *Handler) wholesalerCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string          `json:"name"`
		Phone          string          `json:"phone"`
		WhatsApp       string          `json:"whatsapp"`
		Address        string          `json:"address"`
		OpeningBalance decimal.Decimal `json:"opening_balance"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateWholesaler(r.Context(), shopkeeperID(r), app.WholesalerRequest{
		Name:           req.Name,
		Phone:          req.Phone,
		WhatsApp:       req.WhatsApp,
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

// wholesalerGet handles GET /api/wholesalers/{id}.
func (h *Handler) wholesalerGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetWholesaler(r.Context(), shopkeeperID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// wholesalerUpdate handles PUT /api/wholesalers/{id}.
func (h *Handler) wholesalerUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		WhatsApp *string `json:"whatsapp"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"is_active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.UpdateWholesaler(r.Context(), shopkeeperID(r), id, app.WholesalerUpdateRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		WhatsApp: req.WhatsApp,
		Address:  req.Address,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// wholesalerDelete handles DELETE /api/wholesalers/{id} — soft delete.
func (h *Handler) wholesalerDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteWholesaler(r.Context(), shopkeeperID(r), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// wholesalerRestore handles POST /api/wholesalers/{id}/restore.
func (h *Handler) wholesalerRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.RestoreWholesaler(r.Context(), shopkeeperID(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// wholesalerList handles GET /api/wholesalers.
func (h *Handler) wholesalerList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListWholesalers(r.Context(), shopkeeperID(r), app.EntityListRequest{
		Search:         q.Get("search"),
		Active:         queryBoolPtr(r, "active"),
		HasDues:        queryBoolPtr(r, "has_dues"),
		SortBy:         q.Get("sort_by"),
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

// wholesalerStats handles GET /api/wholesalers/stats.
func (h *Handler) wholesalerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetWholesalerStats(r.Context(), shopkeeperID(r), queryBool(r, "include_deleted"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// wholesalerPayment handles POST /api/wholesalers/{id}/payments.
func (h *Handler) wholesalerPayment(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.svc.RecordWholesalerPayment(r.Context(), shopkeeperID(r), id, req.Amount, req.Method, req.Note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}
