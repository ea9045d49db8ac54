package web

import (
	"net/http"
	"strconv"

	"github.com/Rizwanu321/BillMate24-sub000/internal/app"
)

// queryIntPtr returns nil when the parameter is absent or malformed.
func queryIntPtr(r *http.Request, name string) *int {
	if !r.URL.Query().Has(name) {
		return nil
	}
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &v
}

// paymentList handles GET /api/payments.
func (h *Handler) paymentList(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPayments(r.Context(), shopkeeperID(r), app.PaymentListRequest{
		PartyKind: r.URL.Query().Get("party_kind"),
		EntityID:  queryIntPtr(r, "entity_id"),
		BillID:    queryIntPtr(r, "bill_id"),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// transactionList handles GET /api/transactions.
func (h *Handler) transactionList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ListTransactions(r.Context(), shopkeeperID(r), app.TransactionListRequest{
		Type:     q.Get("type"),
		Category: q.Get("category"),
		FromDate: q.Get("from_date"),
		ToDate:   q.Get("to_date"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// cashFlow handles GET /api/reports/cash-flow.
func (h *Handler) cashFlow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.svc.GetCashFlowSummary(r.Context(), shopkeeperID(r), q.Get("from_date"), q.Get("to_date"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// dashboard handles GET /api/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDashboard(r.Context(), shopkeeperID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, summary)
}
