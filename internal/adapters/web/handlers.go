package web

import (
	"net/http"
	"strconv"

	"github.com/Rizwanu321/BillMate24-sub000/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ─────────────────────────────────────────────────────────
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		// Bills
		r.Post("/api/bills", h.billCreate)
		r.Get("/api/bills", h.billList)
		r.Get("/api/bills/stats", h.billStats)
		r.Get("/api/bills/number/{number}", h.billGetByNumber)
		r.Get("/api/bills/{id}", h.billGet)
		r.Put("/api/bills/{id}", h.billUpdate)
		r.Delete("/api/bills/{id}", h.billDelete)

		// Customers
		r.Post("/api/customers", h.customerCreate)
		r.Get("/api/customers", h.customerList)
		r.Get("/api/customers/stats", h.customerStats)
		r.Get("/api/customers/{id}", h.customerGet)
		r.Put("/api/customers/{id}", h.customerUpdate)
		r.Delete("/api/customers/{id}", h.customerDelete)
		r.Post("/api/customers/{id}/payments", h.customerPayment)

		// Wholesalers
		r.Post("/api/wholesalers", h.wholesalerCreate)
		r.Get("/api/wholesalers", h.wholesalerList)
		r.Get("/api/wholesalers/stats", h.wholesalerStats)
		r.Get("/api/wholesalers/{id}", h.wholesalerGet)
		r.Put("/api/wholesalers/{id}", h.wholesalerUpdate)
		r.Delete("/api/wholesalers/{id}", h.wholesalerDelete)
		r.Post("/api/wholesalers/{id}/restore", h.wholesalerRestore)
		r.Post("/api/wholesalers/{id}/payments", h.wholesalerPayment)

		// Reporting
		r.Get("/api/payments", h.paymentList)
		r.Get("/api/transactions", h.transactionList)
		r.Get("/api/reports/cash-flow", h.cashFlow)
		r.Get("/api/dashboard", h.dashboard)
	})

	return r
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// shopkeeperID returns the authenticated tenant id. The auth middleware
// guarantees presence on protected routes.
func shopkeeperID(r *http.Request) int {
	return authFromContext(r.Context()).ShopkeeperID
}

// urlParamInt parses a numeric chi URL parameter, writing a 400 on failure.
func urlParamInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// queryInt parses an optional integer query parameter, returning 0 when
// absent or malformed.
func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	if v < 0 {
		return 0
	}
	return v
}

// queryBool reports whether the query parameter is "true" or "1".
func queryBool(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}

// queryBoolPtr returns nil when the parameter is absent, otherwise a pointer
// to its boolean value.
func queryBoolPtr(r *http.Request, name string) *bool {
	if !r.URL.Query().Has(name) {
		return nil
	}
	b := queryBool(r, name)
	return &b
}
