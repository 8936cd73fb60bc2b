package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AMurtezaj/door-management-system-sub000/internal/handlers"
	"github.com/AMurtezaj/door-management-system-sub000/internal/middleware"
	"github.com/AMurtezaj/door-management-system-sub000/internal/ws"
)

type RouterDeps struct {
	Auth          *handlers.AuthHandler
	Customers     *handlers.CustomerHandler
	Orders        *handlers.OrderHandler
	Supplements   *handlers.SupplementHandler
	Capacities    *handlers.CapacityHandler
	Notifications *handlers.NotificationHandler
	Health        *handlers.HealthHandler
	AuthMW        *middleware.AuthMiddleware
	Hub           *ws.Hub
}

// NewRouter wires all routes. Everything under /api requires authentication;
// capacity definitions are admin-only.
func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", d.Health.Basic).Methods(http.MethodGet)
	r.HandleFunc("/health/detailed", d.Health.Detailed).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws/notifications", d.Hub.HandleWS)

	r.HandleFunc("/auth/signup", d.Auth.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", d.Auth.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(d.AuthMW.Authenticate)

	api.HandleFunc("/auth/me", d.Auth.Me).Methods(http.MethodGet)

	api.HandleFunc("/customers", d.Customers.List).Methods(http.MethodGet)
	api.HandleFunc("/customers/search", d.Customers.Search).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", d.Customers.Get).Methods(http.MethodGet)

	api.HandleFunc("/orders", d.Orders.Create).Methods(http.MethodPost)
	api.HandleFunc("/orders", d.Orders.List).Methods(http.MethodGet)
	api.HandleFunc("/orders/day/{date}", d.Orders.ListByDay).Methods(http.MethodGet)
	api.HandleFunc("/orders/measurement/{status}", d.Orders.ListByMeasurementStatus).Methods(http.MethodGet)
	api.HandleFunc("/orders/debts/summary", d.Orders.DebtSummary).Methods(http.MethodGet)
	api.HandleFunc("/orders/debts", d.Orders.ListDebts).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", d.Orders.Get).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", d.Orders.Update).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id:[0-9]+}", d.Orders.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id:[0-9]+}/payment-status", d.Orders.SetPaymentStatus).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id:[0-9]+}/payments", d.Orders.AddPartialPayment).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/payments/cancel", d.Orders.CancelPartialPayment).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/reschedule", d.Orders.Reschedule).Methods(http.MethodPost)

	api.HandleFunc("/orders/{id:[0-9]+}/supplements", d.Supplements.Create).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}/supplements", d.Supplements.ListByOrder).Methods(http.MethodGet)
	api.HandleFunc("/supplements/{id:[0-9]+}", d.Supplements.Get).Methods(http.MethodGet)
	api.HandleFunc("/supplements/{id:[0-9]+}", d.Supplements.Update).Methods(http.MethodPut)
	api.HandleFunc("/supplements/{id:[0-9]+}/payments", d.Supplements.AddPartialPayment).Methods(http.MethodPost)
	api.HandleFunc("/supplements/{id:[0-9]+}", d.Supplements.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/capacities", d.Capacities.List).Methods(http.MethodGet)
	api.HandleFunc("/capacities/{date}/availability", d.Capacities.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/capacities/{date}", d.Capacities.GetByDate).Methods(http.MethodGet)

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(d.AuthMW.RequireRole("admin"))
	admin.HandleFunc("/capacities", d.Capacities.Create).Methods(http.MethodPost)
	admin.HandleFunc("/capacities/{id:[0-9]+}", d.Capacities.Update).Methods(http.MethodPut)

	api.HandleFunc("/notifications", d.Notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", d.Notifications.MarkAllRead).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", d.Notifications.MarkRead).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{id:[0-9]+}", d.Notifications.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/notifications/jobs/status", d.Notifications.JobStatus).Methods(http.MethodGet)
	api.HandleFunc("/notifications/jobs/trigger/overdue", d.Notifications.RunOverdueCheck).Methods(http.MethodPost)
	api.HandleFunc("/notifications/jobs/trigger/debt-report", d.Notifications.RunDebtReport).Methods(http.MethodPost)
	api.HandleFunc("/notifications/jobs/{name}/start", d.Notifications.StartJob).Methods(http.MethodPost)
	api.HandleFunc("/notifications/jobs/{name}/stop", d.Notifications.StopJob).Methods(http.MethodPost)

	return r
}
