package http

import (
	"net/http"

	"hospital-frontdesk/internal/delivery/http/handler"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/pkg/response"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Patient    *handler.PatientHandler
	Procedure  *handler.ProcedureHandler
	Bill       *handler.BillHandler
	Product    *handler.ProductHandler
	Refund     *handler.RefundHandler
	Expense    *handler.ExpenseHandler
	Summary    *handler.SummaryHandler
	Department *handler.DepartmentHandler
	Doctor     *handler.DoctorHandler
	Staff      *handler.StaffHandler
	AuditLog   *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	h                 Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		h:                 h,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

func adminOnly(fn http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(fn)
}

func frontDesk(fn http.HandlerFunc) http.Handler {
	return middleware.RequireFrontDesk(fn)
}

// Setup registers every route. CORS and request logging wrap the whole router
// so preflights and unmatched paths pass through them too.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.h.Auth.GetCurrentUser).Methods(http.MethodGet)
	authProtected.Handle("/register", adminOnly(r.h.User.Create)).Methods(http.MethodPost)

	// Everything below needs a hospital role
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	// Procedures
	staff.HandleFunc("/procedure/procedures", r.h.Procedure.Create).Methods(http.MethodPost)
	staff.HandleFunc("/procedure/procedures", r.h.Procedure.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/procedure/procedures/{procedureId}", r.h.Procedure.Update).Methods(http.MethodPut)
	staff.HandleFunc("/procedure/procedures/{procedureId}", r.h.Procedure.Delete).Methods(http.MethodDelete)
	staff.HandleFunc("/procedure/patient/{patient_MRNo}", r.h.Procedure.GetByPatient).Methods(http.MethodGet)

	// Patients and OPD visits
	staff.HandleFunc("/patient", r.h.Patient.Create).Methods(http.MethodPost)
	staff.HandleFunc("/patient", r.h.Patient.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/patient/search", r.h.Patient.Search).Methods(http.MethodGet)
	staff.HandleFunc("/patient/{mrNo}", r.h.Patient.GetByMRNo).Methods(http.MethodGet)
	staff.HandleFunc("/patient/{mrNo}", r.h.Patient.Update).Methods(http.MethodPut)
	staff.Handle("/patient/{mrNo}", adminOnly(r.h.Patient.Delete)).Methods(http.MethodDelete)
	staff.Handle("/patient/{mrNo}/visits", frontDesk(r.h.Patient.AddVisit)).Methods(http.MethodPost)
	staff.HandleFunc("/patient/{mrNo}/visits", r.h.Patient.GetVisits).Methods(http.MethodGet)

	// Retail
	staff.Handle("/bills", frontDesk(r.h.Bill.Create)).Methods(http.MethodPost)
	staff.HandleFunc("/bills", r.h.Bill.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/bills/{id}", r.h.Bill.GetByID).Methods(http.MethodGet)
	staff.Handle("/bills/{id}", frontDesk(r.h.Bill.Update)).Methods(http.MethodPut)
	staff.Handle("/bills/{id}", frontDesk(r.h.Bill.Delete)).Methods(http.MethodDelete)

	staff.Handle("/products", frontDesk(r.h.Product.Create)).Methods(http.MethodPost)
	staff.HandleFunc("/products", r.h.Product.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/products/barcode/{barcode}", r.h.Product.GetByBarcode).Methods(http.MethodGet)
	staff.HandleFunc("/products/{id}", r.h.Product.GetByID).Methods(http.MethodGet)
	staff.Handle("/products/{id}", frontDesk(r.h.Product.Update)).Methods(http.MethodPut)
	staff.Handle("/products/{id}", frontDesk(r.h.Product.Delete)).Methods(http.MethodDelete)

	// Refunds
	staff.Handle("/refund/refunds", frontDesk(r.h.Refund.Create)).Methods(http.MethodPost)
	staff.HandleFunc("/refund/refunds", r.h.Refund.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/refund/refunds/statistics", r.h.Refund.GetStatistics).Methods(http.MethodGet)
	staff.HandleFunc("/refund/refunds/patient/{mrNo}", r.h.Refund.GetByPatient).Methods(http.MethodGet)
	staff.HandleFunc("/refund/refunds/patient/{mrNo}/visits", r.h.Refund.GetRefundableVisits).Methods(http.MethodGet)
	staff.HandleFunc("/refund/refunds/{id}", r.h.Refund.GetByID).Methods(http.MethodGet)
	staff.Handle("/refund/refunds/{id}/status", adminOnly(r.h.Refund.UpdateStatus)).Methods(http.MethodPatch)

	// Master data: readable by staff, managed by admins
	staff.HandleFunc("/departments", r.h.Department.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/departments/{id}", r.h.Department.GetByID).Methods(http.MethodGet)
	staff.Handle("/departments", adminOnly(r.h.Department.Create)).Methods(http.MethodPost)
	staff.Handle("/departments/{id}", adminOnly(r.h.Department.Update)).Methods(http.MethodPut)
	staff.Handle("/departments/{id}", adminOnly(r.h.Department.Delete)).Methods(http.MethodDelete)

	staff.HandleFunc("/doctors", r.h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	staff.HandleFunc("/doctors/{id}", r.h.Doctor.GetDoctor).Methods(http.MethodGet)
	staff.Handle("/doctors", adminOnly(r.h.Doctor.CreateDoctor)).Methods(http.MethodPost)
	staff.Handle("/doctors/{id}", adminOnly(r.h.Doctor.UpdateDoctor)).Methods(http.MethodPut)
	staff.Handle("/doctors/{id}", adminOnly(r.h.Doctor.DeleteDoctor)).Methods(http.MethodDelete)

	staff.HandleFunc("/staff", r.h.Staff.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/staff/{id}", r.h.Staff.GetByID).Methods(http.MethodGet)
	staff.Handle("/staff", adminOnly(r.h.Staff.Create)).Methods(http.MethodPost)
	staff.Handle("/staff/{id}", adminOnly(r.h.Staff.Update)).Methods(http.MethodPut)
	staff.Handle("/staff/{id}", adminOnly(r.h.Staff.Delete)).Methods(http.MethodDelete)

	// Finance (admin)
	finance := api.NewRoute().Subrouter()
	finance.Use(r.authMiddleware.Authenticate)
	finance.Use(middleware.RequireAdmin)

	finance.HandleFunc("/expense", r.h.Expense.Create).Methods(http.MethodPost)
	finance.HandleFunc("/expense", r.h.Expense.GetAll).Methods(http.MethodGet)
	finance.HandleFunc("/expense/summary/doctors", r.h.Expense.DoctorSummary).Methods(http.MethodGet)
	finance.HandleFunc("/expense/summary/totals", r.h.Expense.Totals).Methods(http.MethodGet)
	finance.HandleFunc("/expense/summary/complete", r.h.Expense.CompleteSummary).Methods(http.MethodGet)
	finance.HandleFunc("/expense/{id}", r.h.Expense.GetByID).Methods(http.MethodGet)
	finance.HandleFunc("/expense/{id}", r.h.Expense.Update).Methods(http.MethodPut)
	finance.HandleFunc("/expense/{id}", r.h.Expense.Delete).Methods(http.MethodDelete)

	finance.HandleFunc("/summary", r.h.Summary.Get).Methods(http.MethodGet)
	finance.HandleFunc("/summary/export", r.h.Summary.Export).Methods(http.MethodGet)

	// User management (admin)
	finance.HandleFunc("/users", r.h.User.Create).Methods(http.MethodPost)
	finance.HandleFunc("/users", r.h.User.GetAll).Methods(http.MethodGet)
	finance.HandleFunc("/users/roles", r.h.User.GetRoles).Methods(http.MethodGet)
	finance.HandleFunc("/users/{id}", r.h.User.GetByID).Methods(http.MethodGet)
	finance.HandleFunc("/users/{id}", r.h.User.Update).Methods(http.MethodPut)
	finance.HandleFunc("/users/{id}", r.h.User.Delete).Methods(http.MethodDelete)

	// Audit logs (admin)
	finance.HandleFunc("/admin/audit-logs", r.h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	finance.HandleFunc("/admin/audit-logs/{id}", r.h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	return r.loggingMiddleware.Handle(r.corsMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}
