package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hospital-frontdesk/config"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/delivery/http/handler"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/internal/testutil"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/jwt"
	"hospital-frontdesk/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

type server struct {
	t       *testing.T
	handler http.Handler
	store   *testutil.Store
	users   usecase.UserUsecase
}

func newServer(t *testing.T) *server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := testutil.NewStore()
	tx := testutil.NewTransactor(store)
	log := testutil.NewLogger()
	v := validator.NewValidator()

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "router-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})

	userRepo := testutil.UserRepo{S: store}
	patientRepo := testutil.PatientRepo{S: store}
	visitRepo := testutil.VisitRepo{S: store}
	doctorRepo := testutil.DoctorRepo{S: store}
	departmentRepo := testutil.DepartmentRepo{S: store}
	procedureRepo := testutil.ProcedureRepo{S: store}
	refundRepo := testutil.RefundRepo{S: store}
	billRepo := testutil.BillRepo{S: store}
	expenseRepo := testutil.ExpenseRepo{S: store}

	sessions := service.NewSessionService(client, log)
	audit := service.NewAuditService(log, testutil.AuditLogRepo{S: store})
	tokens := service.NewTokenService(tx, client, log, time.UTC, departmentRepo, doctorRepo, procedureRepo, visitRepo)
	stock := service.NewStockService(log, testutil.StockRepo{S: store}, nil)

	users := usecase.NewUserUsecase(tx, log, userRepo, testutil.RoleRepo{S: store}, sessions, audit)

	h := Handlers{
		Auth:       handler.NewAuthHandler(usecase.NewAuthUsecase(tx, log, userRepo, jwtService, sessions, audit), v, jwtService),
		User:       handler.NewUserHandler(users, v),
		Patient:    handler.NewPatientHandler(usecase.NewPatientUsecase(tx, log, patientRepo, visitRepo, doctorRepo, tokens), v),
		Procedure:  handler.NewProcedureHandler(usecase.NewProcedureUsecase(tx, log, procedureRepo, patientRepo, visitRepo, doctorRepo, tokens, audit), v),
		Bill:       handler.NewBillHandler(usecase.NewBillUsecase(tx, log, billRepo, stock, audit), v, time.UTC),
		Product:    handler.NewProductHandler(usecase.NewProductUsecase(tx, log, testutil.ProductRepo{S: store}, audit), v),
		Refund:     handler.NewRefundHandler(usecase.NewRefundUsecase(tx, log, time.UTC, refundRepo, patientRepo, visitRepo, audit), v, time.UTC),
		Expense:    handler.NewExpenseHandler(usecase.NewExpenseUsecase(tx, log, expenseRepo), v, time.UTC),
		Summary:    handler.NewSummaryHandler(usecase.NewSummaryUsecase(tx, log, visitRepo, refundRepo, procedureRepo, billRepo, expenseRepo, doctorRepo), time.UTC),
		Department: handler.NewDepartmentHandler(usecase.NewDepartmentUsecase(tx, log, departmentRepo), v),
		Doctor:     handler.NewDoctorHandler(usecase.NewDoctorUsecase(tx, log, doctorRepo, departmentRepo), v),
		Staff:      handler.NewStaffHandler(usecase.NewStaffUsecase(tx, log, testutil.StaffRepo{S: store}, departmentRepo), v),
		AuditLog:   handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(tx, log, testutil.AuditLogRepo{S: store})),
	}

	router := NewRouter(h,
		middleware.NewAuthMiddleware(jwtService, sessions),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
	)

	return &server{t: t, handler: router.Setup(), store: store, users: users}
}

func (s *server) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func (s *server) expect(method, path, token string, body interface{}, status int, out interface{}) envelope {
	s.t.Helper()
	rec, env := s.do(method, path, token, body)
	if rec.Code != status {
		s.t.Fatalf("%s %s: status = %d, want %d (body %s)", method, path, rec.Code, status, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return env
}

// login creates an account with the given role and returns its access token.
func (s *server) login(email string, roleID int) string {
	s.t.Helper()
	_, err := s.users.Create(context.Background(), uuid.New(), &dto.CreateUserRequest{
		Email:    email,
		Password: "secret123",
		FullName: "Test User",
		RoleID:   roleID,
	})
	if err != nil {
		s.t.Fatalf("create user: %v", err)
	}

	var tokens dto.TokenResponse
	s.expect(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: "secret123"}, http.StatusOK, &tokens)
	return tokens.AccessToken
}

func TestRouter_HealthIsPublic(t *testing.T) {
	s := newServer(t)
	s.expect(http.MethodGet, "/health", "", nil, http.StatusOK, nil)
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	s := newServer(t)

	rec, _ := s.do(http.MethodGet, "/bills", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	rec, _ = s.do(http.MethodGet, "/bills", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestRouter_RoleChecks(t *testing.T) {
	s := newServer(t)
	desk := s.login("desk@hospital.test", entity.RoleIDReceptionist)
	nurse := s.login("nurse@hospital.test", entity.RoleIDNurse)
	patient := s.login("patient@hospital.test", entity.RoleIDPatient)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"receptionist lists bills", http.MethodGet, "/bills", desk, nil, http.StatusOK},
		{"receptionist cannot list users", http.MethodGet, "/users", desk, nil, http.StatusForbidden},
		{"receptionist cannot read audit logs", http.MethodGet, "/admin/audit-logs", desk, nil, http.StatusForbidden},
		{"receptionist cannot see the summary", http.MethodGet, "/summary", desk, nil, http.StatusForbidden},
		{"receptionist cannot create departments", http.MethodPost, "/departments", desk, dto.DepartmentRequest{Name: "Eye"}, http.StatusForbidden},
		{"receptionist cannot register users", http.MethodPost, "/auth/register", desk, nil, http.StatusForbidden},
		{"nurse reads departments", http.MethodGet, "/departments", nurse, nil, http.StatusOK},
		{"nurse cannot bill", http.MethodPost, "/bills", nurse, nil, http.StatusForbidden},
		{"patient account is refused", http.MethodGet, "/departments", patient, nil, http.StatusForbidden},
		{"patient account reads itself", http.MethodGet, "/auth/me", patient, nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := s.do(tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRouter_LogoutRevokesAccessToken(t *testing.T) {
	s := newServer(t)
	token := s.login("desk@hospital.test", entity.RoleIDReceptionist)

	s.expect(http.MethodGet, "/auth/me", token, nil, http.StatusOK, nil)
	s.expect(http.MethodPost, "/auth/logout", token, nil, http.StatusOK, nil)

	rec, env := s.do(http.MethodGet, "/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized || env.Message != "Token has been revoked" {
		t.Fatalf("after logout: %d %q", rec.Code, env.Message)
	}
}

func TestRouter_FrontDeskFlow(t *testing.T) {
	s := newServer(t)
	admin := s.login("admin@hospital.test", entity.RoleIDAdmin)
	desk := s.login("desk@hospital.test", entity.RoleIDReceptionist)

	var dept dto.DepartmentResponse
	s.expect(http.MethodPost, "/departments", admin, dto.DepartmentRequest{Name: "General Medicine"}, http.StatusCreated, &dept)
	s.expect(http.MethodPost, "/departments", admin, dto.DepartmentRequest{Name: "General Medicine"}, http.StatusConflict, nil)

	var doctor dto.DoctorResponse
	s.expect(http.MethodPost, "/doctors", admin, map[string]interface{}{
		"full_name":           "Dr. Sana",
		"department_id":       dept.ID,
		"consultation_fee":    "1000",
		"hospital_percentage": "40",
		"doctor_percentage":   "60",
	}, http.StatusCreated, &doctor)

	var patient dto.PatientResponse
	s.expect(http.MethodPost, "/patient", desk, dto.PatientRequest{Name: "Ayesha Khan", ContactNo: "0300-1234567", Age: 34, Gender: "female"}, http.StatusCreated, &patient)
	if !strings.HasPrefix(patient.MRNo, "MR-") {
		t.Fatalf("mr_no = %q", patient.MRNo)
	}

	var first, second dto.VisitResponse
	visit := map[string]interface{}{"doctor_id": doctor.ID, "amount_paid": "1000"}
	s.expect(http.MethodPost, "/patient/"+patient.MRNo+"/visits", desk, visit, http.StatusCreated, &first)
	s.expect(http.MethodPost, "/patient/"+patient.MRNo+"/visits", desk, visit, http.StatusCreated, &second)
	if first.Token != "GE-1" || second.Token != "GE-2" {
		t.Fatalf("tokens = %q, %q, want GE-1, GE-2", first.Token, second.Token)
	}

	var found []dto.PatientResponse
	env := s.expect(http.MethodGet, "/patient/search?q=ayesha", desk, nil, http.StatusOK, &found)
	if len(found) != 1 || env.Meta == nil || env.Meta.Total != 1 {
		t.Fatalf("search = %d rows, meta %+v", len(found), env.Meta)
	}

	// Refund half of the first visit, then try to overdraw it.
	var refund dto.RefundResponse
	s.expect(http.MethodPost, "/refund/refunds", desk, map[string]interface{}{
		"patient_mr_no": patient.MRNo,
		"visit_id":      first.ID,
		"refund_amount": "500",
		"reason":        "doctor unavailable",
	}, http.StatusCreated, &refund)
	s.expect(http.MethodPost, "/refund/refunds", desk, map[string]interface{}{
		"patient_mr_no": patient.MRNo,
		"visit_id":      first.ID,
		"refund_amount": "501",
		"reason":        "again",
	}, http.StatusBadRequest, nil)

	statusPath := "/refund/refunds/" + refund.ID.String() + "/status"
	s.expect(http.MethodPatch, statusPath, desk, dto.UpdateRefundStatusRequest{Status: "approved"}, http.StatusForbidden, nil)
	s.expect(http.MethodPatch, statusPath, admin, dto.UpdateRefundStatusRequest{Status: "processed"}, http.StatusConflict, nil)
	s.expect(http.MethodPatch, statusPath, admin, dto.UpdateRefundStatusRequest{Status: "approved"}, http.StatusOK, nil)

	var refundable []dto.RefundableVisitResponse
	s.expect(http.MethodGet, "/refund/refunds/patient/"+patient.MRNo+"/visits", desk, nil, http.StatusOK, &refundable)
	if len(refundable) != 2 {
		t.Fatalf("refundable visits = %d, want 2", len(refundable))
	}

	today := time.Now().UTC().Format("2006-01-02")
	var summary dto.SummaryResponse
	s.expect(http.MethodGet, "/summary?from="+today+"&to="+today, admin, nil, http.StatusOK, &summary)
	if len(summary.Doctors) != 1 || !summary.Doctors[0].NetAmount.Equal(summary.Doctors[0].TotalPaid.Sub(summary.Doctors[0].TotalRefunds)) {
		t.Fatalf("summary doctors = %+v", summary.Doctors)
	}
	if summary.Totals.OPDNet.String() != "1500" {
		t.Errorf("opd net = %s, want 1500", summary.Totals.OPDNet)
	}

	rec, _ := s.do(http.MethodGet, "/summary/export?from="+today+"&to="+today, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("export content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "summary_"+today+"_"+today+".xlsx") {
		t.Errorf("export disposition = %q", cd)
	}

	var logs []dto.AuditLogResponse
	s.expect(http.MethodGet, "/admin/audit-logs?action="+entity.AuditActionRefundStatus, admin, nil, http.StatusOK, &logs)
	if len(logs) != 1 {
		t.Errorf("refund status audit rows = %d, want 1", len(logs))
	}
}

func TestRouter_BadInput(t *testing.T) {
	s := newServer(t)
	admin := s.login("admin@hospital.test", entity.RoleIDAdmin)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"malformed bill id", http.MethodGet, "/bills/not-a-uuid", nil, http.StatusBadRequest},
		{"unknown bill", http.MethodGet, "/bills/" + uuid.New().String(), nil, http.StatusNotFound},
		{"bad date", http.MethodGet, "/refund/refunds?from=10-03-2024", nil, http.StatusBadRequest},
		{"reversed summary range", http.MethodGet, "/summary?from=2024-03-10&to=2024-03-01", nil, http.StatusBadRequest},
		{"bill without items", http.MethodPost, "/bills", dto.CreateBillRequest{}, http.StatusBadRequest},
		{"unknown patient", http.MethodGet, "/patient/MR-000000-0000", nil, http.StatusNotFound},
		{"search without term", http.MethodGet, "/patient/search", nil, http.StatusBadRequest},
		{"unknown audit log", http.MethodGet, "/admin/audit-logs/999", nil, http.StatusNotFound},
		{"bad refund status", http.MethodPatch, "/refund/refunds/" + uuid.New().String() + "/status", map[string]string{"status": "paid"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := s.do(tc.method, tc.path, admin, tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/refund/refunds/abc/status", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Errorf("allow methods = %q", got)
	}
}
