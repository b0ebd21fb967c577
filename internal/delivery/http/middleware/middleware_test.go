package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-frontdesk/internal/domain/entity"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestCORSAllowList(t *testing.T) {
	h := NewCORSMiddleware("https://desk.example.org").Handle(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://desk.example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://desk.example.org" {
		t.Fatalf("allowed origin = %q", got)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://elsewhere.example.org")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin got %q", got)
	}
}

func TestCORSAnyOriginAndPreflight(t *testing.T) {
	h := NewCORSMiddleware().Handle(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bills", nil)
	req.Header.Set("Origin", "https://anything.example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
		t.Fatalf("expose headers = %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		bad    bool
	}{
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer ", "", true},
		{"Bearer a b", "", true},
		{"Bearer abc.def", "abc.def", false},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		token, problem := bearerToken(req)
		if (problem != "") != c.bad || token != c.token {
			t.Errorf("%q: token=%q problem=%q", c.header, token, problem)
		}
	}
}

func TestRoleGates(t *testing.T) {
	cases := []struct {
		name   string
		gate   func(http.Handler) http.Handler
		roleID int
		want   int
	}{
		{"admin passes admin", RequireAdmin, entity.RoleIDAdmin, http.StatusNoContent},
		{"receptionist blocked from admin", RequireAdmin, entity.RoleIDReceptionist, http.StatusForbidden},
		{"receptionist is front desk", RequireFrontDesk, entity.RoleIDReceptionist, http.StatusNoContent},
		{"doctor is not front desk", RequireFrontDesk, entity.RoleIDDoctor, http.StatusForbidden},
		{"nurse is staff", RequireStaff, entity.RoleIDNurse, http.StatusNoContent},
		{"patient is not staff", RequireStaff, entity.RoleIDPatient, http.StatusForbidden},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), RoleIDKey, c.roleID))
			rec := httptest.NewRecorder()
			c.gate(okHandler).ServeHTTP(rec, req)
			if rec.Code != c.want {
				t.Fatalf("status = %d, want %d", rec.Code, c.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	RequireStaff(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing role status = %d", rec.Code)
	}
}
