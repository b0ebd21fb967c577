package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const dayLayout = "2006-01-02"

var errInvalidDate = errors.New("dates must use the YYYY-MM-DD format")

// decodeJSON reads and validates the request body, writing the 400
// response itself when either step fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name, nil)
		return nil, false
	}
	return &id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return uuid.Nil, false
	}
	return userID, true
}

// dateRange reads the optional from and to query dates. Both are whole days
// in loc and to is inclusive, so the returned end is the start of the next day.
func dateRange(r *http.Request, loc *time.Location) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if value := r.URL.Query().Get("from"); value != "" {
		day, err := time.ParseInLocation(dayLayout, value, loc)
		if err != nil {
			return nil, nil, errInvalidDate
		}
		from = &day
	}
	if value := r.URL.Query().Get("to"); value != "" {
		day, err := time.ParseInLocation(dayLayout, value, loc)
		if err != nil {
			return nil, nil, errInvalidDate
		}
		end := day.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, nil
}

// serverError writes a 500 carrying the underlying error text.
func serverError(w http.ResponseWriter, message string, err error) {
	response.Error(w, http.StatusInternalServerError, message, err.Error())
}
