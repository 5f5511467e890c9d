/*
handlers.go - HTTP API handlers for the self-service portal

PURPOSE:
  Exposes the request engine via REST. Handles HTTP request/response and
  JSON mapping, then delegates to the engine and the account service.

ENDPOINTS:
  Auth:
    POST   /api/auth/signup         Register a profile
    POST   /api/auth/login          Exchange credentials for a token
    POST   /api/auth/reset-password Reset by username

  Requests (authenticated):
    GET    /api/requests            History, newest first
    POST   /api/requests            Submit a new request
    PUT    /api/requests/{id}       Edit within the mutability rules
    DELETE /api/requests/{id}       Remove by id (unconditional)
    GET    /api/requests/{id}/letter Download the rendered letter PDF

  Catalogs (authenticated):
    GET    /api/balances            Remaining credit per tracked pool
    GET    /api/leave-types         Leave types offered to this profile
    GET    /api/letter-templates    Fixed COE template list

ERROR HANDLING:
  - 400: rule failures (the display string from the rule error)
  - 401: missing/invalid token, bad credentials
  - 403: edit outside the mutability rules
  - 404: unknown request id
  - 409: signup conflicts (username taken)
  - 500: store failures

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/employeecare/selfserve/account"
	"github.com/employeecare/selfserve/engine"
	"github.com/employeecare/selfserve/letters"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Controller *engine.Controller
	Accounts   *account.Service
	Profiles   engine.ProfileStore
	JWTSecret  string
	TokenTTL   time.Duration
}

func NewHandler(controller *engine.Controller, accounts *account.Service, profiles engine.ProfileStore, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{
		Controller: controller,
		Accounts:   accounts,
		Profiles:   profiles,
		JWTSecret:  jwtSecret,
		TokenTTL:   tokenTTL,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// SignUp registers a new profile.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile := engine.EmployeeProfile{
		Name:           req.Name,
		EmploymentType: engine.EmploymentType(req.EmploymentType),
		Department:     req.Department,
		Team:           req.Team,
		Position:       req.Position,
		Gender:         engine.Gender(req.Gender),
		CivilStatus:    engine.CivilStatus(req.CivilStatus),
		SoloParent:     req.SoloParent,
		Username:       req.Username,
		Password:       req.Password,
	}

	err := h.Accounts.SignUp(r.Context(), profile, req.ConfirmPassword)
	switch {
	case errors.Is(err, account.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "This username is already taken. Please choose a unique username.", nil)
	case errors.Is(err, account.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, "Passwords do not match. Please ensure both password fields are identical.", nil)
	case errors.Is(err, account.ErrFieldsRequired):
		writeError(w, http.StatusBadRequest, "All fields are required.", nil)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to create account", err)
	default:
		writeJSON(w, http.StatusCreated, toProfileDTO(profile))
	}
}

// LogIn verifies credentials and issues a session token.
func (h *Handler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req LogInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile, err := h.Accounts.LogIn(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) || errors.Is(err, account.ErrFieldsRequired) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password. Please verify your credentials.", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	token, err := GenerateToken(h.JWTSecret, profile.Username, h.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, SessionDTO{Token: token, Profile: toProfileDTO(*profile)})
}

// ResetPassword sets a new password for an existing username.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Accounts.ResetPassword(r.Context(), req.Username, req.NewPassword, req.ConfirmNewPassword)
	switch {
	case errors.Is(err, account.ErrUnknownUsername):
		writeError(w, http.StatusNotFound, "Username not found.", nil)
	case errors.Is(err, account.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, "Passwords do not match.", nil)
	case errors.Is(err, account.ErrFieldsRequired):
		writeError(w, http.StatusBadRequest, "All fields are required.", nil)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to reset password", err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
	}
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// ListRequests returns the history, newest first.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Controller.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}

	dtos := make([]RequestDTO, len(requests))
	for i, req := range requests {
		dtos[i] = h.toRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitRequest validates and persists a new request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	created, err := h.Controller.Submit(r.Context(), input, profileFrom(r.Context()))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toRequestDTO(*created))
}

// EditRequest re-validates an existing record under its original identity.
func (h *Handler) EditRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	updated, err := h.Controller.Edit(r.Context(), id, input, profileFrom(r.Context()))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRequestDTO(*updated))
}

// DeleteRequest removes a record by id. Unconditional by design; see
// DESIGN.md on the delete/edit gating asymmetry.
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Controller.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadLetter renders a letter request as a PDF.
func (h *Handler) DownloadLetter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.Controller.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, engine.ErrRequestNotFound) {
			writeError(w, http.StatusNotFound, "Request not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load request", err)
		return
	}

	profile := profileFrom(r.Context())
	pdf, err := letters.Render(*profile, *req, time.Now())
	if err != nil {
		if errors.Is(err, letters.ErrNotLetterRequest) {
			writeError(w, http.StatusBadRequest, "Not a letter request", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to render letter", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "letter-"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// GetBalances returns the remaining credit for every tracked pool, computed
// fresh from the current collection.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Controller.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load requests", err)
		return
	}

	excludeID := r.URL.Query().Get("exclude_id")
	balances := engine.Balances(requests, excludeID)

	dtos := make([]BalanceDTO, 0, len(balances))
	for _, leaveType := range []engine.LeaveType{engine.LeaveSick, engine.LeaveVacation, engine.LeaveSoloParent} {
		dtos = append(dtos, BalanceDTO{
			LeaveType: string(leaveType),
			Allotment: engine.LeaveCredits[leaveType],
			Remaining: balances[leaveType],
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListLeaveTypes returns the leave types offered to the acting profile.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types := engine.AvailableLeaveTypes(profileFrom(r.Context()))
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// ListLetterTemplates returns the fixed COE template list.
func (h *Handler) ListLetterTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.COETemplates)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (engine.Input, bool) {
	var req SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return engine.Input{}, false
	}

	input := engine.Input{Type: engine.FormType(req.Type)}
	switch input.Type {
	case engine.FormLeave:
		input.Leave = &engine.LeaveInput{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			LeaveType: engine.LeaveType(req.LeaveType),
			Remarks:   req.Remarks,
		}
	case engine.FormBusinessTrip:
		input.Trip = &engine.BusinessTripInput{
			Destination:   req.Destination,
			DepartureDate: req.DepartureDate,
			ReturnDate:    req.ReturnDate,
			Purpose:       req.Purpose,
			Remarks:       req.Remarks,
		}
	case engine.FormOvertime:
		input.Overtime = &engine.OvertimeInput{
			Date:    req.Date,
			TimeIn:  req.TimeIn,
			TimeOut: req.TimeOut,
			DayType: engine.DayType(req.DayType),
			Remarks: req.Remarks,
		}
	case engine.FormAttendance:
		input.Attendance = &engine.AttendanceInput{
			Category: engine.AttendanceCategory(req.Category),
			FromDate: req.FromDate,
			EndDate:  req.EndDate,
			TimeIn:   req.TimeIn,
			TimeOut:  req.TimeOut,
			Remarks:  req.Remarks,
		}
	case engine.FormLetter:
		input.Letter = &engine.LetterInput{
			LetterType:   engine.LetterType(req.LetterType),
			TemplateName: req.TemplateName,
			DateNeeded:   req.DateNeeded,
			Remarks:      req.Remarks,
		}
	default:
		writeError(w, http.StatusBadRequest, "Unknown request type", nil)
		return engine.Input{}, false
	}
	return input, true
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsRuleError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, engine.ErrNotEditable):
		writeError(w, http.StatusForbidden, "This request is no longer editable.", nil)
	case errors.Is(err, engine.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "Request not found", nil)
	default:
		writeError(w, http.StatusInternalServerError, "Request failed", err)
	}
}

func (h *Handler) toRequestDTO(r engine.Request) RequestDTO {
	dto := RequestDTO{
		ID:        r.ID,
		Type:      string(r.Type),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		Remarks:   r.Remarks,
		Editable:  h.Controller.Editable(r),
	}

	switch {
	case r.Leave != nil:
		dto.StartDate = r.Leave.StartDate
		dto.EndDate = r.Leave.EndDate
		dto.LeaveType = string(r.Leave.LeaveType)
		dto.Days = r.Leave.Days
	case r.Trip != nil:
		dto.Destination = r.Trip.Destination
		dto.DepartureDate = r.Trip.DepartureDate
		dto.ReturnDate = r.Trip.ReturnDate
		dto.Purpose = r.Trip.Purpose
	case r.Overtime != nil:
		dto.Date = r.Overtime.Date
		dto.TimeIn = r.Overtime.TimeIn
		dto.TimeOut = r.Overtime.TimeOut
		dto.Hours = r.Overtime.Hours.StringFixed(2)
		dto.DayType = string(r.Overtime.DayType)
	case r.Attendance != nil:
		dto.Category = string(r.Attendance.Category)
		dto.FromDate = r.Attendance.FromDate
		dto.EndDate = r.Attendance.EndDate
		dto.TimeIn = r.Attendance.TimeIn
		dto.TimeOut = r.Attendance.TimeOut
	case r.Letter != nil:
		dto.LetterType = string(r.Letter.LetterType)
		dto.TemplateName = r.Letter.TemplateName
		dto.DateNeeded = r.Letter.DateNeeded
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
