/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (required fields, ranges, balances) lives in the
  engine's rule set; DTOs are pure data carriers. Handlers only map shapes.
*/
package api

import "github.com/employeecare/selfserve/engine"

// =============================================================================
// AUTH
// =============================================================================

type SignUpRequest struct {
	Name            string `json:"name"`
	EmploymentType  string `json:"employment_type"`
	Department      string `json:"department"`
	Team            string `json:"team"`
	Position        string `json:"position"`
	Gender          string `json:"gender"`
	CivilStatus     string `json:"civil_status"`
	SoloParent      string `json:"solo_parent"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LogInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Username           string `json:"username"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type SessionDTO struct {
	Token   string     `json:"token"`
	Profile ProfileDTO `json:"profile"`
}

type ProfileDTO struct {
	Name           string `json:"name"`
	EmploymentType string `json:"employment_type"`
	Department     string `json:"department"`
	Team           string `json:"team"`
	Position       string `json:"position"`
	Gender         string `json:"gender"`
	CivilStatus    string `json:"civil_status"`
	SoloParent     string `json:"solo_parent"`
	Username       string `json:"username"`
}

func toProfileDTO(p engine.EmployeeProfile) ProfileDTO {
	return ProfileDTO{
		Name:           p.Name,
		EmploymentType: string(p.EmploymentType),
		Department:     p.Department,
		Team:           p.Team,
		Position:       p.Position,
		Gender:         string(p.Gender),
		CivilStatus:    string(p.CivilStatus),
		SoloParent:     p.SoloParent,
		Username:       p.Username,
	}
}

// =============================================================================
// REQUESTS
// =============================================================================

// SubmitRequestRequest carries the raw form fields for any variant; the
// type tag selects which block is read.
type SubmitRequestRequest struct {
	Type    string `json:"type"`
	Remarks string `json:"remarks,omitempty"`

	// Leave Management
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	LeaveType string `json:"leave_type,omitempty"`

	// Official Business Trip
	Destination   string `json:"destination,omitempty"`
	DepartureDate string `json:"departure_date,omitempty"`
	ReturnDate    string `json:"return_date,omitempty"`
	Purpose       string `json:"purpose,omitempty"`

	// Overtime / Attendance Regularization
	Date     string `json:"date,omitempty"`
	TimeIn   string `json:"time_in,omitempty"`
	TimeOut  string `json:"time_out,omitempty"`
	DayType  string `json:"day_type,omitempty"`
	Category string `json:"category,omitempty"`
	FromDate string `json:"from_date,omitempty"`

	// Letter Request
	LetterType   string `json:"letter_type,omitempty"`
	TemplateName string `json:"template_name,omitempty"`
	DateNeeded   string `json:"date_needed,omitempty"`
}

// RequestDTO is the flattened view of a request record.
type RequestDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	Remarks   string `json:"remarks,omitempty"`
	Editable  bool   `json:"editable"`

	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	LeaveType string `json:"leave_type,omitempty"`
	Days      int    `json:"days,omitempty"`

	Destination   string `json:"destination,omitempty"`
	DepartureDate string `json:"departure_date,omitempty"`
	ReturnDate    string `json:"return_date,omitempty"`
	Purpose       string `json:"purpose,omitempty"`

	Date    string `json:"date,omitempty"`
	TimeIn  string `json:"time_in,omitempty"`
	TimeOut string `json:"time_out,omitempty"`
	Hours   string `json:"hours,omitempty"`
	DayType string `json:"day_type,omitempty"`

	Category string `json:"category,omitempty"`
	FromDate string `json:"from_date,omitempty"`

	LetterType   string `json:"letter_type,omitempty"`
	TemplateName string `json:"template_name,omitempty"`
	DateNeeded   string `json:"date_needed,omitempty"`
}

// =============================================================================
// BALANCES / CATALOGS
// =============================================================================

type BalanceDTO struct {
	LeaveType string `json:"leave_type"`
	Allotment int    `json:"allotment"`
	Remaining int    `json:"remaining"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
