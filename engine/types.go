/*
Package engine implements the request lifecycle and policy validation core.

PURPOSE:
  This package contains the domain types and algorithms behind the employee
  self-service portal: the five request variants an employee can submit
  (leave, business trip, overtime, attendance regularization, letter request),
  the validation rules that decide whether a submission is well-formed, the
  derived quantities computed from it (leave days, overtime hours, lateness
  annotation), and the leave-credit balance aggregation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Request: A tagged union over the five request variants
  - EmployeeProfile: HR attributes consulted by the rules (read-only here)
  - Enumerations: FormType, Status, LeaveType, DayType, AttendanceCategory,
    LetterType, and the fixed COE template list

DESIGN PRINCIPLES:
  1. Explicit sum type: variant tag + one payload struct per variant,
     exhaustively matched in rules.go
  2. Derived fields (Days, Hours) are always recomputed at validation time,
     never accepted from the caller
  3. Precision: overtime hours use decimal.Decimal, rounded to 2 places
  4. Raw field values stay strings (dates "2006-01-02", clock times "15:04")
     so that unparseable input degrades the same way the intake forms do

SEE ALSO:
  - rules.go: Per-variant validation and derivation
  - balance.go: Leave-credit aggregation
  - lifecycle.go: Create / edit / delete orchestration
  - store.go: Collaborator store contracts
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE PROFILE - Owned by the credential store, read-only to the engine
// =============================================================================

type EmploymentType string

const (
	EmploymentRegular      EmploymentType = "Regular"
	EmploymentProbationary EmploymentType = "Probationary"
	EmploymentPartTime     EmploymentType = "Part-time"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type CivilStatus string

const (
	CivilSingle    CivilStatus = "Single"
	CivilMarried   CivilStatus = "Married"
	CivilWidowed   CivilStatus = "Widowed"
	CivilSeparated CivilStatus = "Separated"
	CivilAnnulled  CivilStatus = "Annulled"
)

// EmployeeProfile carries the HR attributes the rules consult: gender and the
// solo-parent flag gate leave-type availability, position gates the lateness
// marker. Username/password belong to the credential store contract.
type EmployeeProfile struct {
	Name           string         `json:"name"`
	EmploymentType EmploymentType `json:"employmentType"`
	Department     string         `json:"department"`
	Team           string         `json:"team"`
	Position       string         `json:"position"`
	Gender         Gender         `json:"gender"`
	CivilStatus    CivilStatus    `json:"civilStatus"`
	SoloParent     string         `json:"soloParent"` // "Yes" or "No"
	Username       string         `json:"username"`
	Password       string         `json:"password,omitempty"`
}

// =============================================================================
// REQUEST VARIANTS
// =============================================================================

type FormType string

const (
	FormLeave        FormType = "Leave Management"
	FormBusinessTrip FormType = "Official Business Trip"
	FormOvertime     FormType = "Overtime"
	FormAttendance   FormType = "Attendance Regularization"
	FormLetter       FormType = "Letter Request"
)

// FormTypes lists every request variant, in portal display order.
var FormTypes = []FormType{
	FormLeave,
	FormBusinessTrip,
	FormOvertime,
	FormAttendance,
	FormLetter,
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type LeaveType string

const (
	LeaveSick        LeaveType = "Sick Leave"
	LeaveVacation    LeaveType = "Vacation Leave"
	LeaveMaternity   LeaveType = "Maternity Leave"
	LeavePaternity   LeaveType = "Paternity Leave"
	LeaveBereavement LeaveType = "Bereavement Leave"
	LeaveWithoutPay  LeaveType = "Leave Without Pay"
	LeaveSoloParent  LeaveType = "Solo Parent Leave"
)

type DayType string

const (
	DayRegularWorkday           DayType = "Regular Workday"
	DayRestDay                  DayType = "Rest Day"
	DaySpecialNonWorkingHoliday DayType = "Special Non-Working Holiday"
	DayRegularHoliday           DayType = "Regular Holiday"
)

var DayTypes = []DayType{
	DayRegularWorkday,
	DayRestDay,
	DaySpecialNonWorkingHoliday,
	DayRegularHoliday,
}

type AttendanceCategory string

const (
	CategoryBranchVisit         AttendanceCategory = "Branch Visit"
	CategoryBusinessMeeting     AttendanceCategory = "Business Meeting"
	CategoryFieldWork           AttendanceCategory = "Field Work"
	CategorySchoolVisit         AttendanceCategory = "School Visit"
	CategorySeminar             AttendanceCategory = "Seminar"
	CategoryTraining            AttendanceCategory = "Training"
	CategoryTechnicalAssistance AttendanceCategory = "Technical Assistance"
	CategoryWorkFromHome        AttendanceCategory = "Work from Home"
)

var AttendanceCategories = []AttendanceCategory{
	CategoryBranchVisit,
	CategoryBusinessMeeting,
	CategoryFieldWork,
	CategorySchoolVisit,
	CategorySeminar,
	CategoryTraining,
	CategoryTechnicalAssistance,
	CategoryWorkFromHome,
}

type LetterType string

const (
	LetterBIR2316 LetterType = "BIR 2316"
	LetterCOE     LetterType = "Certificate of Employment (COE)"
)

var LetterTypes = []LetterType{LetterBIR2316, LetterCOE}

// COETemplates is the fixed template list a COE request must draw from.
var COETemplates = []string{
	"Pag-Ibig Multipurpose Loan",
	"Bank Loan/Housing",
	"Credit Card Application",
	"Travel Order",
	"Employee Reference (with or without compensation)",
	"Visa Application",
}

// =============================================================================
// REQUEST - Tagged union over the five variants
// =============================================================================

// Request is the persisted record. Exactly one payload pointer is non-nil and
// it matches Type. ID and CreatedAt are assigned once by the lifecycle
// controller and survive edits unchanged; Status starts at Pending and is only
// moved to Approved/Rejected by the external approval flow.
type Request struct {
	ID        string    `json:"id"`
	Type      FormType  `json:"type"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Remarks   string    `json:"remarks,omitempty"`

	Leave      *LeaveDetails        `json:"leave,omitempty"`
	Trip       *BusinessTripDetails `json:"trip,omitempty"`
	Overtime   *OvertimeDetails     `json:"overtime,omitempty"`
	Attendance *AttendanceDetails   `json:"attendance,omitempty"`
	Letter     *LetterDetails       `json:"letter,omitempty"`
}

// LeaveDetails holds a validated leave submission. Days is derived
// (inclusive calendar count), never caller-supplied.
type LeaveDetails struct {
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	LeaveType LeaveType `json:"leaveType"`
	Days      int       `json:"days"`
}

type BusinessTripDetails struct {
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	Purpose       string `json:"purpose"`
}

// OvertimeDetails holds a validated overtime submission. Hours is derived
// from the clock times with overnight wraparound, 2 decimal places.
type OvertimeDetails struct {
	Date    string          `json:"date"`
	TimeIn  string          `json:"timeIn"`
	TimeOut string          `json:"timeOut"`
	Hours   decimal.Decimal `json:"hours"`
	DayType DayType         `json:"dayType"`
}

type AttendanceDetails struct {
	Category AttendanceCategory `json:"category"`
	FromDate string             `json:"fromDate"`
	EndDate  string             `json:"endDate"`
	TimeIn   string             `json:"timeIn"`
	TimeOut  string             `json:"timeOut"`
}

type LetterDetails struct {
	LetterType   LetterType `json:"letterType"`
	TemplateName string     `json:"templateName,omitempty"`
	DateNeeded   string     `json:"dateNeeded"`
}
