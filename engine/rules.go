/*
rules.go - Per-variant policy rule set

PURPOSE:
  One pure validation function per request variant. Each takes the raw form
  fields plus a context (the acting profile and, for leave, the existing
  collection) and returns either a validated Request body or a rule error.
  Derived fields (leave days, overtime hours, the lateness marker) are
  computed here and only here.

RULE SUMMARY:
  Leave       required dates+type; date order (checked both directions, as
              the forms do); type offered to this profile; credit balance
              for Sick/Vacation/Solo Parent
  Trip        required fields; departure/return order (both directions);
              purpose capped at 300 characters
  Overtime    required fields; remarks mandatory; date at most 7 whole days
              in the past; computed hours must be positive
  Attendance  required fields; 7-day backfill window; from/end order;
              Work-from-Home lateness marker past 09:30 for non-exempt titles
  Letter      required type+date; COE additionally requires a template from
              the fixed list; date needed must not be in the past

NO SIDE EFFECTS:
  A rule never throws, never persists, never mutates its inputs. The returned
  Request carries no identity or timestamp - the lifecycle controller assigns
  those.

SEE ALSO:
  - temporal.go: DaysBetween / HoursBetween / the 7-day window helper
  - balance.go:  RemainingBalance
  - lifecycle.go: The only caller
*/
package engine

import (
	"strings"
	"time"
)

// =============================================================================
// RAW INPUT - One struct per variant, all fields as the forms submit them
// =============================================================================

type LeaveInput struct {
	StartDate string
	EndDate   string
	LeaveType LeaveType
	Remarks   string
}

type BusinessTripInput struct {
	Destination   string
	DepartureDate string
	ReturnDate    string
	Purpose       string
	Remarks       string
}

type OvertimeInput struct {
	Date    string
	TimeIn  string
	TimeOut string
	DayType DayType
	Remarks string
}

type AttendanceInput struct {
	Category AttendanceCategory
	FromDate string
	EndDate  string
	TimeIn   string
	TimeOut  string
	Remarks  string
}

type LetterInput struct {
	LetterType   LetterType
	TemplateName string
	DateNeeded   string
	Remarks      string
}

// Input is the tagged union over the five raw-field shapes. Exactly one
// payload pointer should be set, matching Type.
type Input struct {
	Type       FormType
	Leave      *LeaveInput
	Trip       *BusinessTripInput
	Overtime   *OvertimeInput
	Attendance *AttendanceInput
	Letter     *LetterInput
}

// RuleContext supplies what the rules read besides the raw fields.
type RuleContext struct {
	// Profile of the submitting employee. Leave and attendance rules consult
	// gender, the solo-parent flag, and the position text.
	Profile *EmployeeProfile

	// Requests is the existing collection, used only by the leave balance
	// check.
	Requests []Request

	// ExcludeID names the record under edit so it is not counted against its
	// own balance. Empty on first submission.
	ExcludeID string
}

// =============================================================================
// RULES - The rule set with an injectable clock
// =============================================================================

// Rules evaluates submissions. Now is injectable for tests and defaults to
// time.Now.
type Rules struct {
	Now func() time.Time
}

func NewRules() *Rules {
	return &Rules{Now: time.Now}
}

func (rs *Rules) now() time.Time {
	if rs.Now != nil {
		return rs.Now()
	}
	return time.Now()
}

// Validate dispatches to the applicable per-variant rule. The returned
// Request has Type, payload, and Remarks populated; identity, status, and
// timestamp are left for the lifecycle controller.
func (rs *Rules) Validate(in Input, rc RuleContext) (*Request, error) {
	switch in.Type {
	case FormLeave:
		if in.Leave == nil {
			return nil, missing("leave", "Leave fields are missing.")
		}
		return rs.validateLeave(*in.Leave, rc)
	case FormBusinessTrip:
		if in.Trip == nil {
			return nil, missing("trip", "Business trip fields are missing.")
		}
		return rs.validateBusinessTrip(*in.Trip)
	case FormOvertime:
		if in.Overtime == nil {
			return nil, missing("overtime", "Overtime fields are missing.")
		}
		return rs.validateOvertime(*in.Overtime)
	case FormAttendance:
		if in.Attendance == nil {
			return nil, missing("attendance", "Attendance fields are missing.")
		}
		return rs.validateAttendance(*in.Attendance, rc)
	case FormLetter:
		if in.Letter == nil {
			return nil, missing("letter", "Letter request fields are missing.")
		}
		return rs.validateLetter(*in.Letter)
	default:
		return nil, missing("type", "Unknown request type.")
	}
}

// =============================================================================
// LEAVE MANAGEMENT
// =============================================================================

// AvailableLeaveTypes returns the leave types offered to a profile:
// Sick/Vacation/Leave-Without-Pay always, Paternity for Male, Maternity for
// Female, Solo Parent when the flag is Yes.
func AvailableLeaveTypes(profile *EmployeeProfile) []LeaveType {
	types := []LeaveType{LeaveSick, LeaveVacation, LeaveWithoutPay}
	if profile == nil {
		return types
	}
	if profile.Gender == GenderMale {
		types = append(types, LeavePaternity)
	}
	if profile.Gender == GenderFemale {
		types = append(types, LeaveMaternity)
	}
	if profile.SoloParent == "Yes" {
		types = append(types, LeaveSoloParent)
	}
	return types
}

func (rs *Rules) validateLeave(in LeaveInput, rc RuleContext) (*Request, error) {
	if in.StartDate == "" || in.EndDate == "" || in.LeaveType == "" {
		return nil, missing("startDate", "Required fields are missing. Please provide dates and leave type.")
	}

	offered := false
	for _, t := range AvailableLeaveTypes(rc.Profile) {
		if t == in.LeaveType {
			offered = true
			break
		}
	}
	if !offered {
		return nil, &RuleError{
			Kind:    ErrLeaveTypeUnavailable,
			Field:   "leaveType",
			Message: string(in.LeaveType) + " is not available for your profile.",
		}
	}

	// The date order is checked in both directions, mirroring the intake
	// form. The checks are equivalent for parseable dates; both are kept so
	// behavior around unparseable input stays identical.
	start, errS := time.Parse(DateLayout, in.StartDate)
	end, errE := time.Parse(DateLayout, in.EndDate)
	if errS == nil && errE == nil {
		if end.Before(start) {
			return nil, invalidRange("endDate", "Submission failed: The End Date cannot be earlier than the Start Date.")
		}
		if start.After(end) {
			return nil, invalidRange("startDate", "Submission failed: The Start Date cannot be after the End Date.")
		}
	}

	days := DaysBetween(in.StartDate, in.EndDate)

	if remaining, tracked := RemainingBalance(in.LeaveType, rc.Requests, rc.ExcludeID); tracked {
		if days > remaining {
			return nil, &InsufficientCreditError{
				LeaveType: in.LeaveType,
				Remaining: remaining,
				Requested: days,
			}
		}
	}

	return &Request{
		Type:    FormLeave,
		Remarks: in.Remarks,
		Leave: &LeaveDetails{
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			LeaveType: in.LeaveType,
			Days:      days,
		},
	}, nil
}

// =============================================================================
// OFFICIAL BUSINESS TRIP
// =============================================================================

const purposeMaxLength = 300

func (rs *Rules) validateBusinessTrip(in BusinessTripInput) (*Request, error) {
	if in.Destination == "" || in.DepartureDate == "" || in.ReturnDate == "" || in.Purpose == "" {
		return nil, missing("destination", "Please fill in all required fields marked with an asterisk (*).")
	}

	dep, errD := time.Parse(DateLayout, in.DepartureDate)
	ret, errR := time.Parse(DateLayout, in.ReturnDate)
	if errD == nil && errR == nil {
		if dep.After(ret) {
			return nil, invalidRange("departureDate", "Departure Date must not be later than the Return Date.")
		}
		if ret.Before(dep) {
			return nil, invalidRange("returnDate", "Return Date must not be earlier than the Departure Date.")
		}
	}

	if len(in.Purpose) > purposeMaxLength {
		return nil, limitExceeded("purpose", "Purpose must not exceed 300 characters.")
	}

	return &Request{
		Type:    FormBusinessTrip,
		Remarks: in.Remarks,
		Trip: &BusinessTripDetails{
			Destination:   in.Destination,
			DepartureDate: in.DepartureDate,
			ReturnDate:    in.ReturnDate,
			Purpose:       in.Purpose,
		},
	}, nil
}

// =============================================================================
// OVERTIME
// =============================================================================

const backfillWindowDays = 7

func (rs *Rules) validateOvertime(in OvertimeInput) (*Request, error) {
	if in.Date == "" || in.TimeIn == "" || in.TimeOut == "" {
		return nil, missing("date", "Please fill in all required time and date fields (*).")
	}

	// Remarks is mandatory here, unlike the other variants.
	remarks := strings.TrimSpace(in.Remarks)
	if remarks == "" {
		return nil, missing("remarks", "The Remarks field is required. Please provide a reason for the overtime work.")
	}

	if past, ok := wholeDaysBefore(in.Date, rs.now()); ok && past > backfillWindowDays {
		return nil, invalidRange("date", "Overtime entries cannot be submitted for dates more than 7 days in the past.")
	}

	hours := HoursBetween(in.TimeIn, in.TimeOut)
	if !hours.IsPositive() {
		return nil, limitExceeded("hours", "Total OT Hours must be greater than 0. Please check your Time In and Time Out.")
	}

	return &Request{
		Type:    FormOvertime,
		Remarks: remarks,
		Overtime: &OvertimeDetails{
			Date:    in.Date,
			TimeIn:  in.TimeIn,
			TimeOut: in.TimeOut,
			Hours:   hours,
			DayType: in.DayType,
		},
	}, nil
}

// =============================================================================
// ATTENDANCE REGULARIZATION
// =============================================================================

// lateMarker is prefixed onto remarks for late Work-from-Home entries.
const lateMarker = "[LATE]"

// lateThresholdMinutes is 09:30 in minutes since midnight; a time-in
// strictly after this is late.
const lateThresholdMinutes = 9*60 + 30

// exemptTitles are matched case-insensitively as substrings of the
// profile's position text.
var exemptTitles = []string{
	"Executive",
	"Manager",
	"Supervisor",
	"Team Leader",
	"Assistant Team Leader",
}

// IsExemptPosition reports whether a position is exempt from the
// Work-from-Home lateness marker.
func IsExemptPosition(position string) bool {
	lower := strings.ToLower(position)
	for _, title := range exemptTitles {
		if strings.Contains(lower, strings.ToLower(title)) {
			return true
		}
	}
	return false
}

func (rs *Rules) validateAttendance(in AttendanceInput, rc RuleContext) (*Request, error) {
	if in.Category == "" || in.FromDate == "" || in.EndDate == "" || in.TimeIn == "" || in.TimeOut == "" {
		return nil, missing("fromDate", "Please fill in all required date and time fields (*).")
	}

	if past, ok := wholeDaysBefore(in.FromDate, rs.now()); ok && past > backfillWindowDays {
		return nil, invalidRange("fromDate", "Attendance entries cannot be submitted for dates more than 7 days in the past.")
	}

	from, errF := time.Parse(DateLayout, in.FromDate)
	end, errE := time.Parse(DateLayout, in.EndDate)
	if errF == nil && errE == nil && from.After(end) {
		return nil, invalidRange("fromDate", "The 'From Date' must not be later than the 'End Date'.")
	}

	remarks := in.Remarks
	if in.Category == CategoryWorkFromHome {
		exempt := rc.Profile != nil && IsExemptPosition(rc.Profile.Position)
		if minutes, ok := clockMinutes(in.TimeIn); ok && minutes > lateThresholdMinutes && !exempt {
			// Idempotent: re-validating an already-marked record must not
			// double-prefix.
			if !strings.Contains(remarks, lateMarker) {
				remarks = strings.TrimSpace(lateMarker + " " + remarks)
			}
		}
	}

	return &Request{
		Type:    FormAttendance,
		Remarks: remarks,
		Attendance: &AttendanceDetails{
			Category: in.Category,
			FromDate: in.FromDate,
			EndDate:  in.EndDate,
			TimeIn:   in.TimeIn,
			TimeOut:  in.TimeOut,
		},
	}, nil
}

// =============================================================================
// LETTER REQUEST
// =============================================================================

func (rs *Rules) validateLetter(in LetterInput) (*Request, error) {
	if in.LetterType == "" || in.DateNeeded == "" {
		return nil, missing("letterType", "Letter type and date needed are required.")
	}

	if in.LetterType == LetterCOE {
		if in.TemplateName == "" {
			return nil, &RuleError{
				Kind:    ErrMissingDependentField,
				Field:   "templateName",
				Message: "Please select a template name for your COE request.",
			}
		}
		known := false
		for _, t := range COETemplates {
			if t == in.TemplateName {
				known = true
				break
			}
		}
		if !known {
			return nil, &RuleError{
				Kind:    ErrMissingDependentField,
				Field:   "templateName",
				Message: "Please select a template name from the COE template list.",
			}
		}
	}

	if needed, err := time.Parse(DateLayout, in.DateNeeded); err == nil {
		// The parsed date is midnight UTC; compare against today's date in UTC.
		now := rs.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if needed.Before(today) {
			return nil, invalidRange("dateNeeded", "The 'Date Needed' cannot be in the past. Please select today or a future date.")
		}
	}

	return &Request{
		Type:    FormLetter,
		Remarks: in.Remarks,
		Letter: &LetterDetails{
			LetterType:   in.LetterType,
			TemplateName: in.TemplateName,
			DateNeeded:   in.DateNeeded,
		},
	}, nil
}
