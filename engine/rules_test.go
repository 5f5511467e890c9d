package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/employeecare/selfserve/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// testNow is the frozen clock every rule test runs against.
var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestRules() *engine.Rules {
	return &engine.Rules{Now: func() time.Time { return testNow }}
}

func femaleProfile() *engine.EmployeeProfile {
	return &engine.EmployeeProfile{
		Name:       "Maria Santos",
		Position:   "Software Engineer",
		Gender:     engine.GenderFemale,
		SoloParent: "No",
		Username:   "maria.santos",
	}
}

func maleSoloParentProfile() *engine.EmployeeProfile {
	return &engine.EmployeeProfile{
		Name:       "Jose Reyes",
		Position:   "QA Analyst",
		Gender:     engine.GenderMale,
		SoloParent: "Yes",
		Username:   "jose.reyes",
	}
}

func leaveInput(start, end string, leaveType engine.LeaveType) engine.Input {
	return engine.Input{
		Type: engine.FormLeave,
		Leave: &engine.LeaveInput{
			StartDate: start,
			EndDate:   end,
			LeaveType: leaveType,
		},
	}
}

// =============================================================================
// LEAVE MANAGEMENT
// =============================================================================

func TestLeave_MissingFields_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(leaveInput("", "2025-06-20", engine.LeaveVacation),
		engine.RuleContext{Profile: femaleProfile()})

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrMissingField)
}

func TestLeave_EndBeforeStart_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(leaveInput("2025-06-20", "2025-06-18", engine.LeaveVacation),
		engine.RuleContext{Profile: femaleProfile()})

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestLeave_DerivesInclusiveDays(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(leaveInput("2025-06-16", "2025-06-20", engine.LeaveVacation),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	require.NotNil(t, req.Leave)
	assert.Equal(t, 5, req.Leave.Days)
}

func TestLeave_InsufficientCredit_CarriesRemaining(t *testing.T) {
	// GIVEN: Existing pending vacation requests totaling 10 days
	// WHEN: Submitting a 6-day vacation request against the 15-day pool
	// THEN: Rejected with InsufficientCredit citing the remaining 5
	existing := []engine.Request{
		leaveRecord("r1", engine.LeaveVacation, 10, engine.StatusPending),
	}
	rules := newTestRules()

	_, err := rules.Validate(leaveInput("2025-06-16", "2025-06-21", engine.LeaveVacation),
		engine.RuleContext{Profile: femaleProfile(), Requests: existing})

	require.Error(t, err)
	var credErr *engine.InsufficientCreditError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, 5, credErr.Remaining)
	assert.Equal(t, 6, credErr.Requested)
	assert.Contains(t, credErr.Error(), "5 credits remaining")
}

func TestLeave_ExactRemainingCredit_Accepted(t *testing.T) {
	existing := []engine.Request{
		leaveRecord("r1", engine.LeaveVacation, 10, engine.StatusPending),
	}
	rules := newTestRules()

	req, err := rules.Validate(leaveInput("2025-06-16", "2025-06-20", engine.LeaveVacation),
		engine.RuleContext{Profile: femaleProfile(), Requests: existing})

	require.NoError(t, err)
	assert.Equal(t, 5, req.Leave.Days)
}

func TestLeave_UntrackedType_SkipsBalanceCheck(t *testing.T) {
	// Leave Without Pay has no credit pool; any length passes the balance rule.
	rules := newTestRules()

	req, err := rules.Validate(leaveInput("2025-06-16", "2025-07-31", engine.LeaveWithoutPay),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	assert.Equal(t, 46, req.Leave.Days)
}

func TestLeave_AvailabilityGatedByProfile(t *testing.T) {
	rules := newTestRules()

	// Paternity is not offered to a Female profile.
	_, err := rules.Validate(leaveInput("2025-06-16", "2025-06-17", engine.LeavePaternity),
		engine.RuleContext{Profile: femaleProfile()})
	assert.ErrorIs(t, err, engine.ErrLeaveTypeUnavailable)

	// Maternity is offered to a Female profile.
	_, err = rules.Validate(leaveInput("2025-06-16", "2025-06-17", engine.LeaveMaternity),
		engine.RuleContext{Profile: femaleProfile()})
	assert.NoError(t, err)

	// Solo Parent requires the flag.
	_, err = rules.Validate(leaveInput("2025-06-16", "2025-06-17", engine.LeaveSoloParent),
		engine.RuleContext{Profile: femaleProfile()})
	assert.ErrorIs(t, err, engine.ErrLeaveTypeUnavailable)

	_, err = rules.Validate(leaveInput("2025-06-16", "2025-06-17", engine.LeaveSoloParent),
		engine.RuleContext{Profile: maleSoloParentProfile()})
	assert.NoError(t, err)
}

func TestAvailableLeaveTypes(t *testing.T) {
	types := engine.AvailableLeaveTypes(maleSoloParentProfile())
	assert.ElementsMatch(t, []engine.LeaveType{
		engine.LeaveSick,
		engine.LeaveVacation,
		engine.LeaveWithoutPay,
		engine.LeavePaternity,
		engine.LeaveSoloParent,
	}, types)
}

// =============================================================================
// OFFICIAL BUSINESS TRIP
// =============================================================================

func tripInput(destination, dep, ret, purpose string) engine.Input {
	return engine.Input{
		Type: engine.FormBusinessTrip,
		Trip: &engine.BusinessTripInput{
			Destination:   destination,
			DepartureDate: dep,
			ReturnDate:    ret,
			Purpose:       purpose,
		},
	}
}

func TestBusinessTrip_Valid(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(tripInput("Makati Branch Office", "2025-06-20", "2025-06-22", "Quarterly audit"),
		engine.RuleContext{})

	require.NoError(t, err)
	require.NotNil(t, req.Trip)
	assert.Equal(t, "Makati Branch Office", req.Trip.Destination)
}

func TestBusinessTrip_MissingFields_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(tripInput("", "2025-06-20", "2025-06-22", "Audit"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrMissingField)
}

func TestBusinessTrip_DepartureAfterReturn_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(tripInput("Cebu", "2025-06-25", "2025-06-22", "Site visit"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestBusinessTrip_PurposeOverLimit_Rejected(t *testing.T) {
	long := make([]byte, 301)
	for i := range long {
		long[i] = 'x'
	}
	rules := newTestRules()

	_, err := rules.Validate(tripInput("Cebu", "2025-06-20", "2025-06-22", string(long)), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrLimitExceeded)
}

func TestBusinessTrip_PurposeAtLimit_Accepted(t *testing.T) {
	exact := make([]byte, 300)
	for i := range exact {
		exact[i] = 'x'
	}
	rules := newTestRules()

	_, err := rules.Validate(tripInput("Cebu", "2025-06-20", "2025-06-22", string(exact)), engine.RuleContext{})
	assert.NoError(t, err)
}

// =============================================================================
// OVERTIME
// =============================================================================

func overtimeInput(date, timeIn, timeOut, remarks string) engine.Input {
	return engine.Input{
		Type: engine.FormOvertime,
		Overtime: &engine.OvertimeInput{
			Date:    date,
			TimeIn:  timeIn,
			TimeOut: timeOut,
			DayType: engine.DayRegularWorkday,
			Remarks: remarks,
		},
	}
}

func TestOvertime_Valid_DerivesHours(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(overtimeInput("2025-06-14", "18:00", "21:30", "Month-end closing"),
		engine.RuleContext{})

	require.NoError(t, err)
	require.NotNil(t, req.Overtime)
	assert.Equal(t, "3.50", req.Overtime.Hours.StringFixed(2))
}

func TestOvertime_EmptyRemarks_Rejected(t *testing.T) {
	// Remarks is mandatory for overtime, regardless of valid times.
	rules := newTestRules()

	_, err := rules.Validate(overtimeInput("2025-06-14", "18:00", "21:00", "   "), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrMissingField)
}

func TestOvertime_RemarksTrimmedIntoRecord(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(overtimeInput("2025-06-14", "18:00", "21:00", "  deployment support  "),
		engine.RuleContext{})

	require.NoError(t, err)
	assert.Equal(t, "deployment support", req.Remarks)
}

func TestOvertime_EightDaysPast_Rejected(t *testing.T) {
	rules := newTestRules() // today is 2025-06-15

	_, err := rules.Validate(overtimeInput("2025-06-07", "18:00", "21:00", "Backfill"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestOvertime_ExactlySevenDaysPast_Accepted(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(overtimeInput("2025-06-08", "18:00", "21:00", "Backfill"), engine.RuleContext{})
	assert.NoError(t, err)
}

func TestOvertime_ZeroHours_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(overtimeInput("2025-06-14", "18:00", "18:00", "Typo in times"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrLimitExceeded)
}

func TestOvertime_OvernightShift_Accepted(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(overtimeInput("2025-06-14", "22:00", "02:00", "Release night"), engine.RuleContext{})
	require.NoError(t, err)
	assert.Equal(t, "4.00", req.Overtime.Hours.StringFixed(2))
}

// =============================================================================
// ATTENDANCE REGULARIZATION
// =============================================================================

func attendanceInput(category engine.AttendanceCategory, from, end, timeIn, timeOut, remarks string) engine.Input {
	return engine.Input{
		Type: engine.FormAttendance,
		Attendance: &engine.AttendanceInput{
			Category: category,
			FromDate: from,
			EndDate:  end,
			TimeIn:   timeIn,
			TimeOut:  timeOut,
			Remarks:  remarks,
		},
	}
}

func TestAttendance_MissingFields_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(attendanceInput(engine.CategoryFieldWork, "2025-06-14", "", "09:00", "18:00", ""),
		engine.RuleContext{Profile: femaleProfile()})
	assert.ErrorIs(t, err, engine.ErrMissingField)
}

func TestAttendance_EightDaysPast_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(attendanceInput(engine.CategoryFieldWork, "2025-06-07", "2025-06-07", "09:00", "18:00", ""),
		engine.RuleContext{Profile: femaleProfile()})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestAttendance_FromAfterEnd_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(attendanceInput(engine.CategoryFieldWork, "2025-06-14", "2025-06-12", "09:00", "18:00", ""),
		engine.RuleContext{Profile: femaleProfile()})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestAttendance_WorkFromHome_LateMarker(t *testing.T) {
	// GIVEN: A WFH entry with time-in 09:31 from a non-exempt position
	// WHEN: Validating
	// THEN: Remarks gains the [LATE] prefix
	rules := newTestRules()

	req, err := rules.Validate(attendanceInput(engine.CategoryWorkFromHome, "2025-06-13", "2025-06-13", "09:31", "18:00", "router outage"),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	assert.Equal(t, "[LATE] router outage", req.Remarks)
}

func TestAttendance_WorkFromHome_OnThreshold_NotLate(t *testing.T) {
	// 09:30 exactly is on time; only strictly later is late.
	rules := newTestRules()

	req, err := rules.Validate(attendanceInput(engine.CategoryWorkFromHome, "2025-06-13", "2025-06-13", "09:30", "18:00", "ok"),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	assert.Equal(t, "ok", req.Remarks)
}

func TestAttendance_WorkFromHome_ExemptPosition_NoMarker(t *testing.T) {
	profile := femaleProfile()
	profile.Position = "Team Leader"
	rules := newTestRules()

	req, err := rules.Validate(attendanceInput(engine.CategoryWorkFromHome, "2025-06-13", "2025-06-13", "09:31", "18:00", "standup ran long"),
		engine.RuleContext{Profile: profile})

	require.NoError(t, err)
	assert.Equal(t, "standup ran long", req.Remarks)
}

func TestAttendance_LateMarker_Idempotent(t *testing.T) {
	// Re-validating an already-marked record must not double-prefix.
	rules := newTestRules()

	req, err := rules.Validate(attendanceInput(engine.CategoryWorkFromHome, "2025-06-13", "2025-06-13", "09:45", "18:00", "[LATE] router outage"),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	assert.Equal(t, "[LATE] router outage", req.Remarks)
}

func TestAttendance_LateMarker_EmptyRemarks_Trimmed(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(attendanceInput(engine.CategoryWorkFromHome, "2025-06-13", "2025-06-13", "10:00", "18:00", ""),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	assert.Equal(t, "[LATE]", req.Remarks)
}

func TestAttendance_NonWFHCategory_NoLatenessCheck(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(attendanceInput(engine.CategorySeminar, "2025-06-13", "2025-06-13", "10:30", "18:00", "all-day seminar"),
		engine.RuleContext{Profile: femaleProfile()})

	require.NoError(t, err)
	assert.Equal(t, "all-day seminar", req.Remarks)
}

func TestIsExemptPosition_CaseInsensitiveSubstring(t *testing.T) {
	assert.True(t, engine.IsExemptPosition("assistant TEAM leader"))
	assert.True(t, engine.IsExemptPosition("Senior Engineering Manager"))
	assert.False(t, engine.IsExemptPosition("Software Engineer"))
}

// =============================================================================
// LETTER REQUEST
// =============================================================================

func letterInput(letterType engine.LetterType, template, dateNeeded string) engine.Input {
	return engine.Input{
		Type: engine.FormLetter,
		Letter: &engine.LetterInput{
			LetterType:   letterType,
			TemplateName: template,
			DateNeeded:   dateNeeded,
		},
	}
}

func TestLetter_BIR2316_NoTemplateNeeded(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(letterInput(engine.LetterBIR2316, "", "2025-06-20"), engine.RuleContext{})
	require.NoError(t, err)
	assert.Equal(t, engine.LetterBIR2316, req.Letter.LetterType)
}

func TestLetter_COEWithoutTemplate_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(letterInput(engine.LetterCOE, "", "2025-06-20"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrMissingDependentField)
}

func TestLetter_COEWithUnknownTemplate_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(letterInput(engine.LetterCOE, "Handwritten Note", "2025-06-20"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrMissingDependentField)
}

func TestLetter_COEWithTemplate_Accepted(t *testing.T) {
	rules := newTestRules()

	req, err := rules.Validate(letterInput(engine.LetterCOE, "Visa Application", "2025-06-20"), engine.RuleContext{})
	require.NoError(t, err)
	assert.Equal(t, "Visa Application", req.Letter.TemplateName)
}

func TestLetter_DateNeededInPast_Rejected(t *testing.T) {
	rules := newTestRules() // today is 2025-06-15

	_, err := rules.Validate(letterInput(engine.LetterBIR2316, "", "2025-06-14"), engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)
}

func TestLetter_DateNeededToday_Accepted(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(letterInput(engine.LetterBIR2316, "", "2025-06-15"), engine.RuleContext{})
	assert.NoError(t, err)
}

// =============================================================================
// DISPATCH
// =============================================================================

func TestValidate_MissingPayload_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(engine.Input{Type: engine.FormLeave}, engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrMissingField)
}

func TestValidate_UnknownType_Rejected(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(engine.Input{Type: "Expense Claim"}, engine.RuleContext{})
	assert.ErrorIs(t, err, engine.ErrMissingField)
}

func TestRuleErrors_AreClientRecoverable(t *testing.T) {
	rules := newTestRules()

	_, err := rules.Validate(letterInput(engine.LetterCOE, "", "2025-06-20"), engine.RuleContext{})
	require.Error(t, err)
	assert.True(t, engine.IsRuleError(err))
	assert.False(t, engine.IsRuleError(errors.New("disk on fire")))
}
