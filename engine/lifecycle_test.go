package engine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/employeecare/selfserve/engine"
	"github.com/employeecare/selfserve/engine/store"
)

// newTestController wires a controller against a fresh in-memory store with a
// frozen clock and sequential ids.
func newTestController() (*engine.Controller, *store.MemoryRequests) {
	requests := store.NewMemoryRequests()
	c := engine.NewController(requests)

	seq := 0
	c.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	c.Now = func() time.Time { return testNow }
	c.Rules = &engine.Rules{Now: func() time.Time { return testNow }}
	return c, requests
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_AssignsIdentityAndPendingStatus(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	req, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-18", engine.LeaveVacation), femaleProfile())

	require.NoError(t, err)
	assert.Equal(t, "id-1", req.ID)
	assert.Equal(t, engine.StatusPending, req.Status)
	assert.Equal(t, testNow, req.CreatedAt)
	assert.Equal(t, 3, req.Leave.Days)
}

func TestSubmit_PrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	_, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-16", engine.LeaveSick), femaleProfile())
	require.NoError(t, err)
	_, err = c.Submit(ctx, tripInput("Cebu", "2025-06-20", "2025-06-22", "Site visit"), femaleProfile())
	require.NoError(t, err)

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "id-2", all[0].ID)
	assert.Equal(t, "id-1", all[1].ID)
}

func TestSubmit_RuleFailure_PersistsNothing(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	_, err := c.Submit(ctx, leaveInput("2025-06-20", "2025-06-18", engine.LeaveVacation), femaleProfile())
	require.Error(t, err)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// =============================================================================
// EDIT
// =============================================================================

func TestEdit_PreservesIdentityCreatedAtAndStatus(t *testing.T) {
	// GIVEN: A pending leave request submitted moments ago
	// WHEN: Editing its dates
	// THEN: id, createdAt, and status survive; the payload is replaced
	ctx := context.Background()
	c, _ := newTestController()

	original, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-18", engine.LeaveVacation), femaleProfile())
	require.NoError(t, err)

	edited, err := c.Edit(ctx, original.ID, leaveInput("2025-06-17", "2025-06-19", engine.LeaveVacation), femaleProfile())
	require.NoError(t, err)

	assert.Equal(t, original.ID, edited.ID)
	assert.Equal(t, original.CreatedAt, edited.CreatedAt)
	assert.Equal(t, engine.StatusPending, edited.Status)
	assert.Equal(t, "2025-06-17", edited.Leave.StartDate)

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2025-06-17", all[0].Leave.StartDate)
}

func TestEdit_ExcludesRecordFromItsOwnBalance(t *testing.T) {
	// GIVEN: A 15-day vacation request consuming the full pool
	// WHEN: Editing it down to 10 days
	// THEN: The edit passes because the record does not count against itself
	ctx := context.Background()
	c, _ := newTestController()

	original, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-30", engine.LeaveVacation), femaleProfile())
	require.NoError(t, err)

	edited, err := c.Edit(ctx, original.ID, leaveInput("2025-06-16", "2025-06-25", engine.LeaveVacation), femaleProfile())
	require.NoError(t, err)
	assert.Equal(t, 10, edited.Leave.Days)
}

func TestEdit_UnknownID(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	_, err := c.Edit(ctx, "nope", leaveInput("2025-06-16", "2025-06-18", engine.LeaveVacation), femaleProfile())
	assert.ErrorIs(t, err, engine.ErrRequestNotFound)
}

func TestEdit_ApprovedRecord_NeverEditable(t *testing.T) {
	ctx := context.Background()
	c, requests := newTestController()

	record := leaveRecord("r1", engine.LeaveVacation, 3, engine.StatusApproved)
	record.CreatedAt = testNow.Add(-time.Minute)
	require.NoError(t, requests.SaveAll(ctx, []engine.Request{record}))

	_, err := c.Edit(ctx, "r1", leaveInput("2025-06-16", "2025-06-18", engine.LeaveVacation), femaleProfile())
	assert.ErrorIs(t, err, engine.ErrNotEditable)
}

func TestEdit_PendingPastWindow_Closed(t *testing.T) {
	ctx := context.Background()
	c, requests := newTestController()

	record := leaveRecord("r1", engine.LeaveVacation, 3, engine.StatusPending)
	record.CreatedAt = testNow.Add(-25 * time.Hour)
	require.NoError(t, requests.SaveAll(ctx, []engine.Request{record}))

	_, err := c.Edit(ctx, "r1", leaveInput("2025-06-16", "2025-06-18", engine.LeaveVacation), femaleProfile())
	assert.ErrorIs(t, err, engine.ErrNotEditable)
}

func TestEdit_PendingBusinessTrip_EditableAtAnyAge(t *testing.T) {
	// Pending business trips stay editable past the 24-hour window.
	ctx := context.Background()
	c, requests := newTestController()

	record := engine.Request{
		ID:        "t1",
		Type:      engine.FormBusinessTrip,
		Status:    engine.StatusPending,
		CreatedAt: testNow.Add(-48 * time.Hour),
		Trip: &engine.BusinessTripDetails{
			Destination:   "Davao",
			DepartureDate: "2025-06-20",
			ReturnDate:    "2025-06-21",
			Purpose:       "Client onboarding",
		},
	}
	require.NoError(t, requests.SaveAll(ctx, []engine.Request{record}))

	edited, err := c.Edit(ctx, "t1", tripInput("Davao", "2025-06-21", "2025-06-23", "Client onboarding"), femaleProfile())
	require.NoError(t, err)
	assert.Equal(t, "2025-06-21", edited.Trip.DepartureDate)
}

func TestEdit_RuleFailure_LeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	original, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-18", engine.LeaveVacation), femaleProfile())
	require.NoError(t, err)

	_, err = c.Edit(ctx, original.ID, leaveInput("2025-06-20", "2025-06-18", engine.LeaveVacation), femaleProfile())
	require.Error(t, err)

	current, err := c.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", current.Leave.StartDate)
}

// =============================================================================
// DELETE
// =============================================================================

func TestDelete_RemovesRegardlessOfStatusOrAge(t *testing.T) {
	ctx := context.Background()
	c, requests := newTestController()

	record := leaveRecord("r1", engine.LeaveVacation, 3, engine.StatusApproved)
	record.CreatedAt = testNow.Add(-72 * time.Hour)
	require.NoError(t, requests.SaveAll(ctx, []engine.Request{record}))

	require.NoError(t, c.Delete(ctx, "r1"))

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDelete_UnknownID_IsNoOp(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	_, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-16", engine.LeaveSick), femaleProfile())
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, "ghost"))

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// =============================================================================
// GET
// =============================================================================

func TestGet_ByID(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestController()

	submitted, err := c.Submit(ctx, leaveInput("2025-06-16", "2025-06-16", engine.LeaveSick), femaleProfile())
	require.NoError(t, err)

	found, err := c.Get(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, submitted.ID, found.ID)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, engine.ErrRequestNotFound)
}
