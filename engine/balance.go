/*
balance.go - Leave-credit balance aggregation

PURPOSE:
  Computes the remaining credit per leave category by scanning the full
  request collection and subtracting consumed days from a fixed annual
  allotment. Recomputed from scratch on every call - there is no cached
  running balance, so the result is always consistent with the collection
  the caller passed in.

WHO CONSUMES CREDIT:
  Leave Management records whose leave type matches, whose status is Pending
  or Approved (Rejected records do not consume), and whose id differs from
  the record under edit (to avoid self-deduction on re-validation).
*/
package engine

// LeaveCredits maps the credited leave categories to their fixed annual
// allotments. Categories absent from this map (Maternity, Paternity,
// Bereavement, Leave Without Pay) are not balance-tracked.
var LeaveCredits = map[LeaveType]int{
	LeaveSick:       15,
	LeaveVacation:   15,
	LeaveSoloParent: 7,
}

// RemainingBalance returns the unconsumed credit for a tracked leave type,
// clamped at zero. excludeID names the record being edited so it does not
// count against itself. ok is false for untracked leave types.
func RemainingBalance(leaveType LeaveType, requests []Request, excludeID string) (remaining int, ok bool) {
	allotment, tracked := LeaveCredits[leaveType]
	if !tracked {
		return 0, false
	}

	used := 0
	for _, r := range requests {
		if r.Type != FormLeave || r.Leave == nil {
			continue
		}
		if r.ID == excludeID {
			continue
		}
		if r.Leave.LeaveType != leaveType {
			continue
		}
		if r.Status != StatusPending && r.Status != StatusApproved {
			continue
		}
		used += r.Leave.Days
	}

	remaining = allotment - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Balances returns the remaining credit for every tracked category.
func Balances(requests []Request, excludeID string) map[LeaveType]int {
	out := make(map[LeaveType]int, len(LeaveCredits))
	for leaveType := range LeaveCredits {
		remaining, _ := RemainingBalance(leaveType, requests, excludeID)
		out[leaveType] = remaining
	}
	return out
}
