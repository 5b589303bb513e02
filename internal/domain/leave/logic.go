package leave

import "time"

// WorkingDays counts Monday-to-Friday days in the inclusive range. Public
// holidays are not modelled here; the balance arithmetic that would need
// them lives outside this service.
func WorkingDays(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			days++
		}
	}
	return days
}

func ValidType(leaveType string) bool {
	for _, t := range LeaveTypes {
		if t == leaveType {
			return true
		}
	}
	return false
}
