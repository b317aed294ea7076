package aggregate

// MemberReport is a human-oriented summary for one team member over a
// date range, with durations rendered as decimal hours.
type MemberReport struct {
	MemberID         string            `json:"member_id"`
	Period           string            `json:"period"`
	TotalTime        string            `json:"total_time"`
	TotalActiveHours string            `json:"total_active_hours"`
	TotalNotes       int               `json:"total_notes"`
	TotalWorkOrders  int               `json:"total_work_orders"`
	DetailedByDate   map[string]string `json:"detailed_by_date"`
}

// BuildReport renders a Summary as a MemberReport for the given member
// and period bounds (YYYY-MM-DD).
func BuildReport(memberID, startDate, endDate string, s Summary) MemberReport {
	byDate := make(map[string]string, len(s.ByDate))
	for date, millis := range s.ByDate {
		byDate[date] = Hours(millis) + " hours"
	}
	return MemberReport{
		MemberID:         memberID,
		Period:           startDate + " to " + endDate,
		TotalTime:        s.TotalTime,
		TotalActiveHours: Hours(s.TotalMillis),
		TotalNotes:       s.TotalNotes,
		TotalWorkOrders:  s.TotalWorkOrders,
		DetailedByDate:   byDate,
	}
}
