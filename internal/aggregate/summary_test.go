package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := ParseTimestamp(value)
	require.NoError(t, err)
	return ts
}

func TestSummarizeEndToEnd(t *testing.T) {
	intervals := []Interval{
		{
			Start:         mustParse(t, "2024-01-01T09:00:00"),
			End:           mustParse(t, "2024-01-01T10:30:00"),
			WorkOrderID:   "id1",
			WorkOrderCode: "WO1",
		},
		{
			Start: mustParse(t, "2024-01-01T11:00:00"),
			End:   mustParse(t, "2024-01-01T11:15:00"),
		},
	}

	s := Summarize(intervals, 3)

	assert.Equal(t, "01:45:00", s.TotalTime)
	assert.Equal(t, 3, s.TotalNotes)
	assert.Equal(t, 1, s.TotalWorkOrders)
	assert.Equal(t, int64(6300000), s.ByDate["2024-01-01"])
	assert.Equal(t, []string{"WO1|01:30:00|id1"}, s.WorkOrdersByDate["2024-01-01"])
	assert.Zero(t, s.OutOfOrder)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0)

	assert.Equal(t, "00:00:00", s.TotalTime)
	assert.Zero(t, s.TotalNotes)
	assert.Zero(t, s.TotalWorkOrders)
	assert.Empty(t, s.ByDate)
	assert.Empty(t, s.WorkOrdersByDate)
}

func TestSummarizeBucketsByStartDate(t *testing.T) {
	// Interval crossing midnight counts entirely on its start date.
	intervals := []Interval{
		{
			Start: mustParse(t, "2024-01-01T23:00:00"),
			End:   mustParse(t, "2024-01-02T01:00:00"),
		},
	}

	s := Summarize(intervals, 0)

	assert.Equal(t, int64(7200000), s.ByDate["2024-01-01"])
	assert.NotContains(t, s.ByDate, "2024-01-02")
}

func TestSummarizeDistinctWorkOrders(t *testing.T) {
	intervals := []Interval{
		{Start: mustParse(t, "2024-01-01T09:00:00"), End: mustParse(t, "2024-01-01T10:00:00"), WorkOrderID: "a", WorkOrderCode: "WO-A"},
		{Start: mustParse(t, "2024-01-02T09:00:00"), End: mustParse(t, "2024-01-02T10:00:00"), WorkOrderID: "a", WorkOrderCode: "WO-A"},
		{Start: mustParse(t, "2024-01-02T11:00:00"), End: mustParse(t, "2024-01-02T12:00:00"), WorkOrderID: "b", WorkOrderCode: "WO-B"},
		// No code, so the id never counts toward work orders.
		{Start: mustParse(t, "2024-01-02T13:00:00"), End: mustParse(t, "2024-01-02T14:00:00"), WorkOrderID: "c"},
	}

	s := Summarize(intervals, 0)

	assert.Equal(t, 2, s.TotalWorkOrders)
	assert.Equal(t, []string{"WO-A|01:00:00|a"}, s.WorkOrdersByDate["2024-01-01"])
	assert.Equal(t, []string{"WO-A|01:00:00|a", "WO-B|01:00:00|b"}, s.WorkOrdersByDate["2024-01-02"])
}

func TestSummarizeDeduplicatesDisplayStrings(t *testing.T) {
	// Same code, id, and duration on the same day collapse to one entry.
	intervals := []Interval{
		{Start: mustParse(t, "2024-01-01T09:00:00"), End: mustParse(t, "2024-01-01T10:00:00"), WorkOrderID: "a", WorkOrderCode: "WO-A"},
		{Start: mustParse(t, "2024-01-01T11:00:00"), End: mustParse(t, "2024-01-01T12:00:00"), WorkOrderID: "a", WorkOrderCode: "WO-A"},
		{Start: mustParse(t, "2024-01-01T13:00:00"), End: mustParse(t, "2024-01-01T13:30:00"), WorkOrderID: "a", WorkOrderCode: "WO-A"},
	}

	s := Summarize(intervals, 0)

	assert.Equal(t, []string{"WO-A|01:00:00|a", "WO-A|00:30:00|a"}, s.WorkOrdersByDate["2024-01-01"])
}

func TestSummarizeDateListCreatedWithoutCode(t *testing.T) {
	intervals := []Interval{
		{Start: mustParse(t, "2024-01-01T09:00:00"), End: mustParse(t, "2024-01-01T10:00:00")},
	}

	s := Summarize(intervals, 0)

	list, ok := s.WorkOrdersByDate["2024-01-01"]
	assert.True(t, ok)
	assert.Empty(t, list)
}

func TestSummarizeOutOfOrderIntervals(t *testing.T) {
	intervals := []Interval{
		{Start: mustParse(t, "2024-01-01T10:00:00"), End: mustParse(t, "2024-01-01T09:00:00")},
		{Start: mustParse(t, "2024-01-01T11:00:00"), End: mustParse(t, "2024-01-01T13:00:00")},
	}

	s := Summarize(intervals, 0)

	// The negative hour is not clamped, it nets against the rest.
	assert.Equal(t, int64(3600000), s.TotalMillis)
	assert.Equal(t, "01:00:00", s.TotalTime)
	assert.Equal(t, 1, s.OutOfOrder)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "00:00:59", FormatClock(59999))
	assert.Equal(t, "01:45:00", FormatClock(6300000))
	// Hours roll past 24 instead of wrapping into days.
	assert.Equal(t, "30:00:00", FormatClock(30*3600*1000))
	assert.Equal(t, "-01:00:00", FormatClock(-3600000))
}

func TestHours(t *testing.T) {
	assert.Equal(t, "0.00", Hours(0))
	assert.Equal(t, "1.75", Hours(6300000))
	assert.Equal(t, "0.50", Hours(1800000))
}

func TestParseTimestamp(t *testing.T) {
	naive, err := ParseTimestamp("2024-01-01T09:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), naive)

	offset, err := ParseTimestamp("2024-01-01T09:00:00Z")
	require.NoError(t, err)
	assert.True(t, naive.Equal(offset))

	_, err = ParseTimestamp("not-a-timestamp")
	assert.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	intervals := []Interval{
		{Start: mustParse(t, "2024-01-01T09:00:00"), End: mustParse(t, "2024-01-01T10:30:00"), WorkOrderID: "id1", WorkOrderCode: "WO1"},
		{Start: mustParse(t, "2024-01-02T09:00:00"), End: mustParse(t, "2024-01-02T09:30:00")},
	}

	report := BuildReport("2571", "2024-01-01", "2024-01-31", Summarize(intervals, 2))

	assert.Equal(t, "2571", report.MemberID)
	assert.Equal(t, "2024-01-01 to 2024-01-31", report.Period)
	assert.Equal(t, "02:00:00", report.TotalTime)
	assert.Equal(t, "2.00", report.TotalActiveHours)
	assert.Equal(t, 2, report.TotalNotes)
	assert.Equal(t, 1, report.TotalWorkOrders)
	assert.Equal(t, "1.50 hours", report.DetailedByDate["2024-01-01"])
	assert.Equal(t, "0.50 hours", report.DetailedByDate["2024-01-02"])
}
