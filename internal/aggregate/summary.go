// Package aggregate turns raw time-tracking intervals into per-day
// work summaries. It is pure computation with no I/O.
package aggregate

import (
	"fmt"
	"strconv"
	"time"
)

// Interval is one finished tracking interval with its optional work
// order association.
type Interval struct {
	Start         time.Time
	End           time.Time
	WorkOrderID   string
	WorkOrderCode string
}

// Summary is the aggregated view over a set of intervals.
type Summary struct {
	// TotalMillis is the summed duration of all intervals.
	TotalMillis int64
	// TotalTime is TotalMillis rendered as HH:MM:SS.
	TotalTime string
	// TotalNotes is carried through from the notes query.
	TotalNotes int
	// TotalWorkOrders counts distinct work order ids among intervals
	// that carry a work order code.
	TotalWorkOrders int
	// ByDate maps UTC start dates (YYYY-MM-DD) to summed millis.
	ByDate map[string]int64
	// WorkOrdersByDate maps dates to deduplicated display strings of
	// the form "code|HH:MM:SS|id", first-seen order.
	WorkOrdersByDate map[string][]string
	// OutOfOrder counts intervals whose end precedes their start.
	OutOfOrder int
}

// Summarize aggregates intervals into per-day totals. Intervals whose
// end precedes the start contribute their negative duration unchanged
// and are counted in OutOfOrder so callers can surface a warning.
func Summarize(intervals []Interval, noteCount int) Summary {
	s := Summary{
		TotalNotes:       noteCount,
		ByDate:           make(map[string]int64),
		WorkOrdersByDate: make(map[string][]string),
	}

	seenOrders := make(map[string]struct{})
	seenDisplay := make(map[string]map[string]struct{})

	for _, iv := range intervals {
		millis := iv.End.Sub(iv.Start).Milliseconds()
		if millis < 0 {
			s.OutOfOrder++
		}
		s.TotalMillis += millis

		date := iv.Start.UTC().Format("2006-01-02")
		s.ByDate[date] += millis
		if _, ok := s.WorkOrdersByDate[date]; !ok {
			s.WorkOrdersByDate[date] = []string{}
		}

		if iv.WorkOrderCode == "" {
			continue
		}
		if _, ok := seenOrders[iv.WorkOrderID]; !ok {
			seenOrders[iv.WorkOrderID] = struct{}{}
			s.TotalWorkOrders++
		}

		display := fmt.Sprintf("%s|%s|%s", iv.WorkOrderCode, FormatClock(millis), iv.WorkOrderID)
		if seenDisplay[date] == nil {
			seenDisplay[date] = make(map[string]struct{})
		}
		if _, ok := seenDisplay[date][display]; !ok {
			seenDisplay[date][display] = struct{}{}
			s.WorkOrdersByDate[date] = append(s.WorkOrdersByDate[date], display)
		}
	}

	s.TotalTime = FormatClock(s.TotalMillis)
	return s
}

// FormatClock renders milliseconds as HH:MM:SS. Hours are not capped
// at 24 and negative values keep a leading minus on the hour field.
func FormatClock(millis int64) string {
	negative := millis < 0
	if negative {
		millis = -millis
	}
	totalSeconds := millis / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, hours, minutes, seconds)
}

// Hours renders milliseconds as decimal hours with two digits, for
// example "1.75".
func Hours(millis int64) string {
	return strconv.FormatFloat(float64(millis)/3600000.0, 'f', 2, 64)
}

// ParseTimestamp parses remote API timestamps. The API emits naive UTC
// strings like "2024-01-01T09:00:00" but RFC 3339 values with an
// explicit offset are accepted too.
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
}
