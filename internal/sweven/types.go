package sweven

import (
	"encoding/json"
	"strings"
)

// FlexID is an identifier that the remote API serializes sometimes as a
// JSON string and sometimes as a number.
type FlexID string

// UnmarshalJSON accepts a string, a number, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// Tracking is one time-tracking interval record. Timestamps are naive
// UTC strings like "2024-01-01T09:00:00"; extra fields are ignored.
type Tracking struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	WorkOrderID   FlexID `json:"work_order_id"`
	WorkOrderCode string `json:"work_order_code"`
}

// TrackingsPage is the decoded trackings query response. Raw preserves
// the payload verbatim for passthrough use.
type TrackingsPage struct {
	Raw  json.RawMessage
	Data []Tracking
}

// NotesPage is the decoded notes query response. Only the note count is
// consumed by the summary tool; Raw preserves the payload verbatim.
type NotesPage struct {
	Raw   json.RawMessage
	Notes []json.RawMessage
}

// TrackingsQuery parameterizes the trackings endpoint. Sort order and
// activity flag are fixed by the API usage: newest first, inactive only.
type TrackingsQuery struct {
	TeamMemberID string
	StartDate    string
	EndDate      string
	Limit        int
}

// NotesQuery parameterizes the notes endpoint. The date range is only
// sent when both ends are present.
type NotesQuery struct {
	CreatedBy string
	DateFrom  string
	DateTo    string
	Limit     int
}
