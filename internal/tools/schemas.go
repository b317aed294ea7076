// Package tools defines the tool names and data structures
// exposed by the Sweven MCP server.
package tools

import "encoding/json"

const (
	// ToolSetCredentials is the name of the set_credentials MCP tool
	ToolSetCredentials = "set_credentials"

	// ToolGetTeamMembers is the name of the get_team_members MCP tool
	ToolGetTeamMembers = "get_team_members"

	// ToolGetTrackingsSummary is the name of the get_trackings_summary MCP tool
	ToolGetTrackingsSummary = "get_trackings_summary"

	// ToolGetNotes is the name of the get_notes MCP tool
	ToolGetNotes = "get_notes"

	// ToolGetWorkOrderDetails is the name of the get_work_order_details MCP tool
	ToolGetWorkOrderDetails = "get_work_order_details"

	// DefaultTrackingsLimit is the default number of tracking entries
	// requested when no limit is specified in a get_trackings_summary request
	DefaultTrackingsLimit = 100

	// NotesFetchLimit is the page size used when fetching notes; notes are
	// only counted or passed through, so one large page is requested
	NotesFetchLimit = 1000
)

// SetCredentialsRequest defines the input schema for the set_credentials tool
type SetCredentialsRequest struct {
	// Email is the Sweven account email
	Email string `json:"email"`

	// Password is the Sweven account password
	Password string `json:"password"`
}

// SetCredentialsResponse defines the output schema for the set_credentials tool
type SetCredentialsResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Message is set on success
	Message string `json:"message,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// GetTeamMembersRequest defines the input schema for the get_team_members tool
type GetTeamMembersRequest struct{}

// GetTeamMembersResponse defines the output schema for the get_team_members tool
type GetTeamMembersResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Members is the remote API payload passed through verbatim
	Members json.RawMessage `json:"members,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// GetTrackingsSummaryRequest defines the input schema for the
// get_trackings_summary tool
type GetTrackingsSummaryRequest struct {
	// TeamMemberID identifies whose trackings are summarized
	TeamMemberID string `json:"team_member_id"`

	// StartDate is the range start in YYYY-MM-DD format
	StartDate string `json:"start_date"`

	// EndDate is the range end in YYYY-MM-DD format
	EndDate string `json:"end_date"`

	// Limit is the maximum number of tracking entries to fetch
	// If not specified, DefaultTrackingsLimit will be used
	Limit int `json:"limit,omitempty"`
}

// TrackingsSummary is the aggregated result carried by a successful
// get_trackings_summary response.
type TrackingsSummary struct {
	// TotalTime is the accumulated duration formatted as HH:MM:SS
	TotalTime string `json:"total_time"`

	// TotalNotes is the number of notes created in the range
	TotalNotes int `json:"total_notes"`

	// TotalWorkOrders is the number of distinct work orders touched
	TotalWorkOrders int `json:"total_work_orders"`

	// DetailedByDate maps each UTC date to its accumulated milliseconds
	DetailedByDate map[string]int64 `json:"detailed_by_date"`

	// WorkOrdersByDate maps each UTC date to its deduplicated
	// "code|HH:MM:SS|id" work-order strings in first-seen order
	WorkOrdersByDate map[string][]string `json:"work_orders_by_date"`
}

// GetTrackingsSummaryResponse defines the output schema for the
// get_trackings_summary tool
type GetTrackingsSummaryResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Summary is the aggregated tracking summary
	Summary *TrackingsSummary `json:"summary,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// GetNotesRequest defines the input schema for the get_notes tool
type GetNotesRequest struct {
	// TeamMemberID identifies whose notes are listed
	TeamMemberID string `json:"team_member_id"`

	// StartDate optionally restricts the range (YYYY-MM-DD); only applied
	// when EndDate is also present
	StartDate string `json:"start_date,omitempty"`

	// EndDate optionally restricts the range (YYYY-MM-DD)
	EndDate string `json:"end_date,omitempty"`
}

// GetNotesResponse defines the output schema for the get_notes tool
type GetNotesResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// Notes is the remote API payload passed through verbatim
	Notes json.RawMessage `json:"notes,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}

// GetWorkOrderDetailsRequest defines the input schema for the
// get_work_order_details tool
type GetWorkOrderDetailsRequest struct {
	// WorkOrderID identifies the work order
	WorkOrderID string `json:"work_order_id"`
}

// GetWorkOrderDetailsResponse defines the output schema for the
// get_work_order_details tool
type GetWorkOrderDetailsResponse struct {
	// Status indicates the result of the operation ("success" or "error")
	Status string `json:"status"`

	// WorkOrder is the remote API payload passed through verbatim
	WorkOrder json.RawMessage `json:"work_order,omitempty"`

	// Error contains an error message if Status is "error"
	Error string `json:"error,omitempty"`
}
