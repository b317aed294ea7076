package tools

import "encoding/json"

// Descriptor describes a tool for the tools/list response on the
// streaming transport. InputSchema is a JSON Schema object.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Descriptors returns the descriptors for every exposed tool.
func Descriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        ToolSetCredentials,
			Description: "Set the email and password for Sweven API authentication",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"email": {"type": "string", "format": "email"},
					"password": {"type": "string"}
				},
				"required": ["email", "password"]
			}`),
		},
		{
			Name:        ToolGetTeamMembers,
			Description: "Get the list of team members from Sweven",
			InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
		},
		{
			Name:        ToolGetTrackingsSummary,
			Description: "Get tracking summary for a team member, including time worked and notes count",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"team_member_id": {"type": "string"},
					"start_date": {"type": "string", "description": "Start date in YYYY-MM-DD format"},
					"end_date": {"type": "string", "description": "End date in YYYY-MM-DD format"},
					"limit": {"type": "number", "default": 100}
				},
				"required": ["team_member_id", "start_date", "end_date"]
			}`),
		},
		{
			Name:        ToolGetNotes,
			Description: "Get notes for a team member",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"team_member_id": {"type": "string"},
					"start_date": {"type": "string"},
					"end_date": {"type": "string"}
				},
				"required": ["team_member_id"]
			}`),
		},
		{
			Name:        ToolGetWorkOrderDetails,
			Description: "Get details for a specific work order",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"work_order_id": {"type": "string"}
				},
				"required": ["work_order_id"]
			}`),
		},
	}
}
