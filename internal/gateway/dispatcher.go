package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
	"github.com/josedlucas/sweven-mcp-server/internal/tools"
)

// Streaming dispatcher. Tool results are rendered as text payloads the
// same way the stdio transport serializes them for clients.

// ServerName reports the advertised MCP server name.
func (g *ToolGateway) ServerName() string {
	return g.name
}

// ServerVersion reports the advertised MCP server version.
func (g *ToolGateway) ServerVersion() string {
	return g.version
}

// Tools lists the tool descriptors for tools/list responses.
func (g *ToolGateway) Tools() []tools.Descriptor {
	return tools.Descriptors()
}

// Call runs the named tool for a streaming client. The second return
// flags the result as an error for the MCP envelope.
func (g *ToolGateway) Call(ctx context.Context, name string, args json.RawMessage) (string, bool) {
	switch name {
	case tools.ToolSetCredentials:
		var req tools.SetCredentialsRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return g.fail(fmt.Sprintf("Failed to set credentials: %s", err.Error()))
		}
		if err := g.SetCredentials(ctx, req.Email, req.Password); err != nil {
			errortypes.LogError(nil, err)
			return g.fail(fmt.Sprintf("Failed to set credentials: %s", err.Error()))
		}
		g.countCall(false)
		return "Credentials set and login successful.", false

	case tools.ToolGetTeamMembers:
		members, err := g.TeamMembers(ctx)
		if err != nil {
			errortypes.LogError(nil, err)
			return g.fail(fmt.Sprintf("Error fetching team members: %s", err.Error()))
		}
		g.countCall(false)
		return prettyJSON(members), false

	case tools.ToolGetTrackingsSummary:
		var req tools.GetTrackingsSummaryRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return g.fail(fmt.Sprintf("Error fetching tracking summary: %s", err.Error()))
		}
		summary, err := g.TrackingsSummary(ctx, req)
		if err != nil {
			errortypes.LogError(nil, err)
			return g.fail(fmt.Sprintf("Error fetching tracking summary: %s", err.Error()))
		}
		g.countCall(false)
		return prettyValue(summary), false

	case tools.ToolGetNotes:
		var req tools.GetNotesRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return g.fail(fmt.Sprintf("Error fetching notes: %s", err.Error()))
		}
		notes, err := g.Notes(ctx, req)
		if err != nil {
			errortypes.LogError(nil, err)
			return g.fail(fmt.Sprintf("Error fetching notes: %s", err.Error()))
		}
		g.countCall(false)
		return prettyJSON(notes), false

	case tools.ToolGetWorkOrderDetails:
		var req tools.GetWorkOrderDetailsRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return g.fail(fmt.Sprintf("Error fetching work order details: %s", err.Error()))
		}
		workOrder, err := g.WorkOrderDetails(ctx, req.WorkOrderID)
		if err != nil {
			errortypes.LogError(nil, err)
			return g.fail(fmt.Sprintf("Error fetching work order details: %s", err.Error()))
		}
		g.countCall(false)
		return prettyJSON(workOrder), false

	default:
		return g.fail(fmt.Sprintf("Unknown tool: %s", name))
	}
}

func (g *ToolGateway) fail(message string) (string, bool) {
	g.countCall(true)
	return message, true
}

// prettyJSON indents a raw payload with two spaces; payloads that fail
// to indent pass through verbatim.
func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func prettyValue(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
