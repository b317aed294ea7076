// Package gateway wires the five Sweven tools to their backing
// services and exposes them over the MCP stdio transport and the
// streaming dispatcher.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/localrivet/gomcp/server"

	"github.com/josedlucas/sweven-mcp-server/internal/aggregate"
	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
	"github.com/josedlucas/sweven-mcp-server/internal/history"
	"github.com/josedlucas/sweven-mcp-server/internal/sweven"
	"github.com/josedlucas/sweven-mcp-server/internal/telemetry"
	"github.com/josedlucas/sweven-mcp-server/internal/tools"
)

// AuthSession manages login state for the remote API.
type AuthSession interface {
	Login(ctx context.Context, email, password string) (string, error)
	EnsureAuthenticated(ctx context.Context) (string, error)
}

// RemoteClient is the Sweven API surface the gateway consumes.
type RemoteClient interface {
	TeamMembers(ctx context.Context, token string) (json.RawMessage, error)
	Trackings(ctx context.Context, token string, q sweven.TrackingsQuery) (*sweven.TrackingsPage, error)
	Notes(ctx context.Context, token string, q sweven.NotesQuery) (*sweven.NotesPage, error)
	WorkOrder(ctx context.Context, token, id string) (json.RawMessage, error)
}

// ToolGateway implements the five tools and their transports.
type ToolGateway struct {
	auth      AuthSession
	client    RemoteClient
	history   history.Store
	metrics   *telemetry.MetricsCollector
	name      string
	version   string
	mcpServer server.Server
}

// Option configures a ToolGateway.
type Option func(*ToolGateway)

// WithHistory records each generated summary to the given store.
// Recording failures are logged and never surface to clients.
func WithHistory(h history.Store) Option {
	return func(g *ToolGateway) { g.history = h }
}

// WithMetrics attaches a metrics collector for tool call counters.
func WithMetrics(m *telemetry.MetricsCollector) Option {
	return func(g *ToolGateway) { g.metrics = m }
}

// NewToolGateway builds a gateway over the given auth session and API
// client.
func NewToolGateway(name, version string, auth AuthSession, client RemoteClient, opts ...Option) *ToolGateway {
	g := &ToolGateway{
		auth:    auth,
		client:  client,
		name:    name,
		version: version,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Initialize registers the five tools with the MCP server.
func (g *ToolGateway) Initialize() error {
	if g.auth == nil || g.client == nil {
		return errortypes.ConfigError(errors.New("missing dependencies"), "gateway initialization failed")
	}

	srv := server.NewServer(g.name)

	srv = srv.Tool(tools.ToolSetCredentials, "Set the Sweven BPM credentials (email and password) for this session",
		g.handleSetCredentials)

	srv = srv.Tool(tools.ToolGetTeamMembers, "Get a list of all team members from Sweven BPM",
		g.handleGetTeamMembers)

	srv = srv.Tool(tools.ToolGetTrackingsSummary, "Get a summary of time trackings for a specific team member within a date range",
		g.handleGetTrackingsSummary)

	srv = srv.Tool(tools.ToolGetNotes, "Get notes created by a specific team member, optionally within a date range",
		g.handleGetNotes)

	srv = srv.Tool(tools.ToolGetWorkOrderDetails, "Get the full details of a specific work order by its ID",
		g.handleGetWorkOrderDetails)

	g.mcpServer = srv
	slog.Info("Sweven tool gateway initialized", "tool_count", 5)
	return nil
}

// Start runs the MCP server on the stdio transport until EOF.
func (g *ToolGateway) Start() error {
	if g.mcpServer == nil {
		return errortypes.ConfigError(errors.New("gateway not initialized"), "cannot start server")
	}

	slog.Info("Starting Sweven MCP server on stdio")

	stdioServer := g.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop shuts the gateway down.
func (g *ToolGateway) Stop() error {
	slog.Info("Stopping Sweven MCP server")
	return nil
}

// Core tool operations. These back both the stdio handlers and the
// streaming dispatcher.

// SetCredentials stores the credentials and verifies them with an
// immediate login.
func (g *ToolGateway) SetCredentials(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errortypes.ValidationError(nil, "email and password are required")
	}
	_, err := g.auth.Login(ctx, email, password)
	return err
}

// TeamMembers returns the raw team member payload.
func (g *ToolGateway) TeamMembers(ctx context.Context) (json.RawMessage, error) {
	token, err := g.auth.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	return g.client.TeamMembers(ctx, token)
}

// TrackingsSummary fetches trackings and notes for the member and
// range, then aggregates them into per-day totals.
func (g *ToolGateway) TrackingsSummary(ctx context.Context, req tools.GetTrackingsSummaryRequest) (*tools.TrackingsSummary, error) {
	if req.TeamMemberID == "" {
		return nil, errortypes.ValidationError(nil, "team_member_id is required")
	}

	token, err := g.auth.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = tools.DefaultTrackingsLimit
	}

	page, err := g.client.Trackings(ctx, token, sweven.TrackingsQuery{
		TeamMemberID: req.TeamMemberID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	notes, err := g.client.Notes(ctx, token, sweven.NotesQuery{
		CreatedBy: req.TeamMemberID,
		DateFrom:  req.StartDate,
		DateTo:    req.EndDate,
		Limit:     tools.NotesFetchLimit,
	})
	if err != nil {
		return nil, err
	}

	intervals := make([]aggregate.Interval, 0, len(page.Data))
	for _, tr := range page.Data {
		start, err := aggregate.ParseTimestamp(tr.StartDate)
		if err != nil {
			return nil, errortypes.RemoteError(err, "invalid start_date in tracking entry").
				WithField("value", tr.StartDate)
		}
		end, err := aggregate.ParseTimestamp(tr.EndDate)
		if err != nil {
			return nil, errortypes.RemoteError(err, "invalid end_date in tracking entry").
				WithField("value", tr.EndDate)
		}
		intervals = append(intervals, aggregate.Interval{
			Start:         start,
			End:           end,
			WorkOrderID:   string(tr.WorkOrderID),
			WorkOrderCode: tr.WorkOrderCode,
		})
	}

	summary := aggregate.Summarize(intervals, len(notes.Notes))
	if summary.OutOfOrder > 0 {
		slog.Warn("Tracking entries with end before start",
			"count", summary.OutOfOrder, "team_member_id", req.TeamMemberID)
	}

	result := &tools.TrackingsSummary{
		TotalTime:        summary.TotalTime,
		TotalNotes:       summary.TotalNotes,
		TotalWorkOrders:  summary.TotalWorkOrders,
		DetailedByDate:   summary.ByDate,
		WorkOrdersByDate: summary.WorkOrdersByDate,
	}

	g.recordHistory(req.TeamMemberID, req.StartDate, req.EndDate, result)
	return result, nil
}

// Notes returns the raw notes payload for the member, optionally
// bounded by a date range. The range applies only when both ends are
// present.
func (g *ToolGateway) Notes(ctx context.Context, req tools.GetNotesRequest) (json.RawMessage, error) {
	if req.TeamMemberID == "" {
		return nil, errortypes.ValidationError(nil, "team_member_id is required")
	}

	token, err := g.auth.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	q := sweven.NotesQuery{
		CreatedBy: req.TeamMemberID,
		Limit:     tools.NotesFetchLimit,
	}
	if req.StartDate != "" && req.EndDate != "" {
		q.DateFrom = req.StartDate
		q.DateTo = req.EndDate
	}

	page, err := g.client.Notes(ctx, token, q)
	if err != nil {
		return nil, err
	}
	return page.Raw, nil
}

// WorkOrderDetails returns the raw payload for one work order.
func (g *ToolGateway) WorkOrderDetails(ctx context.Context, workOrderID string) (json.RawMessage, error) {
	if workOrderID == "" {
		return nil, errortypes.ValidationError(nil, "work_order_id is required")
	}

	token, err := g.auth.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	return g.client.WorkOrder(ctx, token, workOrderID)
}

func (g *ToolGateway) recordHistory(memberID, startDate, endDate string, summary *tools.TrackingsSummary) {
	if g.history == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		slog.Warn("Failed to encode summary for history", "error", err)
		return
	}
	if err := g.history.Record(memberID, startDate, endDate, string(payload)); err != nil {
		slog.Warn("Failed to record summary history", "error", err)
	}
}

func (g *ToolGateway) countCall(failed bool) {
	if g.metrics == nil {
		return
	}
	g.metrics.IncrementCounter(telemetry.MetricToolCalls, 1)
	if failed {
		g.metrics.IncrementCounter(telemetry.MetricToolCallFailures, 1)
	}
}

// Stdio handlers. Failures are reported in the response body rather
// than as transport errors.

func (g *ToolGateway) handleSetCredentials(ctx *server.Context, req tools.SetCredentialsRequest) (tools.SetCredentialsResponse, error) {
	slog.Info("Processing set_credentials request")

	response := tools.SetCredentialsResponse{
		Status:  "success",
		Message: "Credentials set and login successful.",
	}

	if err := g.SetCredentials(context.Background(), req.Email, req.Password); err != nil {
		errortypes.LogError(nil, err)
		g.countCall(true)

		response.Status = "error"
		response.Message = ""
		response.Error = fmt.Sprintf("Failed to set credentials: %s", err.Error())
		return response, nil
	}

	g.countCall(false)
	return response, nil
}

func (g *ToolGateway) handleGetTeamMembers(ctx *server.Context, req tools.GetTeamMembersRequest) (tools.GetTeamMembersResponse, error) {
	slog.Info("Processing get_team_members request")

	response := tools.GetTeamMembersResponse{
		Status: "success",
	}

	members, err := g.TeamMembers(context.Background())
	if err != nil {
		errortypes.LogError(nil, err)
		g.countCall(true)

		response.Status = "error"
		response.Error = fmt.Sprintf("Error fetching team members: %s", err.Error())
		return response, nil
	}

	g.countCall(false)
	response.Members = members
	return response, nil
}

func (g *ToolGateway) handleGetTrackingsSummary(ctx *server.Context, req tools.GetTrackingsSummaryRequest) (tools.GetTrackingsSummaryResponse, error) {
	slog.Info("Processing get_trackings_summary request",
		"team_member_id", req.TeamMemberID, "start_date", req.StartDate, "end_date", req.EndDate)

	response := tools.GetTrackingsSummaryResponse{
		Status: "success",
	}

	summary, err := g.TrackingsSummary(context.Background(), req)
	if err != nil {
		errortypes.LogError(nil, err)
		g.countCall(true)

		response.Status = "error"
		response.Error = fmt.Sprintf("Error fetching tracking summary: %s", err.Error())
		return response, nil
	}

	g.countCall(false)
	response.Summary = summary
	return response, nil
}

func (g *ToolGateway) handleGetNotes(ctx *server.Context, req tools.GetNotesRequest) (tools.GetNotesResponse, error) {
	slog.Info("Processing get_notes request", "team_member_id", req.TeamMemberID)

	response := tools.GetNotesResponse{
		Status: "success",
	}

	notes, err := g.Notes(context.Background(), req)
	if err != nil {
		errortypes.LogError(nil, err)
		g.countCall(true)

		response.Status = "error"
		response.Error = fmt.Sprintf("Error fetching notes: %s", err.Error())
		return response, nil
	}

	g.countCall(false)
	response.Notes = notes
	return response, nil
}

func (g *ToolGateway) handleGetWorkOrderDetails(ctx *server.Context, req tools.GetWorkOrderDetailsRequest) (tools.GetWorkOrderDetailsResponse, error) {
	slog.Info("Processing get_work_order_details request", "work_order_id", req.WorkOrderID)

	response := tools.GetWorkOrderDetailsResponse{
		Status: "success",
	}

	workOrder, err := g.WorkOrderDetails(context.Background(), req.WorkOrderID)
	if err != nil {
		errortypes.LogError(nil, err)
		g.countCall(true)

		response.Status = "error"
		response.Error = fmt.Sprintf("Error fetching work order details: %s", err.Error())
		return response, nil
	}

	g.countCall(false)
	response.WorkOrder = workOrder
	return response, nil
}
