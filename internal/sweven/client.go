// Package sweven is an HTTP client for the Sweven BPM admin and data
// APIs: login, team members, trackings, notes, and work orders.
package sweven

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/josedlucas/sweven-mcp-server/internal/errortypes"
	"github.com/josedlucas/sweven-mcp-server/internal/telemetry"
)

const (
	// DefaultAdminBaseURL serves authentication and team administration.
	DefaultAdminBaseURL = "https://autodispatch.swevenbpm.com/v1"
	// DefaultDataBaseURL serves trackings, notes, and work orders.
	DefaultDataBaseURL = "https://apis-tgx.swevenbpm.com/v4"

	defaultTimeout = 30 * time.Second
)

// Client talks to the two Sweven API bases. It is safe for concurrent
// use; all state is immutable after construction.
type Client struct {
	adminBase string
	dataBase  string
	http      *http.Client
	metrics   *telemetry.MetricsCollector
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithMetrics attaches a metrics collector for call counters and
// response timers.
func WithMetrics(m *telemetry.MetricsCollector) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns a client for the given API bases. Empty bases fall
// back to the production defaults.
func NewClient(adminBase, dataBase string, opts ...ClientOption) *Client {
	if adminBase == "" {
		adminBase = DefaultAdminBaseURL
	}
	if dataBase == "" {
		dataBase = DefaultDataBaseURL
	}
	c := &Client{
		adminBase: adminBase,
		dataBase:  dataBase,
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loginResponse struct {
	JWTToken string `json:"jwtToken"`
}

// Login authenticates against the admin API and returns the JWT.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", errortypes.InternalError(err, "failed to encode login request")
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.adminBase+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", errortypes.InternalError(err, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(false, telemetry.MetricResponseTimeLogin, start)
		c.count(telemetry.MetricLoginFailure)
		return "", errortypes.AuthError(err, "login request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(false, telemetry.MetricResponseTimeLogin, start)
		c.count(telemetry.MetricLoginFailure)
		return "", errortypes.AuthError(err, "failed to read login response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(false, telemetry.MetricResponseTimeLogin, start)
		c.count(telemetry.MetricLoginFailure)
		return "", errortypes.AuthError(nil,
			fmt.Sprintf("login failed with status %d", resp.StatusCode)).
			WithField("status", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.Unmarshal(data, &lr); err != nil {
		c.record(false, telemetry.MetricResponseTimeLogin, start)
		c.count(telemetry.MetricLoginFailure)
		return "", errortypes.AuthError(err, "invalid login response body")
	}

	c.record(true, telemetry.MetricResponseTimeLogin, start)
	c.count(telemetry.MetricLoginSuccess)
	return lr.JWTToken, nil
}

// TeamMembers returns the raw team member payload from the admin API.
func (c *Client) TeamMembers(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, token, c.adminBase+"/admin/team-members", telemetry.MetricResponseTimeTeamMembers)
}

// Trackings queries finished time-tracking intervals for a team member,
// newest first.
func (c *Client) Trackings(ctx context.Context, token string, q TrackingsQuery) (*TrackingsPage, error) {
	params := url.Values{}
	params.Set("team_member_id", q.TeamMemberID)
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("sort_order", "DESC")
	params.Set("sort_column", "start_date")
	params.Set("is_active", "0")
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}

	raw, err := c.get(ctx, token, c.dataBase+"/trackings?"+params.Encode(), telemetry.MetricResponseTimeTrackings)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Tracking `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errortypes.RemoteError(err, "invalid trackings response body")
	}
	return &TrackingsPage{Raw: raw, Data: envelope.Data}, nil
}

// Notes queries notes created by a team member, newest first.
func (c *Client) Notes(ctx context.Context, token string, q NotesQuery) (*NotesPage, error) {
	params := url.Values{}
	params.Set("sort_column", "created_date")
	params.Set("sort_order", "desc")
	params.Set("created_by", q.CreatedBy)
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.DateFrom != "" && q.DateTo != "" {
		params.Set("created_date_from", q.DateFrom)
		params.Set("created_date_to", q.DateTo)
	}

	raw, err := c.get(ctx, token, c.dataBase+"/notes?"+params.Encode(), telemetry.MetricResponseTimeNotes)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Notes []json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errortypes.RemoteError(err, "invalid notes response body")
	}
	return &NotesPage{Raw: raw, Notes: envelope.Notes}, nil
}

// WorkOrder fetches one work order by id and returns the raw payload.
func (c *Client) WorkOrder(ctx context.Context, token, id string) (json.RawMessage, error) {
	return c.get(ctx, token, c.dataBase+"/work-order/"+url.PathEscape(id), telemetry.MetricResponseTimeWorkOrder)
}

func (c *Client) get(ctx context.Context, token, rawURL, timerMetric string) (json.RawMessage, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errortypes.InternalError(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(false, timerMetric, start)
		return nil, errortypes.RemoteError(err, "request failed").WithField("url", rawURL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(false, timerMetric, start)
		return nil, errortypes.RemoteError(err, "failed to read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(false, timerMetric, start)
		return nil, errortypes.RemoteError(nil,
			fmt.Sprintf("request failed with status %d", resp.StatusCode)).
			WithField("status", resp.StatusCode).
			WithField("url", rawURL)
	}

	c.record(true, timerMetric, start)
	return json.RawMessage(data), nil
}

func (c *Client) record(ok bool, timerMetric string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordTimer(timerMetric, time.Since(start))
	if ok {
		c.metrics.IncrementCounter(telemetry.MetricRemoteCallsSuccess, 1)
	} else {
		c.metrics.IncrementCounter(telemetry.MetricRemoteCallsFailure, 1)
	}
}

func (c *Client) count(metric string) {
	if c.metrics != nil {
		c.metrics.IncrementCounter(metric, 1)
	}
}
