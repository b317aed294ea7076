package httpserver

import (
	"context"
	"encoding/json"

	"github.com/josedlucas/sweven-mcp-server/internal/tools"
)

// protocolVersion is the MCP protocol revision the streaming endpoint
// speaks.
const protocolVersion = "2024-11-05"

// Dispatcher executes tool calls on behalf of streaming clients.
type Dispatcher interface {
	ServerName() string
	ServerVersion() string
	Tools() []tools.Descriptor
	// Call runs the named tool and returns the text payload plus an
	// error flag for the MCP result.
	Call(ctx context.Context, name string, args json.RawMessage) (string, bool)
}

// rpcMessage is an incoming JSON-RPC 2.0 request. SessionID is a
// transport-level extension some clients send in the body instead of
// the query string.
type rpcMessage struct {
	JSONRPC   string          `json:"jsonrpc"`
	ID        json.RawMessage `json:"id,omitempty"`
	Method    string          `json:"method"`
	Params    json.RawMessage `json:"params,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

// isNotification reports whether the message carries no id and so must
// not receive a response.
func (m *rpcMessage) isNotification() bool {
	return len(m.ID) == 0 || string(m.ID) == "null"
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      serverInfo             `json:"serverInfo"`
}

type toolListEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type toolListResult struct {
	Tools []toolListEntry `json:"tools"`
}

func newResponse(id json.RawMessage, result interface{}) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func newErrorResponse(id json.RawMessage, code int, message string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// dispatch executes one JSON-RPC message against the tool dispatcher.
// Notifications return ok=false and produce no response.
func dispatch(ctx context.Context, d Dispatcher, msg rpcMessage) (rpcResponse, bool) {
	if msg.isNotification() {
		return rpcResponse{}, false
	}

	switch msg.Method {
	case "initialize":
		return newResponse(msg.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			ServerInfo: serverInfo{Name: d.ServerName(), Version: d.ServerVersion()},
		}), true

	case "ping":
		return newResponse(msg.ID, map[string]interface{}{}), true

	case "tools/list":
		descriptors := d.Tools()
		entries := make([]toolListEntry, 0, len(descriptors))
		for _, desc := range descriptors {
			entries = append(entries, toolListEntry{
				Name:        desc.Name,
				Description: desc.Description,
				InputSchema: desc.InputSchema,
			})
		}
		return newResponse(msg.ID, toolListResult{Tools: entries}), true

	case "tools/call":
		var params toolCallParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return newErrorResponse(msg.ID, codeInvalidParams, "invalid tool call parameters"), true
		}
		if params.Name == "" {
			return newErrorResponse(msg.ID, codeInvalidParams, "missing tool name"), true
		}
		text, isErr := d.Call(ctx, params.Name, params.Arguments)
		return newResponse(msg.ID, toolResult{
			Content: []textContent{{Type: "text", Text: text}},
			IsError: isErr,
		}), true

	default:
		return newErrorResponse(msg.ID, codeMethodNotFound, "method not found: "+msg.Method), true
	}
}
