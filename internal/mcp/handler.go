package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"clickupmcp/server/internal/jsonrpc"
	"clickupmcp/server/internal/middleware"
	"clickupmcp/server/internal/modules"
	"clickupmcp/server/internal/observability"
)

const (
	protocolVersion = "2025-03-26"
	serverName      = "clickup-mcp"
	serverVersion   = "0.1.0"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// Called by the transport middleware for both transports.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return h.handleToolsList(ctx)
	case "tools/call":
		return h.handleToolCall(ctx, req)
	case "resources/list":
		return h.handleResourcesList(ctx)
	case "resources/read":
		return h.handleResourcesRead(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	}
}

func (h *Handler) handleToolsList(ctx context.Context) (*ToolsListResult, *jsonrpc.Error) {
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		return nil, &jsonrpc.Error{Code: InternalError, Message: "auth context missing"}
	}
	tools := modules.ListTools(authCtx.EnabledTools)
	if tools == nil {
		tools = []modules.Tool{}
	}
	return &ToolsListResult{Tools: tools}, nil
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params"}
	}

	var params ToolCallParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "name is required"}
	}
	if params.Arguments == nil {
		params.Arguments = make(map[string]interface{})
	}

	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		return nil, &jsonrpc.Error{Code: InternalError, Message: "auth context missing"}
	}

	moduleName := ownerModule(params.Name)
	if err := authCtx.CanAccessTool(moduleName, params.Name); err != nil {
		observability.LogSecurityEvent(middleware.GetRequestID(ctx), authCtx.ClientID, "tool_permission_denied", map[string]any{
			"module": moduleName,
			"tool":   params.Name,
			"reason": err.Error(),
		})
		return nil, authErrorToRPC(err)
	}

	result, err := modules.Dispatch(ctx, params.Name, params.Arguments)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InternalError, Message: err.Error()}
	}

	// Apply compact format unless format=json is explicitly requested
	if !result.IsError {
		if f, _ := params.Arguments["format"].(string); f != "json" {
			result.Content[0].Text = modules.ApplyCompact(moduleName, params.Name, result.Content[0].Text)
		}
	}

	return result, nil
}

// ownerModule resolves a tool name to its module for permission checks.
// Unknown tools fall through to Dispatch, which reports them uniformly.
func ownerModule(toolName string) string {
	for _, name := range modules.ListModules() {
		if m, ok := modules.GetModule(name); ok {
			for _, tool := range m.Tools() {
				if tool.Name == toolName {
					return name
				}
			}
		}
	}
	return "clickup"
}

func (h *Handler) handleResourcesList(ctx context.Context) (*ResourcesListResult, *jsonrpc.Error) {
	resources := modules.ListResources()
	if resources == nil {
		resources = []modules.Resource{}
	}
	return &ResourcesListResult{Resources: resources}, nil
}

func (h *Handler) handleResourcesRead(ctx context.Context, req *jsonrpc.Request) (*ResourcesReadResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params"}
	}

	var params ResourcesReadParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Invalid params structure"}
	}
	if params.URI == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "uri is required"}
	}

	text, err := modules.ReadResource(ctx, params.URI)
	if err != nil {
		return nil, &jsonrpc.Error{Code: ErrResourceNotFound, Message: err.Error()}
	}

	return &ResourcesReadResult{
		Contents: []ResourceContent{{
			URI:      params.URI,
			MimeType: "application/json",
			Text:     text,
		}},
	}, nil
}

// authErrorToRPC maps middleware.AuthError to the appropriate JSON-RPC error code.
func authErrorToRPC(err error) *jsonrpc.Error {
	authErr, ok := err.(*middleware.AuthError)
	if !ok {
		return &jsonrpc.Error{Code: InternalError, Message: err.Error()}
	}
	switch authErr.Code {
	case "MODULE_NOT_ENABLED", "TOOL_DISABLED":
		return &jsonrpc.Error{Code: ErrPermissionDenied, Message: authErr.Message}
	default:
		return &jsonrpc.Error{Code: InternalError, Message: fmt.Sprintf("%s: %s", authErr.Code, authErr.Message)}
	}
}
