package modules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"clickupmcp/server/internal/middleware"
	"clickupmcp/server/internal/observability"
)

// =============================================================================
// Registry
// =============================================================================

// registry holds all registered modules
var registry = make(map[string]Module)

// RegisterModule adds a module to the registry
func RegisterModule(m Module) {
	registry[m.Name()] = m
}

// GetModule returns a module by name
func GetModule(name string) (Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// ListModules returns all registered module names, sorted.
func ListModules() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Tool Listing
// =============================================================================

// filterTools returns tools that are enabled for a given module
// (whitelist approach). If enabledTools is nil (no auth scoping), all
// tools are returned.
func filterTools(moduleName string, tools []Tool, enabledTools map[string][]string) []Tool {
	if enabledTools == nil {
		return tools
	}
	enabled, ok := enabledTools[moduleName]
	if !ok {
		return nil
	}
	enabledSet := make(map[string]bool, len(enabled))
	for _, t := range enabled {
		enabledSet[t] = true
	}
	var filtered []Tool
	for _, tool := range tools {
		if enabledSet[tool.Name] || enabledSet[moduleName+":"+tool.Name] {
			filtered = append(filtered, tool)
		}
	}
	return filtered
}

// ListTools returns every tool of every registered module, in module
// name order, filtered by the caller's enabled-tool scopes. Tool IDs
// are stamped with their owning module.
func ListTools(enabledTools map[string][]string) []Tool {
	var all []Tool
	for _, name := range ListModules() {
		m := registry[name]
		for _, tool := range filterTools(name, m.Tools(), enabledTools) {
			if tool.ID == "" {
				tool.ID = name + ":" + tool.Name
			}
			all = append(all, tool)
		}
	}
	return all
}

// ListResources returns every resource of every registered module.
func ListResources() []Resource {
	var all []Resource
	for _, name := range ListModules() {
		all = append(all, registry[name].Resources()...)
	}
	return all
}

// findOwner locates the module exposing the named tool. Tool names are
// globally unique across modules; registration order does not matter.
func findOwner(toolName string) (Module, Tool, bool) {
	for _, name := range ListModules() {
		m := registry[name]
		if tool, ok := findTool(m.Tools(), toolName); ok {
			return m, tool, true
		}
	}
	return nil, Tool{}, false
}

// =============================================================================
// Tool Execution
// =============================================================================

// toolTimeout is the maximum duration for a single tool execution.
const toolTimeout = 30 * time.Second

// Dispatch validates and executes one tool call by tool name. Errors
// from the tool surface as IsError results, never as Go errors: the
// protocol layer maps only transport faults to JSON-RPC errors.
func Dispatch(ctx context.Context, toolName string, params map[string]any) (*ToolCallResult, error) {
	start := time.Now()

	m, tool, ok := findOwner(toolName)
	if !ok {
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Unknown tool: %s", toolName)}},
			IsError: true,
		}, nil
	}

	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}
	params = validated

	// Apply timeout to prevent external API calls from hanging indefinitely
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	ctx, span := observability.Tracer().Start(ctx, "tool."+toolName)
	span.SetAttributes(
		attribute.String("mcp.module", m.Name()),
		attribute.String("mcp.tool", toolName),
	)
	defer span.End()

	result, err := m.ExecuteTool(ctx, toolName, params)
	durationMs := time.Since(start).Milliseconds()
	requestID := middleware.GetRequestID(ctx)
	authCtx := middleware.GetAuthContext(ctx)
	clientID := ""
	if authCtx != nil {
		clientID = authCtx.ClientID
	}

	if err != nil {
		errMsg := err.Error()
		if ctx.Err() == context.DeadlineExceeded {
			errMsg = fmt.Sprintf("Request to %s timed out after %s. The external service did not respond in time.", m.Name(), toolTimeout)
		}
		span.SetStatus(codes.Error, errMsg)
		observability.LogToolCall(requestID, clientID, m.Name(), toolName, durationMs, "error", errMsg)
		observability.RecordToolCall(ctx, m.Name(), toolName, "error", durationMs)
		return &ToolCallResult{
			Content: []ContentBlock{{Type: "text", Text: errMsg}},
			IsError: true,
		}, nil
	}

	span.SetStatus(codes.Ok, "")
	observability.LogToolCall(requestID, clientID, m.Name(), toolName, durationMs, "success", "")
	observability.RecordToolCall(ctx, m.Name(), toolName, "success", durationMs)
	return &ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: result}},
	}, nil
}

// ApplyCompact converts a JSON result to compact format for a given
// module and tool. Returns the original JSON if the module has no
// CompactConverter.
func ApplyCompact(moduleName, toolName, jsonResult string) string {
	m, ok := registry[moduleName]
	if !ok {
		return jsonResult
	}
	if converter, ok := m.(CompactConverter); ok {
		return converter.ToCompact(toolName, jsonResult)
	}
	return jsonResult
}

// ReadResource resolves a resource URI against every registered module
// until one claims it.
func ReadResource(ctx context.Context, uri string) (string, error) {
	for _, name := range ListModules() {
		m := registry[name]
		for _, res := range m.Resources() {
			if res.URI == uri {
				return m.ReadResource(ctx, uri)
			}
		}
	}
	return "", fmt.Errorf("unknown resource: %s", uri)
}
