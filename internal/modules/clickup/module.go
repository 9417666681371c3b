package clickup

import (
	"context"
	"fmt"

	"clickupmcp/server/internal/modules"
	"clickupmcp/server/pkg/clickupapi"
)

const clickupVersion = "v2"

var toJSON = modules.ToJSON

// ClickUpModule implements the Module interface for the ClickUp API
type ClickUpModule struct{}

// New creates a new ClickUpModule instance
func New() *ClickUpModule {
	return &ClickUpModule{}
}

// Name returns the module name
func (m *ClickUpModule) Name() string {
	return "clickup"
}

// Description returns the module description
func (m *ClickUpModule) Description() string {
	return "ClickUp API - Manage teams, spaces, folders, lists, and tasks"
}

// APIVersion returns the ClickUp API version
func (m *ClickUpModule) APIVersion() string {
	return clickupVersion
}

// Tools returns all available tools
func (m *ClickUpModule) Tools() []modules.Tool {
	return toolDefinitions
}

// ExecuteTool executes a tool by name and returns JSON response
func (m *ClickUpModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	handler, ok := toolHandlers[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	return handler(ctx, params)
}

// ToCompact converts JSON result to compact format.
// Implements modules.CompactConverter interface.
func (m *ClickUpModule) ToCompact(toolName string, jsonResult string) string {
	return formatCompact(toolName, jsonResult)
}

// recentEventLimit caps the events resource payload.
const recentEventLimit = 50

// EventSource supplies captured webhook events for the events resource.
type EventSource interface {
	RecentEvents(ctx context.Context, limit int) ([]map[string]any, error)
}

var eventSource EventSource

// Resources returns all available resources
func (m *ClickUpModule) Resources() []modules.Resource {
	return []modules.Resource{
		{
			URI:         "clickup://events/recent",
			Name:        "Recent webhook events",
			Description: "Most recent ClickUp webhook events received by this server.",
			MimeType:    "application/json",
		},
	}
}

// ReadResource reads a resource by URI
func (m *ClickUpModule) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "clickup://events/recent":
		if eventSource == nil {
			return "", fmt.Errorf("webhook event capture is not configured")
		}
		events, err := eventSource.RecentEvents(ctx, recentEventLimit)
		if err != nil {
			return "", err
		}
		return toJSON(events)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// =============================================================================
// Client
// =============================================================================

var defaultClient *clickupapi.Client

// Init wires the API client used by every tool handler.
func Init(c *clickupapi.Client) {
	defaultClient = c
}

// SetEventSource wires the backing store for the events resource.
func SetEventSource(src EventSource) {
	eventSource = src
}

func apiClient() (*clickupapi.Client, error) {
	if defaultClient == nil {
		return nil, fmt.Errorf("clickup client not configured")
	}
	return defaultClient, nil
}

// =============================================================================
// Tool Definitions
// =============================================================================

var toolDefinitions = []modules.Tool{
	// Teams
	{
		Name:        "get_authorized_teams",
		Description: "List the teams (workspaces) visible to the configured API token.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type:       "object",
			Properties: map[string]modules.Property{},
		},
	},
	{
		Name:        "get_team_members",
		Description: "List the members of a team.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"team_id": {Type: "string", Description: "Team (workspace) ID"},
			},
			Required: []string{"team_id"},
		},
	},
	{
		Name:        "get_user",
		Description: "Get the user profile of the configured API token.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type:       "object",
			Properties: map[string]modules.Property{},
		},
	},
	// Spaces
	{
		Name:        "get_spaces",
		Description: "List the spaces of a team.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"team_id":  {Type: "string", Description: "Team (workspace) ID"},
				"archived": {Type: "boolean", Description: "Include archived spaces"},
			},
			Required: []string{"team_id"},
		},
	},
	{
		Name:        "get_space",
		Description: "Get details of a specific space.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"space_id": {Type: "string", Description: "Space ID"},
			},
			Required: []string{"space_id"},
		},
	},
	{
		Name:        "create_space",
		Description: "Create a new space in a team.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"team_id":            {Type: "string", Description: "Team (workspace) ID"},
				"name":               {Type: "string", Description: "Space name"},
				"description":        {Type: "string", Description: "Space description"},
				"multiple_assignees": {Type: "boolean", Description: "Allow multiple assignees per task"},
				"private":            {Type: "boolean", Description: "Make the space private"},
				"features":           {Type: "object", Description: "Feature toggles, passed through as-is"},
			},
			Required: []string{"team_id", "name"},
		},
	},
	{
		Name:        "update_space",
		Description: "Update a space. Only the fields provided are changed.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"space_id":           {Type: "string", Description: "Space ID"},
				"name":               {Type: "string", Description: "New space name"},
				"color":              {Type: "string", Description: "Space color"},
				"private":            {Type: "boolean", Description: "Make the space private"},
				"admin_can_manage":   {Type: "boolean", Description: "Allow admins to manage the private space"},
				"multiple_assignees": {Type: "boolean", Description: "Allow multiple assignees per task"},
				"features":           {Type: "object", Description: "Feature toggles, passed through as-is"},
			},
			Required: []string{"space_id"},
		},
	},
	{
		Name:        "delete_space",
		Description: "Delete a space.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"space_id": {Type: "string", Description: "Space ID"},
			},
			Required: []string{"space_id"},
		},
	},
	// Folders
	{
		Name:        "get_folders",
		Description: "List the folders of a space.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"space_id": {Type: "string", Description: "Space ID"},
				"archived": {Type: "boolean", Description: "Include archived folders"},
			},
			Required: []string{"space_id"},
		},
	},
	{
		Name:        "get_folder",
		Description: "Get details of a specific folder.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"folder_id": {Type: "string", Description: "Folder ID"},
			},
			Required: []string{"folder_id"},
		},
	},
	{
		Name:        "create_folder",
		Description: "Create a new folder in a space.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"space_id": {Type: "string", Description: "Space ID"},
				"name":     {Type: "string", Description: "Folder name"},
			},
			Required: []string{"space_id", "name"},
		},
	},
	{
		Name:        "update_folder",
		Description: "Rename a folder.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"folder_id": {Type: "string", Description: "Folder ID"},
				"name":      {Type: "string", Description: "New folder name"},
			},
			Required: []string{"folder_id"},
		},
	},
	{
		Name:        "delete_folder",
		Description: "Delete a folder.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"folder_id": {Type: "string", Description: "Folder ID"},
			},
			Required: []string{"folder_id"},
		},
	},
	// Lists
	{
		Name:        "get_lists",
		Description: "List the lists in a folder, or the folderless lists of a space.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"folder_id": {Type: "string", Description: "Folder ID (takes precedence over space_id)"},
				"space_id":  {Type: "string", Description: "Space ID, for folderless lists"},
				"archived":  {Type: "boolean", Description: "Include archived lists"},
			},
		},
	},
	{
		Name:        "get_list",
		Description: "Get details of a specific list.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"list_id": {Type: "string", Description: "List ID"},
			},
			Required: []string{"list_id"},
		},
	},
	{
		Name:        "create_list",
		Description: "Create a new list in a folder or directly in a space.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"folder_id":     {Type: "string", Description: "Folder ID (takes precedence over space_id)"},
				"space_id":      {Type: "string", Description: "Space ID, for a folderless list"},
				"name":          {Type: "string", Description: "List name"},
				"content":       {Type: "string", Description: "List description"},
				"due_date":      {Type: "number", Description: "Due date (Unix ms)"},
				"due_date_time": {Type: "boolean", Description: "Whether due_date includes a time component"},
				"priority":      {Type: "number", Description: "Priority, 0 (none) to 4 (low)"},
				"assignee":      {Type: "string", Description: "Assignee user ID"},
				"status":        {Type: "string", Description: "List status label"},
			},
			Required: []string{"name"},
		},
	},
	{
		Name:        "update_list",
		Description: "Update a list. Only the fields provided are changed.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"list_id":       {Type: "string", Description: "List ID"},
				"name":          {Type: "string", Description: "New list name"},
				"content":       {Type: "string", Description: "List description"},
				"due_date":      {Type: "number", Description: "Due date (Unix ms)"},
				"due_date_time": {Type: "boolean", Description: "Whether due_date includes a time component"},
				"priority":      {Type: "number", Description: "Priority, 0 (none) to 4 (low)"},
				"assignee":      {Type: "string", Description: "Assignee user ID"},
				"status":        {Type: "string", Description: "List status label"},
				"unset_status":  {Type: "boolean", Description: "Clear the list status"},
			},
			Required: []string{"list_id"},
		},
	},
	{
		Name:        "delete_list",
		Description: "Delete a list.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"list_id": {Type: "string", Description: "List ID"},
			},
			Required: []string{"list_id"},
		},
	},
	// Tasks
	{
		Name:        "get_tasks",
		Description: "List the tasks in a list, with optional filters.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"list_id":         {Type: "string", Description: "List ID"},
				"page":            {Type: "number", Description: "Page number, starting at 0"},
				"order_by":        {Type: "string", Description: "Sort field: created, updated, due_date, or id"},
				"reverse":         {Type: "boolean", Description: "Reverse the sort order"},
				"subtasks":        {Type: "boolean", Description: "Include subtasks"},
				"include_closed":  {Type: "boolean", Description: "Include closed tasks"},
				"statuses":        {Type: "array", Description: "Filter by status names", Items: &modules.Property{Type: "string"}},
				"assignees":       {Type: "array", Description: "Filter by assignee user IDs", Items: &modules.Property{Type: "string"}},
				"tags":            {Type: "array", Description: "Filter by tag names", Items: &modules.Property{Type: "string"}},
				"due_date_gt":     {Type: "number", Description: "Due date greater than (Unix ms)"},
				"due_date_lt":     {Type: "number", Description: "Due date less than (Unix ms)"},
				"date_created_gt": {Type: "number", Description: "Created after (Unix ms)"},
				"date_created_lt": {Type: "number", Description: "Created before (Unix ms)"},
				"date_updated_gt": {Type: "number", Description: "Updated after (Unix ms)"},
				"date_updated_lt": {Type: "number", Description: "Updated before (Unix ms)"},
			},
			Required: []string{"list_id"},
		},
	},
	{
		Name:        "get_task",
		Description: "Get details of a specific task.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":         {Type: "string", Description: "Task ID"},
				"custom_task_ids": {Type: "boolean", Description: "Treat task_id as a custom task ID"},
				"team_id":         {Type: "string", Description: "Team ID, required with custom_task_ids"},
			},
			Required: []string{"task_id"},
		},
	},
	{
		Name:        "create_task",
		Description: "Create a new task in a list.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"list_id":         {Type: "string", Description: "List ID"},
				"name":            {Type: "string", Description: "Task name"},
				"description":     {Type: "string", Description: "Task description"},
				"assignees":       {Type: "array", Description: "Assignee user IDs", Items: &modules.Property{Type: "string"}},
				"tags":            {Type: "array", Description: "Tag names", Items: &modules.Property{Type: "string"}},
				"status":          {Type: "string", Description: "Task status name"},
				"priority":        {Type: "number", Description: "Priority, 0 (none) to 4 (low)"},
				"due_date":        {Type: "number", Description: "Due date (Unix ms)"},
				"due_date_time":   {Type: "boolean", Description: "Whether due_date includes a time component"},
				"time_estimate":   {Type: "number", Description: "Time estimate (ms)"},
				"start_date":      {Type: "number", Description: "Start date (Unix ms)"},
				"start_date_time": {Type: "boolean", Description: "Whether start_date includes a time component"},
				"notify_all":      {Type: "boolean", Description: "Notify all assignees (default true)"},
				"parent":          {Type: "string", Description: "Parent task ID for a subtask"},
				"links_to":        {Type: "string", Description: "Task ID to link this task to"},
				"custom_fields":   {Type: "array", Description: "Custom field values as {id, value} objects", Items: &modules.Property{Type: "object"}},
			},
			Required: []string{"list_id", "name"},
		},
	},
	{
		Name:        "update_task",
		Description: "Update a task. Only the fields provided are changed.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":         {Type: "string", Description: "Task ID"},
				"name":            {Type: "string", Description: "New task name"},
				"description":     {Type: "string", Description: "Task description"},
				"assignees":       {Type: "array", Description: "Assignee user IDs, replaces the current set", Items: &modules.Property{Type: "string"}},
				"tags":            {Type: "array", Description: "Tag names, replaces the current set", Items: &modules.Property{Type: "string"}},
				"status":          {Type: "string", Description: "Task status name"},
				"priority":        {Type: "number", Description: "Priority, 0 (none) to 4 (low)"},
				"due_date":        {Type: "number", Description: "Due date (Unix ms)"},
				"due_date_time":   {Type: "boolean", Description: "Whether due_date includes a time component"},
				"time_estimate":   {Type: "number", Description: "Time estimate (ms)"},
				"start_date":      {Type: "number", Description: "Start date (Unix ms)"},
				"start_date_time": {Type: "boolean", Description: "Whether start_date includes a time component"},
				"parent":          {Type: "string", Description: "New parent task ID"},
				"custom_fields":   {Type: "array", Description: "Custom field values as {id, value} objects", Items: &modules.Property{Type: "object"}},
			},
			Required: []string{"task_id"},
		},
	},
	{
		Name:        "delete_task",
		Description: "Delete a task.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id": {Type: "string", Description: "Task ID"},
			},
			Required: []string{"task_id"},
		},
	},
	{
		Name:        "set_custom_field",
		Description: "Set a single custom field value on a task.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":  {Type: "string", Description: "Task ID"},
				"field_id": {Type: "string", Description: "Custom field ID"},
				"value":    {Description: "Field value; the expected shape depends on the field type"},
			},
			Required: []string{"task_id", "field_id"},
		},
	},
	{
		Name:        "clear_custom_field",
		Description: "Clear a custom field value from a task.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":  {Type: "string", Description: "Task ID"},
				"field_id": {Type: "string", Description: "Custom field ID"},
			},
			Required: []string{"task_id", "field_id"},
		},
	},
	{
		Name:        "add_dependency",
		Description: "Add a dependency between tasks.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":         {Type: "string", Description: "Task ID"},
				"depends_on":      {Type: "string", Description: "ID of the task this task depends on"},
				"dependency_type": {Type: "string", Description: "Dependency relation, defaults to waiting_on"},
			},
			Required: []string{"task_id", "depends_on"},
		},
	},
	// Comments
	{
		Name:        "get_comments",
		Description: "List the comments on a task.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id": {Type: "string", Description: "Task ID"},
			},
			Required: []string{"task_id"},
		},
	},
	{
		Name:        "add_comment",
		Description: "Add a comment to a task.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":      {Type: "string", Description: "Task ID"},
				"comment_text": {Type: "string", Description: "Comment body"},
				"notify_all":   {Type: "boolean", Description: "Notify everyone on the task"},
				"assignee":     {Type: "string", Description: "User ID to assign the comment to"},
			},
			Required: []string{"task_id", "comment_text"},
		},
	},
	{
		Name:        "update_comment",
		Description: "Replace the text of a comment on a task.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":      {Type: "string", Description: "Task ID"},
				"comment_id":   {Type: "string", Description: "Comment ID"},
				"comment_text": {Type: "string", Description: "New comment body"},
			},
			Required: []string{"task_id", "comment_id", "comment_text"},
		},
	},
	{
		Name:        "delete_comment",
		Description: "Delete a comment from a task.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":    {Type: "string", Description: "Task ID"},
				"comment_id": {Type: "string", Description: "Comment ID"},
			},
			Required: []string{"task_id", "comment_id"},
		},
	},
	// Tags
	{
		Name:        "get_tags",
		Description: "List the tag names on a task.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id": {Type: "string", Description: "Task ID"},
			},
			Required: []string{"task_id"},
		},
	},
	{
		Name:        "add_tag",
		Description: "Add a tag to a task.",
		Annotations: modules.AnnotateUpdate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":  {Type: "string", Description: "Task ID"},
				"tag_name": {Type: "string", Description: "Tag name"},
			},
			Required: []string{"task_id", "tag_name"},
		},
	},
	{
		Name:        "delete_tag",
		Description: "Remove a tag from a task.",
		Annotations: modules.AnnotateDelete,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"task_id":  {Type: "string", Description: "Task ID"},
				"tag_name": {Type: "string", Description: "Tag name"},
			},
			Required: []string{"task_id", "tag_name"},
		},
	},
}
