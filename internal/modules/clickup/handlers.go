package clickup

import (
	"context"
	"encoding/json"

	"clickupmcp/server/internal/modules"
	"clickupmcp/server/pkg/clickupapi"
)

// =============================================================================
// Tool Handlers
// =============================================================================

type toolHandler func(ctx context.Context, params map[string]any) (string, error)

var toolHandlers = map[string]toolHandler{
	"get_authorized_teams": getAuthorizedTeams,
	"get_team_members":     getTeamMembers,
	"get_user":             getUser,
	"get_spaces":           getSpaces,
	"get_space":            getSpace,
	"create_space":         createSpace,
	"update_space":         updateSpace,
	"delete_space":         deleteSpace,
	"get_folders":          getFolders,
	"get_folder":           getFolder,
	"create_folder":        createFolder,
	"update_folder":        updateFolder,
	"delete_folder":        deleteFolder,
	"get_lists":            getLists,
	"get_list":             getList,
	"create_list":          createList,
	"update_list":          updateList,
	"delete_list":          deleteList,
	"get_tasks":            getTasks,
	"get_task":             getTask,
	"create_task":          createTask,
	"update_task":          updateTask,
	"delete_task":          deleteTask,
	"set_custom_field":     setCustomField,
	"clear_custom_field":   clearCustomField,
	"add_dependency":       addDependency,
	"get_comments":         getComments,
	"add_comment":          addComment,
	"update_comment":       updateComment,
	"delete_comment":       deleteComment,
	"get_tags":             getTags,
	"add_tag":              addTag,
	"delete_tag":           deleteTag,
}

// =============================================================================
// Teams and user
// =============================================================================

func getAuthorizedTeams(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	teams, err := c.GetTeams(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(teams)
}

func getTeamMembers(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTeamMembersRequest(strArg(args, "team_id"))
	if err != nil {
		return "", err
	}
	members, err := c.GetTeamMembers(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(members)
}

func getUser(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	user, err := c.GetUser(ctx)
	if err != nil {
		return "", err
	}
	return toJSON(user)
}

// =============================================================================
// Spaces
// =============================================================================

func getSpaces(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewSpacesRequest(strArg(args, "team_id"))
	if err != nil {
		return "", err
	}
	if v, ok := boolArg(args, "archived"); ok {
		req.Archived = v
	}
	spaces, err := c.GetSpaces(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(spaces)
}

func getSpace(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewSpaceRequest(strArg(args, "space_id"))
	if err != nil {
		return "", err
	}
	space, err := c.GetSpace(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(space)
}

func createSpace(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCreateSpaceRequest(strArg(args, "team_id"), strArg(args, "name"))
	if err != nil {
		return "", err
	}
	setString(&req.Description, args, "description")
	setBool(&req.MultipleAssignees, args, "multiple_assignees")
	setBool(&req.Private, args, "private")
	if f, ok := args["features"].(map[string]any); ok {
		req.Features = f
	}
	space, err := c.CreateSpace(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(space)
}

func updateSpace(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewUpdateSpaceRequest(strArg(args, "space_id"))
	if err != nil {
		return "", err
	}
	setString(&req.Name, args, "name")
	setString(&req.Color, args, "color")
	setBool(&req.Private, args, "private")
	setBool(&req.AdminCanManage, args, "admin_can_manage")
	setBool(&req.MultipleAssignees, args, "multiple_assignees")
	if f, ok := args["features"].(map[string]any); ok {
		req.Features = f
	}
	space, err := c.UpdateSpace(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(space)
}

func deleteSpace(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewSpaceRequest(strArg(args, "space_id"))
	if err != nil {
		return "", err
	}
	if err := c.DeleteSpace(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"deleted": true, "id": req.SpaceID})
}

// =============================================================================
// Folders
// =============================================================================

func getFolders(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewFoldersRequest(strArg(args, "space_id"))
	if err != nil {
		return "", err
	}
	if v, ok := boolArg(args, "archived"); ok {
		req.Archived = v
	}
	folders, err := c.GetFolders(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(folders)
}

func getFolder(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewFolderRequest(strArg(args, "folder_id"))
	if err != nil {
		return "", err
	}
	folder, err := c.GetFolder(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(folder)
}

func createFolder(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCreateFolderRequest(strArg(args, "space_id"), strArg(args, "name"))
	if err != nil {
		return "", err
	}
	folder, err := c.CreateFolder(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(folder)
}

func updateFolder(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewUpdateFolderRequest(strArg(args, "folder_id"))
	if err != nil {
		return "", err
	}
	setString(&req.Name, args, "name")
	folder, err := c.UpdateFolder(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(folder)
}

func deleteFolder(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewFolderRequest(strArg(args, "folder_id"))
	if err != nil {
		return "", err
	}
	if err := c.DeleteFolder(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"deleted": true, "id": req.FolderID})
}

// =============================================================================
// Lists
// =============================================================================

func getLists(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewListsRequest(strArg(args, "folder_id"), strArg(args, "space_id"))
	if err != nil {
		return "", err
	}
	if v, ok := boolArg(args, "archived"); ok {
		req.Archived = v
	}
	lists, err := c.GetLists(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(lists)
}

func getList(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewListRequest(strArg(args, "list_id"))
	if err != nil {
		return "", err
	}
	list, err := c.GetList(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(list)
}

func createList(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCreateListRequest(
		strArg(args, "folder_id"), strArg(args, "space_id"), strArg(args, "name"))
	if err != nil {
		return "", err
	}
	setString(&req.Content, args, "content")
	setInt64(&req.DueDate, args, "due_date")
	setBool(&req.DueDateTime, args, "due_date_time")
	setInt(&req.Priority, args, "priority")
	setString(&req.Assignee, args, "assignee")
	setString(&req.Status, args, "status")
	list, err := c.CreateList(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(list)
}

func updateList(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewUpdateListRequest(strArg(args, "list_id"))
	if err != nil {
		return "", err
	}
	setString(&req.Name, args, "name")
	setString(&req.Content, args, "content")
	setInt64(&req.DueDate, args, "due_date")
	setBool(&req.DueDateTime, args, "due_date_time")
	setInt(&req.Priority, args, "priority")
	setString(&req.Assignee, args, "assignee")
	setString(&req.Status, args, "status")
	setBool(&req.UnsetStatus, args, "unset_status")
	list, err := c.UpdateList(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(list)
}

func deleteList(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewListRequest(strArg(args, "list_id"))
	if err != nil {
		return "", err
	}
	if err := c.DeleteList(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"deleted": true, "id": req.ListID})
}

// =============================================================================
// Tasks
// =============================================================================

func getTasks(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTasksRequest(strArg(args, "list_id"))
	if err != nil {
		return "", err
	}
	if v, ok := intArg(args, "page"); ok {
		req.Page = v
	}
	if v := strArg(args, "order_by"); v != "" {
		req.OrderBy = v
	}
	if v, ok := boolArg(args, "reverse"); ok {
		req.Reverse = v
	}
	if v, ok := boolArg(args, "subtasks"); ok {
		req.Subtasks = v
	}
	if v, ok := boolArg(args, "include_closed"); ok {
		req.IncludeClosed = v
	}
	if v, ok := strSliceArg(args, "statuses"); ok {
		req.Statuses = v
	}
	if v, ok := strSliceArg(args, "assignees"); ok {
		req.Assignees = v
	}
	if v, ok := strSliceArg(args, "tags"); ok {
		req.Tags = v
	}
	setInt64(&req.DueDateGT, args, "due_date_gt")
	setInt64(&req.DueDateLT, args, "due_date_lt")
	setInt64(&req.DateCreatedGT, args, "date_created_gt")
	setInt64(&req.DateCreatedLT, args, "date_created_lt")
	setInt64(&req.DateUpdatedGT, args, "date_updated_gt")
	setInt64(&req.DateUpdatedLT, args, "date_updated_lt")
	tasks, err := c.GetTasks(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(tasks)
}

func getTask(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTaskRequest(strArg(args, "task_id"))
	if err != nil {
		return "", err
	}
	if v, ok := boolArg(args, "custom_task_ids"); ok {
		req.CustomTaskIDs = v
		req.TeamID = strArg(args, "team_id")
	}
	task, err := c.GetTask(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(task)
}

func createTask(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCreateTaskRequest(strArg(args, "list_id"), strArg(args, "name"))
	if err != nil {
		return "", err
	}
	setString(&req.Description, args, "description")
	setStrings(&req.Assignees, args, "assignees")
	setStrings(&req.Tags, args, "tags")
	setString(&req.Status, args, "status")
	setInt(&req.Priority, args, "priority")
	setInt64(&req.DueDate, args, "due_date")
	setBool(&req.DueDateTime, args, "due_date_time")
	setInt64(&req.TimeEstimate, args, "time_estimate")
	setInt64(&req.StartDate, args, "start_date")
	setBool(&req.StartDateTime, args, "start_date_time")
	setBool(&req.NotifyAll, args, "notify_all")
	setString(&req.Parent, args, "parent")
	setString(&req.LinksTo, args, "links_to")
	req.CustomFields = customFieldsArg(args)
	task, err := c.CreateTask(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(task)
}

func updateTask(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewUpdateTaskRequest(strArg(args, "task_id"))
	if err != nil {
		return "", err
	}
	setString(&req.Name, args, "name")
	setString(&req.Description, args, "description")
	setStrings(&req.Assignees, args, "assignees")
	setStrings(&req.Tags, args, "tags")
	setString(&req.Status, args, "status")
	setInt(&req.Priority, args, "priority")
	setInt64(&req.DueDate, args, "due_date")
	setBool(&req.DueDateTime, args, "due_date_time")
	setInt64(&req.TimeEstimate, args, "time_estimate")
	setInt64(&req.StartDate, args, "start_date")
	setBool(&req.StartDateTime, args, "start_date_time")
	setString(&req.Parent, args, "parent")
	req.CustomFields = customFieldsArg(args)
	task, err := c.UpdateTask(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(task)
}

func deleteTask(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTaskRequest(strArg(args, "task_id"))
	if err != nil {
		return "", err
	}
	if err := c.DeleteTask(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"deleted": true, "id": req.TaskID})
}

// =============================================================================
// Comments and tags
// =============================================================================

func getComments(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCommentsRequest(strArg(args, "task_id"))
	if err != nil {
		return "", err
	}
	comments, err := c.GetComments(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(comments)
}

func addComment(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCreateCommentRequest(strArg(args, "task_id"), strArg(args, "comment_text"))
	if err != nil {
		return "", err
	}
	setBool(&req.NotifyAll, args, "notify_all")
	setString(&req.Assignee, args, "assignee")
	comment, err := c.CreateComment(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(comment)
}

func updateComment(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewUpdateCommentRequest(
		strArg(args, "task_id"), strArg(args, "comment_id"), strArg(args, "comment_text"))
	if err != nil {
		return "", err
	}
	comment, err := c.UpdateComment(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(comment)
}

func deleteComment(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCommentRequest(strArg(args, "task_id"), strArg(args, "comment_id"))
	if err != nil {
		return "", err
	}
	if err := c.DeleteComment(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"deleted": true, "taskId": req.TaskID, "commentId": req.CommentID})
}

func setCustomField(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCustomFieldRequest(strArg(args, "task_id"), strArg(args, "field_id"))
	if err != nil {
		return "", err
	}
	req.Value = args["value"]
	if err := c.SetCustomField(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"set": true, "taskId": req.TaskID, "fieldId": req.FieldID})
}

func clearCustomField(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewCustomFieldRequest(strArg(args, "task_id"), strArg(args, "field_id"))
	if err != nil {
		return "", err
	}
	if err := c.ClearCustomField(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"cleared": true, "taskId": req.TaskID, "fieldId": req.FieldID})
}

func addDependency(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewDependencyRequest(strArg(args, "task_id"), strArg(args, "depends_on"))
	if err != nil {
		return "", err
	}
	if v := strArg(args, "dependency_type"); v != "" {
		req.DependencyType = v
	}
	if err := c.AddDependency(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"added": true, "taskId": req.TaskID, "dependsOn": req.DependsOn})
}

func getTags(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTaskTagsRequest(strArg(args, "task_id"))
	if err != nil {
		return "", err
	}
	tags, err := c.GetTaskTags(ctx, req)
	if err != nil {
		return "", err
	}
	return toJSON(tags)
}

func addTag(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTagRequest(strArg(args, "task_id"), strArg(args, "tag_name"))
	if err != nil {
		return "", err
	}
	if err := c.AddTag(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"added": true, "taskId": req.TaskID, "tag": req.TagName})
}

func deleteTag(ctx context.Context, params map[string]any) (string, error) {
	c, err := apiClient()
	if err != nil {
		return "", err
	}
	args := clickupapi.NormalizeKeys(params)
	req, err := clickupapi.NewTagRequest(strArg(args, "task_id"), strArg(args, "tag_name"))
	if err != nil {
		return "", err
	}
	if err := c.RemoveTag(ctx, req); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"removed": true, "taskId": req.TaskID, "tag": req.TagName})
}

// =============================================================================
// Param helpers
// =============================================================================

func strArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]any, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

// intArg accepts the numeric shapes JSON decoding produces.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func int64Arg(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func strSliceArg(args map[string]any, key string) ([]string, bool) {
	v, ok := args[key].([]any)
	if !ok {
		return nil, false
	}
	return modules.ToStringSlice(v), true
}

func setString(dst *clickupapi.Opt[string], args map[string]any, key string) {
	if v, ok := args[key].(string); ok {
		dst.SetTo(v)
	}
}

func setBool(dst *clickupapi.Opt[bool], args map[string]any, key string) {
	if v, ok := args[key].(bool); ok {
		dst.SetTo(v)
	}
}

func setInt(dst *clickupapi.Opt[int], args map[string]any, key string) {
	if v, ok := intArg(args, key); ok {
		dst.SetTo(v)
	}
}

func setInt64(dst *clickupapi.Opt[int64], args map[string]any, key string) {
	if v, ok := int64Arg(args, key); ok {
		dst.SetTo(v)
	}
}

func setStrings(dst *clickupapi.Opt[[]string], args map[string]any, key string) {
	if v, ok := strSliceArg(args, key); ok {
		dst.SetTo(v)
	}
}

// customFieldsArg reads a custom_fields array of {id, value} objects.
// Entries without an id are dropped.
func customFieldsArg(args map[string]any) []clickupapi.CustomField {
	raw, ok := args["custom_fields"].([]any)
	if !ok {
		return nil
	}
	fields := make([]clickupapi.CustomField, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}
		fields = append(fields, clickupapi.CustomField{ID: id, Value: m["value"]})
	}
	return fields
}
