package clickup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Compact formatters per tool
// =============================================================================

func formatCompact(toolName, jsonStr string) string {
	switch toolName {
	case "get_authorized_teams":
		return teamsToCSV(jsonStr)
	case "get_team_members":
		return usersToCSV(jsonStr)
	case "get_user":
		return userToCompact(jsonStr)
	case "get_spaces":
		return spacesToCSV(jsonStr)
	case "get_space":
		return spaceToCompact(jsonStr)
	case "get_folders":
		return foldersToCSV(jsonStr)
	case "get_lists":
		return listsToCSV(jsonStr)
	case "get_tasks":
		return tasksToCSV(jsonStr)
	case "get_task":
		return taskToCompact(jsonStr)
	case "get_comments":
		return commentsToCSV(jsonStr)
	case "create_space", "update_space":
		return pickKeys(jsonStr, "id", "name", "private")
	case "create_folder", "update_folder":
		return pickKeys(jsonStr, "id", "name", "spaceId")
	case "create_list", "update_list":
		return pickKeys(jsonStr, "id", "name", "folderId", "spaceId")
	case "create_task", "update_task":
		return pickKeys(jsonStr, "id", "name", "status", "listId", "url")
	case "add_comment", "update_comment":
		return pickKeys(jsonStr, "id", "text")
	default:
		return jsonStr
	}
}

// pickKeys extracts specified keys from a JSON object.
func pickKeys(jsonStr string, keys ...string) string {
	var data map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return jsonStr
	}
	result := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			result[k] = v
		}
	}
	out, err := json.Marshal(result)
	if err != nil {
		return jsonStr
	}
	return string(out)
}

// teamsToCSV: id,name,color
func teamsToCSV(jsonStr string) string {
	var teams []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &teams); err != nil {
		return jsonStr
	}
	if len(teams) == 0 {
		return "# 0 teams"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,name,color\n")
	for _, t := range teams {
		sb.WriteString(fmt.Sprintf("%s,%s,%s\n",
			csvEscape(str(t, "id")),
			csvEscape(str(t, "name")),
			str(t, "color"),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// usersToCSV: id,username,email
func usersToCSV(jsonStr string) string {
	var users []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &users); err != nil {
		return jsonStr
	}
	if len(users) == 0 {
		return "# 0 members"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,username,email\n")
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("%s,%s,%s\n",
			csvEscape(str(u, "id")),
			csvEscape(str(u, "username")),
			csvEscape(str(u, "email")),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// userToCompact: single user summary
func userToCompact(jsonStr string) string {
	var u map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &u); err != nil {
		return jsonStr
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", str(u, "username")))
	sb.WriteString(fmt.Sprintf("- **ID**: %s\n", str(u, "id")))
	if email := str(u, "email"); email != "" {
		sb.WriteString(fmt.Sprintf("- **Email**: %s\n", email))
	}
	if tz := str(u, "timezone"); tz != "" {
		sb.WriteString(fmt.Sprintf("- **Timezone**: %s\n", tz))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// spacesToCSV: id,name,private,archived
func spacesToCSV(jsonStr string) string {
	var spaces []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &spaces); err != nil {
		return jsonStr
	}
	if len(spaces) == 0 {
		return "# 0 spaces"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,name,private,archived\n")
	for _, s := range spaces {
		sb.WriteString(fmt.Sprintf("%s,%s,%v,%v\n",
			csvEscape(str(s, "id")),
			csvEscape(str(s, "name")),
			boolOf(s, "private"),
			boolOf(s, "archived"),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// spaceToCompact: single space summary
func spaceToCompact(jsonStr string) string {
	var s map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
		return jsonStr
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", str(s, "name")))
	sb.WriteString(fmt.Sprintf("- **ID**: %s\n", str(s, "id")))
	if boolOf(s, "private") {
		sb.WriteString("- **Visibility**: Private\n")
	}
	if boolOf(s, "multipleAssignees") {
		sb.WriteString("- **Multiple assignees**: enabled\n")
	}
	if boolOf(s, "archived") {
		sb.WriteString("- **Status**: Archived\n")
	}
	if statuses, ok := s["statuses"].([]any); ok && len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, st := range statuses {
			if sm, ok := st.(map[string]any); ok {
				names = append(names, str(sm, "status"))
			}
		}
		if len(names) > 0 {
			sb.WriteString(fmt.Sprintf("- **Statuses**: %s\n", strings.Join(names, ", ")))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// foldersToCSV: id,name,taskCount,archived
func foldersToCSV(jsonStr string) string {
	var folders []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &folders); err != nil {
		return jsonStr
	}
	if len(folders) == 0 {
		return "# 0 folders"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,name,taskCount,archived\n")
	for _, f := range folders {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%v\n",
			csvEscape(str(f, "id")),
			csvEscape(str(f, "name")),
			num(f, "taskCount"),
			boolOf(f, "archived"),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// listsToCSV: id,name,status,taskCount
func listsToCSV(jsonStr string) string {
	var lists []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &lists); err != nil {
		return jsonStr
	}
	if len(lists) == 0 {
		return "# 0 lists"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,name,status,taskCount\n")
	for _, l := range lists {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s\n",
			csvEscape(str(l, "id")),
			csvEscape(str(l, "name")),
			csvEscape(str(l, "status")),
			num(l, "taskCount"),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// tasksToCSV: id,name,status,priority,dueDate,assignees
func tasksToCSV(jsonStr string) string {
	var tasks []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &tasks); err != nil {
		return jsonStr
	}
	if len(tasks) == 0 {
		return "# 0 tasks"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,name,status,priority,dueDate,assignees\n")
	for _, t := range tasks {
		assignees := ""
		if list, ok := t["assignees"].([]any); ok {
			parts := make([]string, 0, len(list))
			for _, a := range list {
				if s, ok := a.(string); ok {
					parts = append(parts, s)
				}
			}
			assignees = strings.Join(parts, ";")
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
			csvEscape(str(t, "id")),
			csvEscape(str(t, "name")),
			csvEscape(str(t, "status")),
			num(t, "priority"),
			num(t, "dueDate"),
			csvEscape(assignees),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// taskToCompact: single task with description and custom fields
func taskToCompact(jsonStr string) string {
	var t map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &t); err != nil {
		return jsonStr
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n", str(t, "name")))
	sb.WriteString(fmt.Sprintf("- **ID**: %s\n", str(t, "id")))
	if status := str(t, "status"); status != "" {
		sb.WriteString(fmt.Sprintf("- **Status**: %s\n", status))
	}
	if p := num(t, "priority"); p != "" && p != "0" {
		sb.WriteString(fmt.Sprintf("- **Priority**: %s\n", p))
	}
	if listID := str(t, "listId"); listID != "" {
		sb.WriteString(fmt.Sprintf("- **List**: %s\n", listID))
	}
	if due := num(t, "dueDate"); due != "" {
		sb.WriteString(fmt.Sprintf("- **Due**: %s\n", due))
	}
	if url := str(t, "url"); url != "" {
		sb.WriteString(fmt.Sprintf("- **URL**: %s\n", url))
	}
	if list, ok := t["assignees"].([]any); ok && len(list) > 0 {
		parts := make([]string, 0, len(list))
		for _, a := range list {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		sb.WriteString(fmt.Sprintf("- **Assignees**: %s\n", strings.Join(parts, ", ")))
	}
	if list, ok := t["tags"].([]any); ok && len(list) > 0 {
		parts := make([]string, 0, len(list))
		for _, tag := range list {
			if s, ok := tag.(string); ok {
				parts = append(parts, s)
			}
		}
		sb.WriteString(fmt.Sprintf("- **Tags**: %s\n", strings.Join(parts, ", ")))
	}
	if desc := str(t, "description"); desc != "" {
		sb.WriteString(fmt.Sprintf("\n## Description\n%s\n", desc))
	}
	if fields, ok := t["customFields"].([]any); ok && len(fields) > 0 {
		sb.WriteString("\n```csv\nfield_id,field_name,value\n")
		for _, f := range fields {
			fm, ok := f.(map[string]any)
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s,%s,%s\n",
				csvEscape(str(fm, "id")),
				csvEscape(str(fm, "name")),
				csvEscape(anyString(fm["value"])),
			))
		}
		sb.WriteString("```\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// commentsToCSV: id,username,date,text
func commentsToCSV(jsonStr string) string {
	var comments []map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &comments); err != nil {
		return jsonStr
	}
	if len(comments) == 0 {
		return "# 0 comments"
	}
	var sb strings.Builder
	sb.WriteString("```csv\nid,username,date,text\n")
	for _, c := range comments {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s\n",
			csvEscape(str(c, "id")),
			csvEscape(str(c, "username")),
			num(c, "date"),
			csvEscape(str(c, "text")),
		))
	}
	sb.WriteString("```")
	return sb.String()
}

// =============================================================================
// Helpers
// =============================================================================

func str(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func boolOf(obj map[string]any, key string) bool {
	v, _ := obj[key].(bool)
	return v
}

// num renders a JSON number without a float exponent, or "" if absent.
func num(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case string:
		return v
	}
	return ""
}

func anyString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func csvEscape(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
