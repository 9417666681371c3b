package clickupapi

import "strings"

// ClickUp's REST API speaks snake_case; MCP tool results are serialized
// with camelCase keys. These two functions are the only place the
// conversion lives, and they must stay inverses of each other for every
// field name in the entity set (see fields_test.go).

// SnakeToCamel converts an underscore-separated identifier to camelCase.
// Single-word identifiers pass through unchanged; empty input yields "".
func SnakeToCamel(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// CamelToSnake converts a camelCase identifier back to snake_case.
// Inverse of SnakeToCamel for identifiers drawn from the known field set.
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FieldNames is the full snake_case field set used across request and
// response models. Kept in one place so the alias round-trip property
// can be checked exhaustively.
var FieldNames = []string{
	"team_id", "space_id", "folder_id", "list_id", "task_id",
	"name", "description", "content", "status", "priority",
	"multiple_assignees", "features", "private",
	"due_date", "due_date_time", "start_date", "start_date_time",
	"time_estimate", "time_spent", "assignee", "assignees", "tags",
	"notify_all", "parent", "links_to", "check_required_custom_fields",
	"custom_fields", "custom_task_ids", "custom_id",
	"page", "order_by", "reverse", "subtasks", "include_closed",
	"statuses", "due_date_gt", "due_date_lt",
	"date_created_gt", "date_created_lt",
	"date_updated_gt", "date_updated_lt",
	"date_created", "date_updated", "date_closed", "date_done",
	"username", "email", "color", "profile_picture", "initials",
	"week_start_day", "global_font_support", "timezone",
	"orderindex", "override_statuses", "hidden", "task_count",
	"admin_can_manage", "avatar", "archived", "permission_level",
	"text_content", "url", "id", "type", "value", "field_id",
	"comment_id", "comment_text", "depends_on", "dependency_type",
}

var knownFieldSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(FieldNames))
	for _, name := range FieldNames {
		set[name] = struct{}{}
	}
	return set
}()

// NormalizeKeys rewrites camelCase keys in an inbound argument map to
// their snake_case form. Only keys from the known field set are
// translated; anything else passes through verbatim. The snake_case
// spelling wins when both conventions name the same field.
func NormalizeKeys(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		snake := CamelToSnake(k)
		if snake == k {
			out[k] = v
			continue
		}
		if _, known := knownFieldSet[snake]; !known {
			out[k] = v
			continue
		}
		if _, exists := args[snake]; exists {
			continue
		}
		out[snake] = v
	}
	return out
}

// CamelKeys returns a copy of payload with every key converted to
// camelCase. Used when echoing normalized objects back to protocol
// clients.
func CamelKeys(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[SnakeToCamel(k)] = v
	}
	return out
}
