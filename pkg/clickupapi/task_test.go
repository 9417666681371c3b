package clickupapi

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewCreateTaskRequest_Defaults(t *testing.T) {
	r, err := NewCreateTaskRequest("123", "Write report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := ExtractCreateTaskData(r)
	want := map[string]any{
		"name":                         "Write report",
		"notify_all":                   true,
		"check_required_custom_fields": true,
	}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("create data = %v, want %v", data, want)
	}
}

func TestNewCreateTaskRequest_Validation(t *testing.T) {
	if _, err := NewCreateTaskRequest("", "x"); err == nil {
		t.Error("expected error for missing list_id")
	}
	if _, err := NewCreateTaskRequest("123", ""); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreateTaskRequest_PriorityDomain(t *testing.T) {
	tests := []struct {
		priority int
		wantErr  bool
	}{
		{0, false},
		{1, false},
		{4, false},
		{5, true},
		{-1, true},
	}
	for _, tt := range tests {
		r, err := NewCreateTaskRequest("123", "x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r.Priority.SetTo(tt.priority)
		err = r.Validate()
		if tt.wantErr && err == nil {
			t.Errorf("priority %d: expected error, got nil", tt.priority)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("priority %d: unexpected error: %v", tt.priority, err)
		}
		if tt.wantErr && !IsValidation(err) {
			t.Errorf("priority %d: expected validation error, got %v", tt.priority, err)
		}
	}
}

func TestExtractCreateTaskData_ExplicitFalsy(t *testing.T) {
	r, err := NewCreateTaskRequest("123", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Priority.SetTo(0)
	r.NotifyAll.SetTo(false)
	r.Description.SetTo("")

	data := ExtractCreateTaskData(r)
	if v, ok := data["priority"]; !ok || v != 0 {
		t.Errorf("priority = %v (present %v), want explicit 0", v, ok)
	}
	if v, ok := data["notify_all"]; !ok || v != false {
		t.Errorf("notify_all = %v (present %v), want explicit false", v, ok)
	}
	if v, ok := data["description"]; !ok || v != "" {
		t.Errorf("description = %v (present %v), want explicit empty string", v, ok)
	}
}

func TestExtractCreateTaskData_DueDateTimeRequiresDueDate(t *testing.T) {
	r, _ := NewCreateTaskRequest("123", "x")
	r.DueDateTime.SetTo(true)
	data := ExtractCreateTaskData(r)
	if _, ok := data["due_date_time"]; ok {
		t.Error("due_date_time emitted without due_date")
	}

	r.DueDate.SetTo(1700000000000)
	data = ExtractCreateTaskData(r)
	if data["due_date"] != int64(1700000000000) {
		t.Errorf("due_date = %v", data["due_date"])
	}
	if data["due_date_time"] != true {
		t.Errorf("due_date_time = %v", data["due_date_time"])
	}
}

func TestExtractCreateTaskData_CustomFields(t *testing.T) {
	r, _ := NewCreateTaskRequest("123", "x")
	r.CustomFields = []CustomField{
		{ID: "f-1", Name: "ignored", Type: "ignored", Value: "red"},
		{ID: "f-2", Value: 42},
	}
	data := ExtractCreateTaskData(r)
	cf, ok := data["custom_fields"].([]map[string]any)
	if !ok {
		t.Fatalf("custom_fields has type %T", data["custom_fields"])
	}
	want := []map[string]any{
		{"field_id": "f-1", "value": "red"},
		{"field_id": "f-2", "value": 42},
	}
	if !reflect.DeepEqual(cf, want) {
		t.Errorf("custom_fields = %v, want %v", cf, want)
	}
}

func TestExtractUpdateTaskData_Empty(t *testing.T) {
	r, err := NewUpdateTaskRequest("abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := ExtractUpdateTaskData(r)
	if len(data) != 0 {
		t.Errorf("update data = %v, want empty map", data)
	}
}

func TestExtractUpdateTaskData_SetFields(t *testing.T) {
	r, _ := NewUpdateTaskRequest("abc")
	r.Name.SetTo("renamed")
	r.Status.SetTo("in progress")
	r.Priority.SetTo(2)
	data := ExtractUpdateTaskData(r)
	want := map[string]any{"name": "renamed", "status": "in progress", "priority": 2}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("update data = %v, want %v", data, want)
	}
}

func TestExtractTasksParams_Defaults(t *testing.T) {
	r, err := NewTasksRequest("123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := ExtractTasksParams(r)
	want := map[string]any{
		"page":           0,
		"order_by":       "created",
		"reverse":        false,
		"subtasks":       false,
		"include_closed": false,
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("params = %v, want %v", params, want)
	}
}

func TestExtractTasksParams_Filters(t *testing.T) {
	r, _ := NewTasksRequest("123")
	r.Statuses = []string{"open", "review"}
	r.Assignees = []string{"42"}
	r.DueDateLT.SetTo(1700000000000)
	params := ExtractTasksParams(r)
	if !reflect.DeepEqual(params["statuses[]"], []string{"open", "review"}) {
		t.Errorf("statuses[] = %v", params["statuses[]"])
	}
	if !reflect.DeepEqual(params["assignees[]"], []string{"42"}) {
		t.Errorf("assignees[] = %v", params["assignees[]"])
	}
	if params["due_date_lt"] != int64(1700000000000) {
		t.Errorf("due_date_lt = %v", params["due_date_lt"])
	}
	if _, ok := params["tags[]"]; ok {
		t.Error("tags[] emitted for empty filter")
	}
}

const sampleTaskJSON = `{
	"id": "9007199254740993",
	"name": "Ship it",
	"text_content": "fallback text",
	"status": {"status": "in progress", "color": "#fff", "type": "custom"},
	"priority": {"id": "2", "priority": "high"},
	"list": {"id": "901", "name": "Sprint"},
	"folder": {"id": "802"},
	"space": {"id": "703"},
	"assignees": [{"id": 200, "username": "ann"}, {"id": "100", "username": "bob"}],
	"tags": [{"name": "urgent", "tag_fg": "#000"}],
	"due_date": "1700000000000",
	"due_date_time": true,
	"date_created": "1690000000000",
	"url": "https://app.clickup.com/t/1",
	"custom_fields": [
		{"id": "cf-1", "name": "Severity", "type": "drop_down", "value": 3},
		{"name": "no id, skipped"}
	],
	"team_id": 12345,
	"shard": "us-east-1"
}`

func TestExtractTask(t *testing.T) {
	raw, err := DecodeObject([]byte(sampleTaskJSON))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	task := ExtractTask(raw)

	if task.ID != "9007199254740993" {
		t.Errorf("ID = %q, big integer id mangled", task.ID)
	}
	if task.Description != "fallback text" {
		t.Errorf("Description = %q, want text_content fallback", task.Description)
	}
	if task.Status != "in progress" {
		t.Errorf("Status = %q", task.Status)
	}
	if task.Priority != 2 {
		t.Errorf("Priority = %d", task.Priority)
	}
	if task.ListID != "901" || task.FolderID != "802" || task.SpaceID != "703" {
		t.Errorf("container ids = %q/%q/%q", task.ListID, task.FolderID, task.SpaceID)
	}
	if !reflect.DeepEqual(task.Assignees, []string{"200", "100"}) {
		t.Errorf("Assignees = %v, want listing order preserved", task.Assignees)
	}
	if !reflect.DeepEqual(task.Tags, []string{"urgent"}) {
		t.Errorf("Tags = %v", task.Tags)
	}
	if task.DueDate != 1700000000000 {
		t.Errorf("DueDate = %d", task.DueDate)
	}
	if !task.DueDateTime {
		t.Error("DueDateTime = false")
	}
	if task.TeamID != "12345" {
		t.Errorf("TeamID = %q", task.TeamID)
	}
	if len(task.CustomFields) != 1 {
		t.Fatalf("CustomFields = %v, entry without id must be skipped", task.CustomFields)
	}
	if task.CustomFields[0].ID != "cf-1" || task.CustomFields[0].Name != "Severity" {
		t.Errorf("custom field = %+v", task.CustomFields[0])
	}
	if _, ok := task.Extra["shard"]; !ok {
		t.Error("unknown field shard not retained")
	}
}

func TestTaskMarshalRetainsExtra(t *testing.T) {
	raw, err := DecodeObject([]byte(sampleTaskJSON))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	b, err := json.Marshal(ExtractTask(raw))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["shard"] != "us-east-1" {
		t.Errorf("shard = %v, want retained verbatim", out["shard"])
	}
	if out["dueDate"] == nil {
		t.Error("dueDate missing from camelCase output")
	}
	if _, snake := out["due_date"]; snake {
		t.Error("snake_case key leaked into output")
	}
}

func TestExtractTasks_MissingAndMalformed(t *testing.T) {
	if got := ExtractTasks(map[string]any{}); len(got) != 0 {
		t.Errorf("missing tasks key: got %v", got)
	}
	raw := map[string]any{"tasks": []any{
		map[string]any{"id": "1", "name": "a"},
		"not an object",
		map[string]any{"id": "2", "name": "b"},
	}}
	got := ExtractTasks(raw)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("tasks = %v, want malformed entry skipped and order kept", got)
	}
}
