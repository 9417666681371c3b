package clickup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clickupmcp/server/pkg/clickupapi"
)

// withClient points the module at a test client and restores the
// previous one afterwards.
func withClient(t *testing.T, c *clickupapi.Client) {
	t.Helper()
	prev := defaultClient
	Init(c)
	t.Cleanup(func() { defaultClient = prev })
}

func withEventSource(t *testing.T, src EventSource) {
	t.Helper()
	prev := eventSource
	SetEventSource(src)
	t.Cleanup(func() { eventSource = prev })
}

func testClient(t *testing.T, handler http.HandlerFunc) *clickupapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return clickupapi.NewClient("pk_test_token", clickupapi.WithBaseURL(srv.URL))
}

func TestExecuteToolUnknown(t *testing.T) {
	m := New()
	_, err := m.ExecuteTool(context.Background(), "no_such_tool", nil)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecuteToolWithoutClient(t *testing.T) {
	withClient(t, nil)
	m := New()
	_, err := m.ExecuteTool(context.Background(), "get_user", nil)
	if err == nil {
		t.Fatal("expected error when no client is configured")
	}
}

func TestToolDefinitionsMatchHandlers(t *testing.T) {
	defined := make(map[string]bool, len(toolDefinitions))
	for _, tool := range toolDefinitions {
		if defined[tool.Name] {
			t.Errorf("duplicate tool definition: %s", tool.Name)
		}
		defined[tool.Name] = true
		if _, ok := toolHandlers[tool.Name]; !ok {
			t.Errorf("tool %s has no handler", tool.Name)
		}
	}
	for name := range toolHandlers {
		if !defined[name] {
			t.Errorf("handler %s has no tool definition", name)
		}
	}
}

func TestGetTask(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/task/abc123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "pk_test_token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		io.WriteString(w, `{"id":"abc123","name":"Ship it","status":{"status":"in progress"}}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "get_task", map[string]any{"task_id": "abc123"})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var task map[string]any
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if task["id"] != "abc123" {
		t.Errorf("id = %v, want abc123", task["id"])
	}
	if task["status"] != "in progress" {
		t.Errorf("status = %v, want in progress", task["status"])
	}
}

func TestCreateTaskSendsDefaults(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/list/ls1/task" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		io.WriteString(w, `{"id":"t1","name":"New task"}`)
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "create_task", map[string]any{
		"list_id": "ls1",
		"name":    "New task",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if body["notify_all"] != true {
		t.Errorf("notify_all = %v, want true", body["notify_all"])
	}
	if body["check_required_custom_fields"] != true {
		t.Errorf("check_required_custom_fields = %v, want true", body["check_required_custom_fields"])
	}
	if body["name"] != "New task" {
		t.Errorf("name = %v", body["name"])
	}
}

func TestCreateTaskRejectsBadPriority(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "create_task", map[string]any{
		"list_id":  "ls1",
		"name":     "Bad",
		"priority": float64(9),
	})
	if err == nil {
		t.Fatal("expected priority validation error")
	}
	if !strings.Contains(err.Error(), "priority") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateTaskAcceptsCamelCaseParams(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		io.WriteString(w, `{"id":"t1","name":"Renamed"}`)
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "update_task", map[string]any{
		"task_id":     "t1",
		"name":        "Renamed",
		"dueDate":     float64(1700000000000),
		"dueDateTime": true,
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if body["due_date"] != float64(1700000000000) {
		t.Errorf("due_date = %v", body["due_date"])
	}
	if body["due_date_time"] != true {
		t.Errorf("due_date_time = %v", body["due_date_time"])
	}
	if _, leaked := body["dueDate"]; leaked {
		t.Error("camelCase key leaked into the upstream payload")
	}
}

func TestGetTasksFilters(t *testing.T) {
	var query map[string][]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		io.WriteString(w, `{"tasks":[{"id":"t1","name":"One"}]}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "get_tasks", map[string]any{
		"list_id":        "ls1",
		"include_closed": true,
		"statuses":       []any{"open", "review"},
		"page":           float64(2),
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if got := query["include_closed"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("include_closed = %v", got)
	}
	if got := query["statuses[]"]; len(got) != 2 {
		t.Errorf("statuses[] = %v", got)
	}
	if got := query["page"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("page = %v", got)
	}
	var tasks []map[string]any
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("result is not a JSON array: %v", err)
	}
	if len(tasks) != 1 || tasks[0]["id"] != "t1" {
		t.Errorf("tasks = %v", tasks)
	}
}

func TestDeleteTaskResult(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		io.WriteString(w, `{}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "delete_task", map[string]any{"task_id": "t9"})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res["deleted"] != true || res["id"] != "t9" {
		t.Errorf("result = %v", res)
	}
}

func TestCreateListRequiresContainer(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "create_list", map[string]any{"name": "Orphan"})
	if err == nil {
		t.Fatal("expected container validation error")
	}
	if !strings.Contains(err.Error(), "folder_id or space_id") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAddTag(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/task/t1/tag/urgent" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "add_tag", map[string]any{
		"task_id":  "t1",
		"tag_name": "urgent",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res["added"] != true || res["tag"] != "urgent" {
		t.Errorf("result = %v", res)
	}
}

func TestGetTeamMembersUnwrapsUsers(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"teams":[{"id":"9","name":"Eng","members":[{"user":{"id":1,"username":"dana"}}]}]}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "get_team_members", map[string]any{"team_id": "9"})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var members []map[string]any
	if err := json.Unmarshal([]byte(out), &members); err != nil {
		t.Fatalf("result is not a JSON array: %v", err)
	}
	if len(members) != 1 || members[0]["username"] != "dana" {
		t.Errorf("members = %v", members)
	}
}

type fakeEvents struct {
	events []map[string]any
	err    error
}

func (f *fakeEvents) RecentEvents(ctx context.Context, limit int) ([]map[string]any, error) {
	return f.events, f.err
}

func TestReadResourceRecentEvents(t *testing.T) {
	withEventSource(t, &fakeEvents{events: []map[string]any{
		{"event": "taskUpdated", "taskId": "t1"},
	}})

	m := New()
	out, err := m.ReadResource(context.Background(), "clickup://events/recent")
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	if !strings.Contains(out, "taskUpdated") {
		t.Errorf("unexpected resource payload: %s", out)
	}
}

func TestReadResourceUnconfigured(t *testing.T) {
	withEventSource(t, nil)
	m := New()
	if _, err := m.ReadResource(context.Background(), "clickup://events/recent"); err == nil {
		t.Fatal("expected error when event capture is not configured")
	}
}

func TestReadResourceUnknownURI(t *testing.T) {
	m := New()
	if _, err := m.ReadResource(context.Background(), "clickup://nope"); err == nil {
		t.Fatal("expected error for unknown resource")
	}
}

func TestCreateListRejectsBadPriority(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "create_list", map[string]any{
		"space_id": "sp1",
		"name":     "Bad",
		"priority": float64(9),
	})
	if err == nil {
		t.Fatal("expected priority validation error")
	}
	if !strings.Contains(err.Error(), "priority") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateListRejectsBadPriority(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "update_list", map[string]any{
		"list_id":  "ls1",
		"priority": float64(-1),
	})
	if err == nil {
		t.Fatal("expected priority validation error")
	}
	if !strings.Contains(err.Error(), "priority") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCreateSpaceSendsDescription(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/team/tm1/space" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		io.WriteString(w, `{"id":"sp1","name":"Roadmap"}`)
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "create_space", map[string]any{
		"team_id":     "tm1",
		"name":        "Roadmap",
		"description": "Quarterly planning",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if body["description"] != "Quarterly planning" {
		t.Errorf("description = %v, want Quarterly planning", body["description"])
	}
	if _, exists := body["team_id"]; exists {
		t.Error("team_id must not appear in the body")
	}
}

func TestSetCustomField(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/task/t1/field/fld1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		io.WriteString(w, `{}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "set_custom_field", map[string]any{
		"task_id":  "t1",
		"field_id": "fld1",
		"value":    float64(42),
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if body["value"] != float64(42) {
		t.Errorf("value = %v, want 42", body["value"])
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res["set"] != true || res["fieldId"] != "fld1" {
		t.Errorf("result = %v", res)
	}
}

func TestClearCustomField(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/task/t1/field/fld1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "clear_custom_field", map[string]any{
		"task_id":  "t1",
		"field_id": "fld1",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res["cleared"] != true {
		t.Errorf("result = %v", res)
	}
}

func TestAddDependencyDefaultsType(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/task/t1/dependency" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		io.WriteString(w, `{}`)
	})
	withClient(t, client)

	m := New()
	_, err := m.ExecuteTool(context.Background(), "add_dependency", map[string]any{
		"task_id":    "t1",
		"depends_on": "t2",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if body["depends_on"] != "t2" {
		t.Errorf("depends_on = %v, want t2", body["depends_on"])
	}
	if body["dependency_type"] != "waiting_on" {
		t.Errorf("dependency_type = %v, want waiting_on", body["dependency_type"])
	}
}

func TestUpdateComment(t *testing.T) {
	var body map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/task/t1/comment/c1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		io.WriteString(w, `{"comment":{"id":"c1","comment_text":"Revised"}}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "update_comment", map[string]any{
		"task_id":      "t1",
		"comment_id":   "c1",
		"comment_text": "Revised",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	if body["comment_text"] != "Revised" {
		t.Errorf("comment_text = %v, want Revised", body["comment_text"])
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res["id"] != "c1" || res["text"] != "Revised" {
		t.Errorf("result = %v", res)
	}
}

func TestDeleteComment(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/task/t1/comment/c1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "delete_comment", map[string]any{
		"task_id":    "t1",
		"comment_id": "c1",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if res["deleted"] != true || res["commentId"] != "c1" {
		t.Errorf("result = %v", res)
	}
}

func TestGetTagsReducesToNames(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/task/t1/tag" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"tags":[{"name":"urgent","tag_fg":"#fff"},"backend"]}`)
	})
	withClient(t, client)

	m := New()
	out, err := m.ExecuteTool(context.Background(), "get_tags", map[string]any{
		"task_id": "t1",
	})
	if err != nil {
		t.Fatalf("ExecuteTool: %v", err)
	}
	var tags []string
	if err := json.Unmarshal([]byte(out), &tags); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(tags) != 2 || tags[0] != "urgent" || tags[1] != "backend" {
		t.Errorf("tags = %v", tags)
	}
}
