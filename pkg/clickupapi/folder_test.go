package clickupapi

import (
	"reflect"
	"testing"
)

func TestNewCreateFolderRequest_Validation(t *testing.T) {
	if _, err := NewCreateFolderRequest("", "Q3"); err == nil {
		t.Error("expected error for missing space_id")
	}
	if _, err := NewCreateFolderRequest("s1", ""); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestExtractCreateFolderData(t *testing.T) {
	r, err := NewCreateFolderRequest("s1", "Q3 Roadmap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := ExtractCreateFolderData(r)
	want := map[string]any{"name": "Q3 Roadmap"}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("create data = %v, want %v", data, want)
	}
}

func TestExtractUpdateFolderData(t *testing.T) {
	r, _ := NewUpdateFolderRequest("f1")
	if data := ExtractUpdateFolderData(r); len(data) != 0 {
		t.Errorf("update data = %v, want empty map", data)
	}
	r.Name.SetTo("")
	data := ExtractUpdateFolderData(r)
	if v, ok := data["name"]; !ok || v != "" {
		t.Errorf("explicit empty name = %v (present %v)", v, ok)
	}
}

func TestExtractFolder(t *testing.T) {
	raw, err := DecodeObject([]byte(`{
		"id": "802",
		"name": "Q3",
		"hidden": false,
		"space": {"id": 703, "name": "Eng"},
		"task_count": 9,
		"lists": [{"id": "901"}]
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	f := ExtractFolder(raw)
	if f.ID != "802" || f.Name != "Q3" {
		t.Errorf("folder = %+v", f)
	}
	if f.SpaceID != "703" {
		t.Errorf("SpaceID = %q", f.SpaceID)
	}
	if f.TaskCount != 9 {
		t.Errorf("TaskCount = %d", f.TaskCount)
	}
	if len(f.Lists) != 1 {
		t.Errorf("Lists = %v", f.Lists)
	}
}
