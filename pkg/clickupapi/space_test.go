package clickupapi

import (
	"reflect"
	"testing"
)

func TestNewCreateSpaceRequest_Validation(t *testing.T) {
	if _, err := NewCreateSpaceRequest("", "Eng"); err == nil {
		t.Error("expected error for missing team_id")
	}
	if _, err := NewCreateSpaceRequest("9", ""); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := NewCreateSpaceRequest("9", "Eng"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractCreateSpaceData_ExcludesTeamID(t *testing.T) {
	r, err := NewCreateSpaceRequest("9", "Eng")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.MultipleAssignees.SetTo(false)
	data := ExtractCreateSpaceData(r)
	want := map[string]any{"name": "Eng", "multiple_assignees": false}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("create data = %v, want %v", data, want)
	}
	if _, ok := data["team_id"]; ok {
		t.Error("team_id is routing, must not appear in the body")
	}
}

func TestExtractCreateSpaceData_Description(t *testing.T) {
	r, err := NewCreateSpaceRequest("9", "Eng")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Description.SetTo("Engineering workstreams")
	data := ExtractCreateSpaceData(r)
	if data["description"] != "Engineering workstreams" {
		t.Errorf("description = %v, want Engineering workstreams", data["description"])
	}

	// Unset description never transmits
	r2, _ := NewCreateSpaceRequest("9", "Eng")
	if _, ok := ExtractCreateSpaceData(r2)["description"]; ok {
		t.Error("unset description must not appear in the body")
	}
}

func TestExtractUpdateSpaceData_Empty(t *testing.T) {
	r, _ := NewUpdateSpaceRequest("7")
	if data := ExtractUpdateSpaceData(r); len(data) != 0 {
		t.Errorf("update data = %v, want empty map", data)
	}
}

func TestExtractSpace(t *testing.T) {
	raw, err := DecodeObject([]byte(`{
		"id": 703,
		"name": "Engineering",
		"private": true,
		"multiple_assignees": true,
		"statuses": [{"status": "open"}],
		"features": {"due_dates": {"enabled": true}},
		"fabric": "unknown"
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s := ExtractSpace(raw)
	if s.ID != "703" {
		t.Errorf("ID = %q", s.ID)
	}
	if !s.Private || !s.MultipleAssignees {
		t.Errorf("flags = %+v", s)
	}
	if len(s.Statuses) != 1 {
		t.Errorf("Statuses = %v", s.Statuses)
	}
	if s.Features == nil {
		t.Error("Features dropped")
	}
	if _, ok := s.Extra["fabric"]; !ok {
		t.Error("unknown field not retained")
	}
}

func TestExtractSpaces(t *testing.T) {
	raw := map[string]any{"spaces": []any{
		map[string]any{"id": "1", "name": "a"},
		map[string]any{"id": "2", "name": "b"},
	}}
	got := ExtractSpaces(raw)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("spaces = %v", got)
	}
}
