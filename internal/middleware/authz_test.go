package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestScopeWhitelist(t *testing.T) {
	tests := []struct {
		name   string
		scopes []string
		want   map[string][]string
	}{
		{"no scopes means unrestricted", nil, nil},
		{"empty scopes means unrestricted", []string{}, nil},
		{
			"bare names default to clickup",
			[]string{"get_tasks", "create_task"},
			map[string][]string{"clickup": {"get_tasks", "create_task"}},
		},
		{
			"qualified names keep their module",
			[]string{"clickup:get_tasks", "other:ping"},
			map[string][]string{"clickup": {"clickup:get_tasks"}, "other": {"other:ping"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scopeWhitelist(tt.scopes)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for module, tools := range tt.want {
				if len(got[module]) != len(tools) {
					t.Errorf("module %q: got %v, want %v", module, got[module], tools)
				}
			}
		})
	}
}

func TestCanAccessTool(t *testing.T) {
	ctx := &AuthContext{
		ClientID: "client-1",
		EnabledTools: map[string][]string{
			"clickup": {"get_tasks", "clickup:create_task"},
		},
	}

	tests := []struct {
		name    string
		module  string
		tool    string
		wantErr bool
		errCode string
	}{
		{"enabled by bare name", "clickup", "get_tasks", false, ""},
		{"enabled by qualified id", "clickup", "create_task", false, ""},
		{"disabled tool", "clickup", "delete_task", true, "TOOL_DISABLED"},
		{"disabled module", "other", "ping", true, "MODULE_NOT_ENABLED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ctx.CanAccessTool(tt.module, tt.tool)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				authErr, ok := err.(*AuthError)
				if !ok {
					t.Fatalf("expected *AuthError, got %T", err)
				}
				if authErr.Code != tt.errCode {
					t.Errorf("error code = %q, want %q", authErr.Code, tt.errCode)
				}
				if authErr.Status != 403 {
					t.Errorf("HTTP status = %d, want 403", authErr.Status)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCanAccessTool_Unrestricted(t *testing.T) {
	ctx := &AuthContext{ClientID: "anonymous"}
	if err := ctx.CanAccessTool("clickup", "delete_task"); err != nil {
		t.Errorf("nil whitelist must allow everything, got %v", err)
	}
}

func TestValidateRequest_OpenMode(t *testing.T) {
	a := NewAuthorizer()
	r := httptest.NewRequest("POST", "/mcp", nil)

	authCtx, err := a.ValidateRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authCtx.AuthType != "open" || authCtx.ClientID != "anonymous" {
		t.Errorf("authCtx = %+v", authCtx)
	}
	if authCtx.EnabledTools != nil {
		t.Error("open mode must grant unrestricted access")
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	if got := bearerToken(r); got != "" {
		t.Errorf("no header: got %q", got)
	}
	r.Header.Set("Authorization", "Bearer cmk_abc")
	if got := bearerToken(r); got != "cmk_abc" {
		t.Errorf("bearer: got %q", got)
	}
	r.Header.Set("Authorization", "cmk_raw")
	if got := bearerToken(r); got != "cmk_raw" {
		t.Errorf("raw: got %q", got)
	}
}
