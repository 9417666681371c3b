package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"clickupmcp/server/internal/auth"
	"clickupmcp/server/internal/observability"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AuthContextKey is the context key for auth context
	AuthContextKey ContextKey = "authContext"
	// RequestIDKey is the context key for request tracing ID
	RequestIDKey ContextKey = "requestID"
)

// AuthContext contains client authentication and authorization info
type AuthContext struct {
	ClientID     string
	AuthType     string              // "api_key" or "open"
	EnabledTools map[string][]string // module -> tool whitelist; nil means all
}

// Authorizer validates gateway API keys on incoming requests.
type Authorizer struct{}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize is HTTP middleware that checks authorization
func (a *Authorizer) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := a.ValidateRequest(r)
		if err != nil {
			a.writeErrorResponse(w, err)
			return
		}

		// Generate or propagate request ID for tracing
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateRequest validates the request and returns auth context.
// With no signing key configured the gateway runs open: every request
// is accepted with unrestricted tool access.
func (a *Authorizer) ValidateRequest(r *http.Request) (*AuthContext, error) {
	if !auth.Enabled() {
		return &AuthContext{ClientID: "anonymous", AuthType: "open"}, nil
	}

	token := bearerToken(r)
	if token == "" {
		observability.LogSecurityEvent("", "", "missing_api_key", map[string]any{
			"remote_addr": r.RemoteAddr,
		})
		return nil, &AuthError{
			Code:    "MISSING_API_KEY",
			Message: "Missing API key",
			Status:  http.StatusUnauthorized,
		}
	}

	claims, err := auth.VerifyAPIKey(token)
	if err != nil {
		observability.LogSecurityEvent("", "", "invalid_api_key", map[string]any{
			"remote_addr": r.RemoteAddr,
			"error":       err.Error(),
		})
		return nil, &AuthError{
			Code:    "INVALID_API_KEY",
			Message: "Invalid API key",
			Status:  http.StatusUnauthorized,
		}
	}

	return &AuthContext{
		ClientID:     claims.ClientID(),
		AuthType:     "api_key",
		EnabledTools: scopeWhitelist(claims.Scopes),
	}, nil
}

// bearerToken extracts the API key from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return h
}

// scopeWhitelist maps key scopes to the modules package's per-module
// whitelist form. Unqualified scope names belong to the clickup module.
// No scopes means no restriction.
func scopeWhitelist(scopes []string) map[string][]string {
	if len(scopes) == 0 {
		return nil
	}
	whitelist := make(map[string][]string)
	for _, s := range scopes {
		module := "clickup"
		if idx := strings.Index(s, ":"); idx > 0 {
			module = s[:idx]
		}
		whitelist[module] = append(whitelist[module], s)
	}
	return whitelist
}

// CanAccessTool checks if the client may call a specific tool.
func (ctx *AuthContext) CanAccessTool(moduleName, toolName string) error {
	if ctx.EnabledTools == nil {
		return nil
	}

	enabledTools, ok := ctx.EnabledTools[moduleName]
	if !ok {
		return &AuthError{
			Code:    "MODULE_NOT_ENABLED",
			Message: fmt.Sprintf("Module '%s' is not enabled for this API key", moduleName),
			Status:  http.StatusForbidden,
		}
	}

	toolID := moduleName + ":" + toolName
	for _, t := range enabledTools {
		if t == toolName || t == toolID {
			return nil
		}
	}
	return &AuthError{
		Code:    "TOOL_DISABLED",
		Message: fmt.Sprintf("Tool '%s' is not enabled for this API key", toolID),
		Status:  http.StatusForbidden,
	}
}

// AuthError represents an authorization error
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// writeErrorResponse writes an authorization error response
func (a *Authorizer) writeErrorResponse(w http.ResponseWriter, err error) {
	authErr, ok := err.(*AuthError)
	if !ok {
		authErr = &AuthError{
			Code:    "AUTHORIZATION_ERROR",
			Message: err.Error(),
			Status:  http.StatusInternalServerError,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   authErr.Code,
		"message": authErr.Message,
	})
}

// GetAuthContext extracts auth context from request context
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, _ := ctx.Value(AuthContextKey).(*AuthContext)
	return authCtx
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// generateRequestID creates a random 16-byte hex request ID
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", os.Getpid())
	}
	return hex.EncodeToString(b)
}
