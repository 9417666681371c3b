package auth

import (
	"crypto/ed25519"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func setupTestKeyPair(t *testing.T) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	keyPair = &KeyPair{
		PrivateKey: priv,
		PublicKey:  priv.Public().(ed25519.PublicKey),
		KID:        "test-kid",
	}
	t.Cleanup(func() { keyPair = nil })
}

func TestGenerateAPIKey(t *testing.T) {
	setupTestKeyPair(t)

	token, err := GenerateAPIKey("client-123", "key-456", []string{"get_tasks"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(token, APIKeyPrefix) {
		t.Errorf("expected %s prefix, got %q", APIKeyPrefix, token[:10])
	}

	parsed, err := jwt.Parse(strings.TrimPrefix(token, APIKeyPrefix), func(t *jwt.Token) (interface{}, error) {
		return keyPair.PublicKey, nil
	})
	if err != nil {
		t.Fatalf("jwt.Parse failed: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "client-123" {
		t.Errorf("sub = %v, want %q", claims["sub"], "client-123")
	}
	if claims["kid"] != "key-456" {
		t.Errorf("kid = %v, want %q", claims["kid"], "key-456")
	}
	if claims["iss"] != "clickup-mcp" {
		t.Errorf("iss = %v", claims["iss"])
	}
}

func TestVerifyAPIKey(t *testing.T) {
	setupTestKeyPair(t)

	token, err := GenerateAPIKey("client-123", "key-1", []string{"get_tasks", "create_task"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := VerifyAPIKey(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.ClientID() != "client-123" {
		t.Errorf("client id = %q", claims.ClientID())
	}
	if len(claims.Scopes) != 2 || claims.Scopes[0] != "get_tasks" {
		t.Errorf("scopes = %v", claims.Scopes)
	}

	// Bare token without the prefix also verifies.
	if _, err := VerifyAPIKey(strings.TrimPrefix(token, APIKeyPrefix)); err != nil {
		t.Errorf("bare token rejected: %v", err)
	}
}

func TestVerifyAPIKey_Expired(t *testing.T) {
	setupTestKeyPair(t)

	past := time.Now().Add(-time.Hour)
	token, err := GenerateAPIKey("client-123", "key-1", nil, &past)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := VerifyAPIKey(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyAPIKey_WrongKey(t *testing.T) {
	setupTestKeyPair(t)
	token, err := GenerateAPIKey("client-123", "key-1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rotate to a different key pair; old tokens must fail.
	setupTestKeyPair(t)
	if _, err := VerifyAPIKey(token); err == nil {
		t.Error("expected verification failure after key rotation")
	}
}

func TestJWKSHandler(t *testing.T) {
	setupTestKeyPair(t)

	rec := httptest.NewRecorder()
	JWKSHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/.well-known/jwks.json", nil))

	var resp jwksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Keys) != 1 {
		t.Fatalf("keys = %v", resp.Keys)
	}
	k := resp.Keys[0]
	if k.Kty != "OKP" || k.Crv != "Ed25519" || k.Alg != "EdDSA" {
		t.Errorf("key = %+v", k)
	}
	pub, err := PublicKeyOf(k.X)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if !pub.Equal(keyPair.PublicKey) {
		t.Error("published key does not match signing key")
	}
}
