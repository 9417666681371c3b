package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APIKeyPrefix marks gateway API keys so they are recognizable in
// configuration files and secret scanners.
const APIKeyPrefix = "cmk_"

const issuer = "clickup-mcp"

// KeyPair holds the Ed25519 signing key pair for JWT API keys.
type KeyPair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	KID        string // Key ID for JWKS
}

var keyPair *KeyPair

// Init loads the Ed25519 private key from the API_KEY_PRIVATE_KEY
// environment variable. The key must be base64-encoded (64-byte
// Ed25519 private key or 32-byte seed). Without it the gateway runs
// open: every request is accepted with full tool access.
func Init() error {
	encoded := os.Getenv("API_KEY_PRIVATE_KEY")
	if encoded == "" {
		log.Printf("[auth] API_KEY_PRIVATE_KEY not set, API key auth disabled")
		return nil
	}

	seed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("failed to decode API_KEY_PRIVATE_KEY: %w", err)
	}

	var privKey ed25519.PrivateKey
	switch len(seed) {
	case ed25519.SeedSize: // 32 byte seed
		privKey = ed25519.NewKeyFromSeed(seed)
	case ed25519.PrivateKeySize: // 64 byte full private key
		privKey = ed25519.PrivateKey(seed)
	default:
		return fmt.Errorf("invalid key size: %d (expected 32 or 64)", len(seed))
	}

	keyPair = &KeyPair{
		PrivateKey: privKey,
		PublicKey:  privKey.Public().(ed25519.PublicKey),
		KID:        "clickup-mcp-api-key-v1",
	}

	log.Printf("[auth] Ed25519 key pair loaded (kid: %s)", keyPair.KID)
	return nil
}

// GetKeyPair returns the loaded key pair, or nil if not initialized.
func GetKeyPair() *KeyPair {
	return keyPair
}

// Enabled reports whether API key auth is active.
func Enabled() bool {
	return keyPair != nil
}

// GenerateAPIKey creates a signed API key JWT for a client. Scopes
// name enabled tools ("get_tasks" or "clickup:get_tasks"); an empty
// scope list grants access to every tool.
func GenerateAPIKey(clientID, keyID string, scopes []string, expiresAt *time.Time) (string, error) {
	if keyPair == nil {
		return "", fmt.Errorf("signing key not configured")
	}

	claims := jwt.MapClaims{
		"iss": issuer,
		"sub": clientID,
		"kid": keyID,
		"iat": time.Now().Unix(),
	}
	if len(scopes) > 0 {
		claims["scopes"] = scopes
	}
	if expiresAt != nil {
		claims["exp"] = expiresAt.Unix()
	}

	token := jwt.NewWithClaims(&jwt.SigningMethodEd25519{}, claims)
	token.Header["kid"] = keyPair.KID

	signed, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return APIKeyPrefix + signed, nil
}
