package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified contents of a gateway API key.
type Claims struct {
	jwt.RegisteredClaims
	KeyID  string   `json:"kid,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// ClientID returns the subject of the key.
func (c *Claims) ClientID() string {
	return c.Subject
}

// VerifyAPIKey verifies a gateway API key against the loaded key pair
// and returns its claims. The cmk_ prefix is optional on input.
func VerifyAPIKey(token string) (*Claims, error) {
	if keyPair == nil {
		return nil, fmt.Errorf("verification key not configured")
	}
	token = strings.TrimPrefix(token, APIKeyPrefix)

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return keyPair.PublicKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject in token")
	}

	return claims, nil
}

type jwksKey struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
}

type jwksResponse struct {
	Keys []jwksKey `json:"keys"`
}

// JWKSHandler serves the gateway's public key as a JWKS document so
// sidecars and auditors can verify issued API keys offline.
func JWKSHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=300")

		resp := jwksResponse{Keys: []jwksKey{}}
		if keyPair != nil {
			resp.Keys = append(resp.Keys, jwksKey{
				Kty: "OKP",
				Crv: "Ed25519",
				X:   base64.RawURLEncoding.EncodeToString(keyPair.PublicKey),
				Kid: keyPair.KID,
				Use: "sig",
				Alg: "EdDSA",
			})
		}
		json.NewEncoder(w).Encode(resp)
	})
}

// PublicKeyOf decodes a JWKS "x" coordinate back to an Ed25519 public
// key. Used by clients of the JWKS endpoint and by tests.
func PublicKeyOf(x string) (ed25519.PublicKey, error) {
	xBytes, err := base64.RawURLEncoding.DecodeString(x)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	if len(xBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid key size: %d", len(xBytes))
	}
	return ed25519.PublicKey(xBytes), nil
}
