package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the fixed structure extracted from a verified token.  The
// subject id is always present; the remaining identity claims are
// optional and empty when the provider did not include them.  Raw keeps
// the full verified payload for endpoints that echo it back.
type Claims struct {
	SubjectID string
	Email     string
	FirstName string
	LastName  string
	Raw       jwt.MapClaims
}

// Verifier validates bearer tokens issued by the external identity
// provider.  Signatures are RS256 and the verification key is selected
// by the key-id carried in the token header.
type Verifier struct {
	keys *KeyCache
}

// NewVerifier returns a Verifier that resolves signing keys through keys.
func NewVerifier(keys *KeyCache) *Verifier {
	return &Verifier{keys: keys}
}

// Verify checks raw's signature and structure and returns its claims.
// Every failure collapses to ErrAuthenticationFailed; the cause is
// logged server-side only.  Audience validation is deliberately not
// configured: the provider issues tokens for a single known audience,
// a relaxation to revisit if multi-audience support is ever added.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := v.verify(ctx, raw)
	if err != nil {
		log.Printf("auth: token rejected: %v", err)
		return nil, ErrAuthenticationFailed
	}
	return claims, nil
}

func (v *Verifier) verify(ctx context.Context, raw string) (*Claims, error) {
	kid, err := headerKeyID(raw)
	if err != nil {
		return nil, err
	}
	key, err := v.keys.SigningKey(ctx, kid)
	if err != nil {
		return nil, err
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	payload, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", tok.Claims)
	}
	sub, _ := payload["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Claims{
		SubjectID: sub,
		Email:     stringClaim(payload, "email"),
		FirstName: stringClaim(payload, "first_name", "given_name"),
		LastName:  stringClaim(payload, "last_name", "family_name"),
		Raw:       payload,
	}, nil
}

// headerKeyID decodes the unverified JOSE header segment and returns
// its kid claim.  Signature verification happens later; the header is
// only read to select the verification key.
func headerKeyID(raw string) (string, error) {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("malformed token")
	}
	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed token header: %w", err)
	}
	var header struct {
		Kid string `json:"kid"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return "", fmt.Errorf("malformed token header: %w", err)
	}
	if header.Kid == "" {
		return "", fmt.Errorf("token header has no kid")
	}
	return header.Kid, nil
}

// stringClaim returns the first non-empty string claim among keys.
func stringClaim(payload jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := payload[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
