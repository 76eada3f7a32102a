package aromai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the access token payload the client displays.
type Claims struct {
	Name      string
	Email     string
	ExpiresAt *jwt.NumericDate
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims reads the payload segment of token without verifying the
// signature. The server is the only party that trusts these values.
//
// Each claim is read on its own: a claim that is missing or of the wrong
// type is left empty and the others are still returned.
func DecodeClaims(token string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return Claims{}, errors.New("token does not have three segments")
	}
	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("decode payload segment: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Claims{}, fmt.Errorf("parse payload: %w", err)
	}

	var claims Claims
	claims.Name = stringClaim(fields, "name")
	claims.Email = stringClaim(fields, "email")
	if raw, ok := fields["exp"]; ok {
		var exp jwt.NumericDate
		if err := json.Unmarshal(raw, &exp); err == nil {
			claims.ExpiresAt = &exp
		}
	}
	return claims, nil
}

func stringClaim(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ParseClaims is DecodeClaims with the failure folded into empty fields.
// Login must not fail because the token payload is unreadable.
func ParseClaims(token string) Claims {
	claims, err := DecodeClaims(token)
	if err != nil {
		return Claims{}
	}
	return claims
}

// Expired reports whether the token carries an exp claim before now.
// Tokens without a readable exp never expire from the client's point of view.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}
