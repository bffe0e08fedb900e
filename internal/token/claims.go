package token

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// segmentParser only decodes; signatures are never checked on this side.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims decodes the payload segment of raw without verifying it.
func Claims(raw string) (jwt.MapClaims, error) {
	parts := strings.Split(Normalize(raw), ".")
	if len(parts) < 2 {
		return nil, ErrMalformed
	}

	// accept the standard alphabet as well as the URL-safe one
	seg := strings.NewReplacer("+", "-", "/", "_").Replace(parts[1])
	payload, err := segmentParser.DecodeSegment(seg)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// RoleFromToken returns the role claim of raw, looking at "role" first and
// the namespaced claim second. Any decoding failure yields RoleNone.
func RoleFromToken(raw string) Role {
	claims, err := Claims(raw)
	if err != nil {
		return RoleNone
	}
	for _, key := range []string{roleClaim, namespacedRoleClaim} {
		if r := roleValue(claims[key]); r != "" {
			return Role(r)
		}
	}
	return RoleNone
}

func roleValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		// multi-role users get an array; the first entry wins
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
