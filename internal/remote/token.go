package remote

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsOf extracts the claims from an access token without verifying the
// signature. The signing secret lives with the auth provider; this client
// only needs the subject and expiry.
func ClaimsOf(accessToken string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Subject returns the identity id carried by the session token, falling back
// to the user record when the token is opaque.
func (s *Session) Subject() string {
	if claims, err := ClaimsOf(s.AccessToken); err == nil {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub
		}
	}
	return s.User.ID
}

// Expired reports whether the token's exp claim is in the past. Tokens with
// no readable expiry are treated as live.
func (s *Session) Expired() bool {
	claims, err := ClaimsOf(s.AccessToken)
	if err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().After(time.Unix(int64(exp), 0))
}
