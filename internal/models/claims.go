package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the claims carried by the externally issued access tokens.
// The deal-monitoring app's auth service mints them; this service only
// validates the signature and reads the account identity.
type UserClaims struct {
	jwt.RegisteredClaims
	AccountID uint   `json:"account_id"`
	Role      string `json:"role"`
}

// IsAdmin reports whether the token carries the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == "admin"
}
