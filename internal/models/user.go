package models

import "github.com/golang-jwt/jwt/v5"

// Claims defines the structure of the JWT claims. Tokens are issued by the
// external auth service; this backend only validates them and records the
// acting moderator.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
