package model

import "github.com/golang-jwt/jwt/v5"

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// AppClaims carries the token kind alongside the registered claims. Refresh
// tokens additionally set the ID (jti) claim.
type AppClaims struct {
	Kind string `json:"type"`
	jwt.RegisteredClaims
}
