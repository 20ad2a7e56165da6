package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims represents the claims carried by the identity authority's
// bearer credential. Claim names are fixed by the userservice token contract.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Username    string `json:"user"`
	DisplayName string `json:"name"`
	AccountID   string `json:"acct"`
}
