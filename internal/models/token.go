package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the access token claims accepted by the API.
type TokenClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}
