package utils

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// OwnerKind distinguishes account-backed sessions from guest sessions.
type OwnerKind string

const (
	OwnerKindAccount OwnerKind = "account"
	OwnerKindGuest   OwnerKind = "guest"
)

func (k OwnerKind) Valid() bool {
	return k == OwnerKindAccount || k == OwnerKindGuest
}

// TokenClaims is the verified payload of a session token. Tokens are issued
// by the external identity service; this service only verifies them.
type TokenClaims struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerKind   OwnerKind `json:"owner_kind"`
	DisplayName string    `json:"display_name"`
	jwt.RegisteredClaims
}

// ParseSessionToken verifies a session token and returns its claims.
func ParseSessionToken(secret, tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
