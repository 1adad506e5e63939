package auth

import (
	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserUID string
	Email   string
	Role    enums.ActorRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued by the identity provider.
type AccessTokenClaims struct {
	UserUID string          `json:"user_uid"`
	Email   string          `json:"email,omitempty"`
	Role    enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
