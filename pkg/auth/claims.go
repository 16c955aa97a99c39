package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	StoreID string
	UserID  string
	Role    enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients. The role is
// fixed at login time; it is not re-resolved per request.
type AccessTokenClaims struct {
	StoreID string     `json:"store_id"`
	UserID  string     `json:"userid"`
	Role    enums.Role `json:"role"`
	jwt.RegisteredClaims
}
