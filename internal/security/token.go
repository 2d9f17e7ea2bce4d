package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InviteClaims carries the invitation code inside a /start deep-link
// token, so a forged link cannot name an arbitrary farm or role: the
// code is looked up server-side, the token only proves the link came
// from this bot.
type InviteClaims struct {
	Code   string `json:"code"`
	FarmID uint   `json:"farm_id"`
	jwt.RegisteredClaims
}

// SignInviteToken creates a signed deep-link token for an invite code.
func SignInviteToken(code string, farmID uint, secret string, ttl time.Duration) (string, error) {
	claims := &InviteClaims{
		Code:   code,
		FarmID: farmID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseInviteToken validates a deep-link token and returns its claims.
func ParseInviteToken(tokenString, secret string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*InviteClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
