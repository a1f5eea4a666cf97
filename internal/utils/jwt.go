// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	tokenIssuer     = "modhub"
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

var errInvalidToken = errors.New("invalid token")

type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("your-secret-key-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func registered(userID uuid.UUID, audience string, ttlHours int) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{audience},
	}
}

func sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errInvalidToken
	}
	return nil
}

// GenerateJWT issues an access token carrying the caller's role.
func GenerateJWT(userID uuid.UUID, username, role string, ttlHours int) (string, error) {
	return sign(JWTClaims{
		UserID:           userID.String(),
		Username:         username,
		Role:             role,
		RegisteredClaims: registered(userID, audienceAccess, ttlHours),
	})
}

// ValidateJWT accepts access tokens only.
func ValidateJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := parse(tokenString, claims); err != nil {
		return nil, err
	}
	if !claims.VerifyAudience(audienceAccess, true) || claims.Issuer != tokenIssuer {
		return nil, errInvalidToken
	}
	return claims, nil
}

func GenerateRefreshToken(userID uuid.UUID, ttlHours int) (string, error) {
	return sign(registered(userID, audienceRefresh, ttlHours))
}

// ValidateRefreshToken returns the subject of a refresh token.
func ValidateRefreshToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := parse(tokenString, claims); err != nil {
		return "", err
	}
	if !claims.VerifyAudience(audienceRefresh, true) || claims.Issuer != tokenIssuer {
		return "", errors.New("invalid refresh token")
	}
	return claims.Subject, nil
}
