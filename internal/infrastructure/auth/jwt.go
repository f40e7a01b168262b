package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
)

// Claims identify an operator. Tokens are issued by the account service; this
// service only verifies them.
type Claims struct {
	OperatorID string `json:"operator_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Sign issues a token for operatorID valid for ttl. Used by the CLI and tests.
func (s *JWTService) Sign(operatorID string, ttl time.Duration) (string, error) {
	if operatorID == "" {
		return "", fmt.Errorf("operator id is required")
	}
	now := biztime.NowUTC()

	claims := &Claims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// older issuers only set sub
	if claims.OperatorID == "" {
		claims.OperatorID = claims.Subject
	}
	if claims.OperatorID == "" {
		return nil, fmt.Errorf("token carries no operator id")
	}

	return claims, nil
}
