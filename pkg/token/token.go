package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "memberhub"

	// AudienceSession marks tokens that authenticate API requests.
	AudienceSession = "session"
	// AudienceCalendarState marks the OAuth state handed to the calendar provider.
	AudienceCalendarState = "calendar-oauth"
)

// Claims identifies the acting member. Role is informational; the database stays authoritative.
type Claims struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a session token for memberID.
func GenerateJWT(memberID, role, secretKey string, ttl time.Duration) (string, error) {
	return sign(memberID, role, AudienceSession, secretKey, ttl)
}

// ValidateJWT parses a session token and returns its claims.
func ValidateJWT(tokenString, secretKey string) (*Claims, error) {
	return parse(tokenString, AudienceSession, secretKey)
}

// GenerateStateToken signs the OAuth state parameter for a calendar connection.
func GenerateStateToken(memberID, secretKey string, ttl time.Duration) (string, error) {
	return sign(memberID, "", AudienceCalendarState, secretKey, ttl)
}

// ValidateStateToken checks a state parameter returned by the calendar provider.
func ValidateStateToken(tokenString, secretKey string) (*Claims, error) {
	return parse(tokenString, AudienceCalendarState, secretKey)
}

func sign(memberID, role, audience, secretKey string, ttl time.Duration) (string, error) {
	if memberID == "" {
		return "", errors.New("member id is empty")
	}
	if secretKey == "" {
		return "", errors.New("jwt secret key is empty")
	}
	now := time.Now()
	claims := &Claims{
		MemberID: memberID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}

func parse(tokenString, audience, secretKey string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secretKey), nil
	},
		jwt.WithAudience(audience),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.New("token has expired")
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, errors.New("token signature is invalid")
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, errors.New("token was issued for another purpose")
		}
		return nil, fmt.Errorf("could not parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.MemberID == "" {
		return nil, errors.New("member_id claim is missing")
	}
	return claims, nil
}
