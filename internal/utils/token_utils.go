package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the JWT payload carrying the caller identity. The user ID
// travels in the registered "sub" claim.
type IdentityClaims struct {
	Role domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateIdentityToken signs an HS256 token for identity.
func GenerateIdentityToken(identity domain.Identity, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseIdentityToken parses a token string, validates its signature, standard
// claims and issuer, and returns the identity it carries. An empty role means
// a regular user.
func ParseIdentityToken(tokenString string, secretKey string, issuer string) (domain.Identity, error) {
	claims := &IdentityClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return domain.Identity{}, err
	}
	if !token.Valid {
		return domain.Identity{}, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" {
		return domain.Identity{}, errors.New("token has no subject")
	}

	role := claims.Role
	switch role {
	case "":
		role = domain.RoleUser
	case domain.RoleUser, domain.RoleAdmin:
	default:
		return domain.Identity{}, errors.New("token carries unknown role " + string(role))
	}
	return domain.Identity{UserID: claims.Subject, Role: role}, nil
}
