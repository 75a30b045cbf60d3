package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNoSecret     = errors.New("jwt secret not configured")
)

// JWTValidator issues and validates HS256 bearer tokens
type JWTValidator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &JWTValidator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken signs a token for a person
func (v *JWTValidator) IssueToken(person *domain.Person) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrNoSecret
	}

	now := v.now()
	claims := jwt.MapClaims{
		"sub":   person.ID.String(),
		"name":  person.Name,
		"email": person.Email,
		"roles": []string(person.Roles),
		"iat":   now.Unix(),
		"exp":   now.Add(v.ttl).Unix(),
	}
	if v.issuer != "" {
		claims["iss"] = v.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT token and returns user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if len(v.secret) == 0 {
		return nil, ErrNoSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	sub := extractString(claims, "sub")
	personID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a person id", ErrInvalidToken)
	}

	return &UserContext{
		PersonID: personID,
		Name:     extractString(claims, "name"),
		Email:    extractString(claims, "email"),
		Roles:    ExtractRoles(claims),
	}, nil
}

func extractString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if val, ok := claims[key]; ok {
			if str, ok := val.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

// ExtractRoles extracts the known roles from JWT claims
func ExtractRoles(claims jwt.MapClaims) []domain.Role {
	roles := []domain.Role{}

	add := func(s string) {
		if r := domain.Role(s); r.IsValid() {
			roles = append(roles, r)
		}
	}

	for _, key := range []string{"roles", "role"} {
		if val, ok := claims[key]; ok {
			switch v := val.(type) {
			case []interface{}:
				for _, r := range v {
					if str, ok := r.(string); ok {
						add(str)
					}
				}
			case []string:
				for _, str := range v {
					add(str)
				}
			case string:
				add(v)
			}
		}
	}

	return roles
}
