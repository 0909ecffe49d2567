package utils

import (
	"fmt"
	"homecare-app-server/internal/config"
	"homecare-app-server/internal/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims. UserIDs and Roles may hold several
// values; the caller id is the last entry of UserIDs.
type Claims struct {
	UserIDs jwt.ClaimStrings `json:"nameid"`
	Name    string           `json:"name,omitempty"`
	Email   string           `json:"email,omitempty"`
	Roles   jwt.ClaimStrings `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateTokens generates both access and refresh tokens for a user.
// The user's roles must be loaded.
func GenerateTokens(user *models.User, cfg *config.Config) (accessToken string, refreshToken string, err error) {
	accessToken, err = signToken(user, cfg, cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err = signToken(user, cfg, cfg.JWTRefreshSecret, time.Duration(cfg.JWTRefreshExpirationHours)*time.Hour)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func signToken(user *models.User, cfg *config.Config, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	roles := make(jwt.ClaimStrings, 0, len(user.Roles))
	for _, r := range user.RoleNames() {
		roles = append(roles, string(r))
	}

	claims := &Claims{
		UserIDs: jwt.ClaimStrings{user.ID},
		Name:    user.FullName,
		Email:   user.Email,
		Roles:   roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{cfg.JWTAudience},
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token including issuer and audience.
func ValidateAccessToken(tokenString string, cfg *config.Config) (*Claims, error) {
	return ValidateToken(tokenString, cfg.JWTSecret,
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithAudience(cfg.JWTAudience),
	)
}

// ValidateRefreshToken validates a refresh token including issuer and audience.
func ValidateRefreshToken(tokenString string, cfg *config.Config) (*Claims, error) {
	return ValidateToken(tokenString, cfg.JWTRefreshSecret,
		jwt.WithIssuer(cfg.JWTIssuer),
		jwt.WithAudience(cfg.JWTAudience),
	)
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, opts...)

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
