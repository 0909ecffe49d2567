package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"homecare-app-server/internal/config"
	"homecare-app-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTIssuer:                 "homecare-test",
		JWTAudience:               "homecare-test-app",
		JWTExpirationMinutes:      120,
		JWTRefreshExpirationHours: 24,
	}
}

func testUser() *models.User {
	u := &models.User{FullName: "Nurse Nora", Email: "nurse@homecare.local"}
	u.ID = "nurse-1"
	u.Roles = []models.UserRole{{UserID: "nurse-1", Role: models.RolePersonnel}, {UserID: "nurse-1", Role: models.RoleAdmin}}
	return u
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	cfg := testConfig()

	access, refresh, err := GenerateTokens(testUser(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	claims, err := ValidateAccessToken(access, cfg)
	if err != nil {
		t.Fatalf("access token rejected: %v", err)
	}
	if len(claims.UserIDs) != 1 || claims.UserIDs[0] != "nurse-1" {
		t.Errorf("unexpected nameid claim: %v", claims.UserIDs)
	}
	if claims.Name != "Nurse Nora" || claims.Email != "nurse@homecare.local" {
		t.Errorf("unexpected identity claims: %+v", claims)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "Personnel" || claims.Roles[1] != "Admin" {
		t.Errorf("unexpected role claim: %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl < 119*time.Minute || ttl > 121*time.Minute {
		t.Errorf("expected about two hours to expiry, got %v", ttl)
	}

	if _, err := ValidateRefreshToken(refresh, cfg); err != nil {
		t.Fatalf("refresh token rejected: %v", err)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	cfg := testConfig()
	access, refresh, err := GenerateTokens(testUser(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ValidateAccessToken(refresh, cfg); err == nil {
		t.Error("refresh token must not pass as an access token")
	}

	other := testConfig()
	other.JWTAudience = "someone-else"
	if _, err := ValidateAccessToken(access, other); err == nil {
		t.Error("expected audience mismatch to fail")
	}

	other = testConfig()
	other.JWTIssuer = "someone-else"
	if _, err := ValidateAccessToken(access, other); err == nil {
		t.Error("expected issuer mismatch to fail")
	}

	if _, err := ValidateToken("not-a-token", cfg.JWTSecret); err == nil {
		t.Error("expected garbage to fail")
	}
}

func TestValidateToken_MultipleIdentifierClaims(t *testing.T) {
	claims := &Claims{
		UserIDs: jwt.ClaimStrings{"first", "second"},
		Roles:   jwt.ClaimStrings{"Patient"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := ValidateToken(signed, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.UserIDs) != 2 || got.UserIDs[1] != "second" {
		t.Errorf("expected both identifiers in order, got %v", got.UserIDs)
	}
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserIDs: jwt.ClaimStrings{"x"}})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ValidateToken(signed, "k"); err == nil {
		t.Error("expected alg=none to be rejected")
	}
}
