package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "secret-password" {
		t.Fatal("hash must not equal the plaintext password")
	}
	if !CheckPasswordHash("secret-password", hash) {
		t.Error("CheckPasswordHash should accept the original password")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("CheckPasswordHash should reject a wrong password")
	}
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	tokenString, err := GenerateJWT("doctor@hospital.local", "doctor", "EMP-001", "W-3", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return Secret(), nil
	})
	if err != nil {
		t.Fatalf("parsing generated token: %v", err)
	}
	if !token.Valid {
		t.Fatal("generated token should be valid")
	}
	if claims.Email != "doctor@hospital.local" || claims.Role != "doctor" {
		t.Errorf("claims = %q/%q, want doctor@hospital.local/doctor", claims.Email, claims.Role)
	}
	if claims.EmployeeID != "EMP-001" || claims.WardNumber != "W-3" {
		t.Errorf("claims = %q/%q, want EMP-001/W-3", claims.EmployeeID, claims.WardNumber)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Error("token should expire in the future")
	}
}

func TestGenerateJWTDefaultExpiration(t *testing.T) {
	SetSecret("test-secret")

	tokenString, err := GenerateJWT("nurse@hospital.local", "nurse", "EMP-002", "", 0)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims := &JWTClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return Secret(), nil
	}); err != nil {
		t.Fatalf("parsing generated token: %v", err)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Errorf("default expiration should be ~24h, got %v remaining", remaining)
	}
}
