package services_test

import (
	"testing"

	"mining-miniapp-backend/internal/config"
	"mining-miniapp-backend/internal/services"
)

func TestJWTRoundTrip(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "test-secret"})

	token, err := jwtService.GenerateToken(12345, "session-abc")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.UserID != 12345 {
		t.Errorf("Expected user ID 12345, got %d", claims.UserID)
	}
	if claims.SessionID != "session-abc" {
		t.Errorf("Expected session session-abc, got %q", claims.SessionID)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := services.NewJWTService(&config.Config{JWTSecret: "secret-a"})
	verifier := services.NewJWTService(&config.Config{JWTSecret: "secret-b"})

	token, err := issuer.GenerateToken(1, "s")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("Expected validation with wrong secret to fail")
	}
}

func TestJWTGarbageToken(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "test-secret"})

	if _, err := jwtService.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected garbage token to fail validation")
	}
}
