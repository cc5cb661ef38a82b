package service

import (
	"testing"
	"time"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/model"
)

func testConfig(secret string) *config.Config {
	return &config.Config{
		JWTSecret:  secret,
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	svc := NewAuthService(testConfig("secret-one"), nil)

	hash, err := svc.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}

	if err := svc.CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestStaffTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(testConfig("secret-one"), nil)

	token, err := svc.GenerateStaffToken(7, model.StaffRoleProctor)
	if err != nil {
		t.Fatalf("GenerateStaffToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != TokenTypeStaff {
		t.Errorf("TokenType = %s, want %s", claims.TokenType, TokenTypeStaff)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Role != model.StaffRoleProctor {
		t.Errorf("Role = %s, want %s", claims.Role, model.StaffRoleProctor)
	}
	if claims.ID == "" {
		t.Error("expected non-empty JTI")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewAuthService(testConfig("secret-one"), nil)
	verifier := NewAuthService(testConfig("secret-two"), nil)

	token, err := issuer.GenerateStaffToken(1, model.StaffRoleAdmin)
	if err != nil {
		t.Fatalf("GenerateStaffToken: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected validation failure with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewAuthService(testConfig("secret-one"), nil)
	if _, err := svc.ValidateToken("not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
