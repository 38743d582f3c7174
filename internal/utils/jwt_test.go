package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
)

func TestJWT_RoundTrip(t *testing.T) {
	util := NewJWTUtil("test-secret")

	tokenString, err := util.GenerateToken("user-123", "agent", true)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := util.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !token.Valid {
		t.Fatalf("token should be valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", token.Claims)
	}
	if claims["user_id"] != "user-123" {
		t.Errorf("user_id = %v, want user-123", claims["user_id"])
	}
	if claims["role"] != "agent" {
		t.Errorf("role = %v, want agent", claims["role"])
	}
	if claims["reset_required"] != true {
		t.Errorf("reset_required = %v, want true", claims["reset_required"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Errorf("jti claim missing")
	}
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	tokenString, err := NewJWTUtil("secret-a").GenerateToken("user-123", "admin", false)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewJWTUtil("secret-b").ValidateToken(tokenString); err == nil {
		t.Fatalf("token signed with another secret must not validate")
	}
}

func TestJWT_RejectsGarbage(t *testing.T) {
	if _, err := NewJWTUtil("secret").ValidateToken("not.a.token"); err == nil {
		t.Fatalf("malformed token must not validate")
	}
}
