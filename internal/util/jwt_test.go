package util

import (
	"testing"
	"time"
)

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "homebook", "owner-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Owner != "owner-1" {
		t.Errorf("Owner = %q, want owner-1", claims.Owner)
	}
	if claims.Issuer != "homebook" {
		t.Errorf("Issuer = %q, want homebook", claims.Issuer)
	}
}

func TestToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", "homebook", "owner-1", time.Hour)
	if _, err := ParseToken("other", token); err == nil {
		t.Error("ParseToken with wrong secret error = nil, want error")
	}
}

func TestToken_DefaultTTL(t *testing.T) {
	token, _ := GenerateToken("secret", "homebook", "owner-1", -time.Hour)
	// ttl <= 0 falls back to 24h, so the token is still valid
	if _, err := ParseToken("secret", token); err != nil {
		t.Errorf("ParseToken() error = %v, want nil", err)
	}
}

func TestToken_Garbage(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-token"); err == nil {
		t.Error("ParseToken(garbage) error = nil, want error")
	}
}
