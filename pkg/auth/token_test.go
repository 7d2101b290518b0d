package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "secret",
		Issuer:          "bullboard",
		ExpirationHours: 168,
	}
}

func TestMintAndParseToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	payload := TokenPayload{
		UserID:       userID,
		Email:        "reader@example.com",
		Name:         "Reader",
		IsSuperAdmin: true,
	}

	token, err := MintToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != payload.Email {
		t.Fatalf("expected email %s, got %s", payload.Email, claims.Email)
	}
	if claims.Name != payload.Name {
		t.Fatalf("expected name %s, got %s", payload.Name, claims.Name)
	}
	if !claims.IsSuperAdmin {
		t.Fatalf("expected super admin snapshot to be preserved")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationHours) * time.Hour)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintTokenRejectsMissingSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintToken(cfg, time.Now(), TokenPayload{Email: "a@x.com"}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestMintTokenRejectsPlaceholderSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = InsecureSecretPlaceholder
	if _, err := MintToken(cfg, time.Now(), TokenPayload{Email: "a@x.com"}); err == nil {
		t.Fatalf("expected error for placeholder secret")
	}
}

func TestParseTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintToken(cfg, time.Now(), TokenPayload{UserID: uuid.New(), Email: "a@x.com"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	tampered := cfg
	tampered.Secret = "other-secret"
	if _, err := ParseToken(tampered, token); err == nil {
		t.Fatalf("expected signature validation failure")
	}
}

func TestParseTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ExpirationHours = 1
	token, err := MintToken(cfg, time.Now().Add(-2*time.Hour), TokenPayload{UserID: uuid.New(), Email: "a@x.com"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if _, err := ParseToken(cfg, token); err == nil {
		t.Fatalf("expected expiry validation failure")
	}
	if !strings.Contains(strings.ToLower(token), "ey") {
		t.Fatalf("token does not look like a jwt: %s", token)
	}
}

func TestExtractBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def.ghi":  "abc.def.ghi",
		"bearer abc.def.ghi":  "abc.def.ghi",
		"Bearer   spaced  ":   "spaced",
		"Basic dXNlcjpwYXNz":  "",
		"abc.def.ghi":         "",
		"":                    "",
		"Bearer":              "",
	}
	for header, want := range cases {
		if got := ExtractBearer(header); got != want {
			t.Fatalf("ExtractBearer(%q) = %q, want %q", header, got, want)
		}
	}
}
