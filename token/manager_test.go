package token

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = []byte("s3cr3t")
	}
	if cfg.TTL == 0 {
		cfg.TTL = time.Hour
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

type testPrincipal struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func TestSignVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t, Config{})

	payload, _ := json.Marshal(testPrincipal{UserID: "42", Username: "alice"})
	tok, err := m.Sign("42", payload, "42:D1:abc", 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", claims.Subject)
	}
	if claims.SessionKey != "42:D1:abc" {
		t.Fatalf("unexpected session key %q", claims.SessionKey)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}

	var got testPrincipal
	if err := json.Unmarshal([]byte(claims.User), &got); err != nil {
		t.Fatalf("principal payload: %v", err)
	}
	if got.UserID != "42" || got.Username != "alice" {
		t.Fatalf("principal round trip mismatch: %+v", got)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := newTestManager(t, Config{})

	payload, _ := json.Marshal(testPrincipal{UserID: "42"})
	tok, err := m.Sign("42", payload, "", time.Millisecond)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := m.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMissingAndForged(t *testing.T) {
	m := newTestManager(t, Config{})

	if _, err := m.Verify(""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
	if _, err := m.Verify("   "); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing for blank token, got %v", err)
	}
	if _, err := m.Verify("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	other := newTestManager(t, Config{Secret: []byte("different-secret")})
	payload, _ := json.Marshal(testPrincipal{UserID: "42"})
	forged, err := other.Sign("42", payload, "", 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsMissingPrincipal(t *testing.T) {
	m := newTestManager(t, Config{})

	claims := Claims{RegisteredClaims: gjwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte("s3cr3t"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid without user claim, got %v", err)
	}
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	m := newTestManager(t, Config{})

	claims := Claims{User: `{"userId":"42"}`, RegisteredClaims: gjwt.RegisteredClaims{
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := gjwt.NewWithClaims(gjwt.SigningMethodHS512, claims).SignedString([]byte("s3cr3t"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected wrong algorithm to be rejected, got %v", err)
	}
}

func TestExtractSessionKeyBestEffort(t *testing.T) {
	m := newTestManager(t, Config{})
	payload, _ := json.Marshal(testPrincipal{UserID: "42"})

	withKey, err := m.Sign("42", payload, "42:D1:abc", 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	key, ok := m.ExtractSessionKey(withKey)
	if !ok || key != "42:D1:abc" {
		t.Fatalf("expected session key, got %q ok=%v", key, ok)
	}

	withoutKey, err := m.Sign("42", payload, "", 0)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, ok := m.ExtractSessionKey(withoutKey); ok {
		t.Fatal("expected no session key")
	}

	if _, ok := m.ExtractSessionKey("garbage"); ok {
		t.Fatal("expected extraction to fail on garbage input")
	}
}

func TestExpiryUnverified(t *testing.T) {
	m := newTestManager(t, Config{})
	payload, _ := json.Marshal(testPrincipal{UserID: "42"})

	tok, err := m.Sign("42", payload, "", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	exp, ok := m.Expiry(tok)
	if !ok {
		t.Fatal("expected expiry claim")
	}
	want := time.Now().Add(time.Hour)
	if exp.Before(want.Add(-time.Minute)) || exp.After(want.Add(time.Minute)) {
		t.Fatalf("expiry out of range: %v", exp)
	}

	if _, ok := m.Expiry("not.a.jwt"); ok {
		t.Fatal("expected no expiry for malformed token")
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{TTL: time.Hour}); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
	if _, err := NewManager(Config{Secret: []byte("s"), TTL: 0}); err == nil {
		t.Fatal("expected zero TTL to be rejected")
	}
	if _, err := NewManager(Config{Secret: []byte("s"), TTL: time.Hour, Leeway: 5 * time.Minute}); err == nil {
		t.Fatal("expected oversized leeway to be rejected")
	}
	if _, err := NewManager(Config{Secret: []byte("s"), TTL: time.Hour, SigningMethod: "rs256"}); err == nil {
		t.Fatal("expected unsupported method to be rejected")
	}
}
