package pasetotoken

import (
	"errors"
	"testing"
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(Config{Issuer: "dentalcenter", Audience: "dentalcenter", AccessTTL: time.Minute}, paseto.NewV4SymmetricKey())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestIssueVerify(t *testing.T) {
	m := newManager(t)

	tok, err := m.IssueAccess("2", "Patient")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "2" || claims.Role != "Patient" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.IsExpired() {
		t.Error("fresh token reported expired")
	}
}

func TestVerify_Rejects(t *testing.T) {
	m := newManager(t)
	tok, _ := m.IssueAccess("1", "Admin")

	other := newManager(t)
	if _, err := other.Verify(tok); !errors.As(err, new(ErrInvalidToken)) {
		t.Errorf("Verify(foreign key) error = %v, want ErrInvalidToken", err)
	}

	wrongAud, _ := New(Config{Issuer: "dentalcenter", Audience: "elsewhere"}, m.key)
	if _, err := wrongAud.Verify(tok); err == nil {
		t.Error("Verify() accepted a token for another audience")
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := m.Verify(tok); err == nil {
		t.Error("Verify() accepted an expired token")
	}

	if _, err := m.Verify("v4.local.garbage"); err == nil {
		t.Error("Verify() accepted garbage")
	}
}

func TestNew_RequiresIssuerAndAudience(t *testing.T) {
	key := paseto.NewV4SymmetricKey()
	if _, err := New(Config{Audience: "a"}, key); err == nil {
		t.Error("New() without issuer succeeded")
	}
	if _, err := New(Config{Issuer: "i"}, key); err == nil {
		t.Error("New() without audience succeeded")
	}
}

func TestLoadLocalKey(t *testing.T) {
	if _, generated, err := LoadLocalKey(""); err != nil || !generated {
		t.Errorf("LoadLocalKey(\"\") = generated %v, err %v", generated, err)
	}
	if _, _, err := LoadLocalKey("zz"); err == nil {
		t.Error("LoadLocalKey(invalid) succeeded")
	}

	k := paseto.NewV4SymmetricKey()
	got, generated, err := LoadLocalKey(k.ExportHex())
	if err != nil || generated {
		t.Fatalf("LoadLocalKey(valid) = generated %v, err %v", generated, err)
	}
	if got.ExportHex() != k.ExportHex() {
		t.Error("LoadLocalKey round trip changed the key")
	}
}
