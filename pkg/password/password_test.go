package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/Alijeyrad/dentalcenter/config"
)

// Small parameters keep the tests fast.
var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestHash(t *testing.T) {
	hash, err := NewHasher(testParams).Hash("admin123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !IsHash(hash) {
		t.Errorf("IsHash(%s) = false", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("Hash() expected 6 parts, got %d", len(parts))
	}
}

func TestVerify(t *testing.T) {
	hash, _ := NewHasher(testParams).Hash("patient123")

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", hash, "patient123", nil},
		{"wrong password", hash, "patient124", ErrMismatch},
		{"invalid hash format", "notahash", "patient123", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=1,t=1,p=1$AA$AA", "x", ErrInvalidHash},
		{"wrong version", "$argon2id$v=18$m=1,t=1,p=1$AA$AA", "x", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.hash, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	hash, _ := NewHasher(testParams).Hash("admin123")

	tests := []struct {
		name     string
		stored   string
		password string
		want     bool
	}{
		{"hashed match", hash, "admin123", true},
		{"hashed mismatch", hash, "admin", false},
		{"plaintext match", "admin123", "admin123", true},
		{"plaintext mismatch", "admin123", "Admin123", false},
		{"plaintext prefix", "admin123", "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Check(tt.stored, tt.password); got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromCentralConfig(t *testing.T) {
	p := FromCentralConfig(config.PasswordConfig{})
	if p != DefaultParams() {
		t.Errorf("empty config = %+v, want defaults", p)
	}

	p = FromCentralConfig(config.PasswordConfig{LowMemoryMode: true})
	if p.Memory != 32*1024 || p.Iterations != 4 {
		t.Errorf("low memory = %+v, want 32MiB and 4 iterations", p)
	}
}
