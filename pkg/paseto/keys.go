package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

// LoadLocalKey parses a hex v4.local key. An empty string yields a fresh
// random key, so tokens do not survive a restart.
func LoadLocalKey(hex string) (paseto.V4SymmetricKey, bool, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return paseto.NewV4SymmetricKey(), true, nil
	}
	k, err := paseto.V4SymmetricKeyFromHex(hex)
	if err != nil {
		return paseto.V4SymmetricKey{}, false, ErrConfig{Msg: "invalid symmetric key hex: " + err.Error()}
	}
	return k, false, nil
}
