package crypto

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	serrors "github.com/sealer-cli/sealer/internal/errors"
)

// SaveKeyFile writes key material to path as base64 text with 0600
// permissions. The material may be a raw key or a sealed envelope.
func SaveKeyFile(path string, material []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory for key file at %s: %w", dir, err)
	}

	encoded := base64.StdEncoding.EncodeToString(material) + "\n"
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return fmt.Errorf("failed to write key file at %s: %w", path, err)
	}
	return nil
}

// LoadKeyFile reads key material from a base64 key file. The returned bytes
// may be a raw key or a sealed envelope; check with IsSealedKey.
func LoadKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", serrors.ErrKeyFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read key file at %s: %w", path, err)
	}

	material, err := decodeBase64(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not base64", serrors.ErrInvalidKey, path)
	}
	if !IsSealedKey(material) && len(material) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes in %s, got %d", serrors.ErrInvalidKey, KeySize, path, len(material))
	}
	return material, nil
}

// EncodeKey returns the base64 text form of key material, as stored in key
// files and the keychain.
func EncodeKey(material []byte) string {
	return base64.StdEncoding.EncodeToString(material)
}

// DecodeKey parses the base64 text form of key material.
func DecodeKey(encoded string) ([]byte, error) {
	material, err := decodeBase64(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", serrors.ErrInvalidKey)
	}
	return material, nil
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
