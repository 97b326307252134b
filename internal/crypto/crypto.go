package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	serrors "github.com/sealer-cli/sealer/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// KeySize is the symmetric key length in bytes.
const KeySize = 32

const nonceSize = 24

// scrypt parameters for the passphrase envelope.
const (
	scryptN       = 32768
	scryptR       = 8
	scryptP       = 1
	scryptSaltLen = 16
)

// sealedMagic prefixes a passphrase-protected key envelope.
var sealedMagic = []byte("SEALERK1")

// GenerateKey generates a new random symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext with NaCl secretbox. The random 24-byte nonce is
// prepended to the ciphertext, so re-encrypting the same input produces
// different output.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	boxKey, err := toBoxKey(key)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, boxKey), nil
}

// Decrypt opens a nonce-prefixed secretbox ciphertext.
// Returns ErrDecryptFailed if the key is wrong or the data is corrupted.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	boxKey, err := toBoxKey(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: ciphertext too short", serrors.ErrDecryptFailed)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, boxKey)
	if !ok {
		return nil, fmt.Errorf("%w: wrong key or corrupted ciphertext", serrors.ErrDecryptFailed)
	}
	return plaintext, nil
}

// SealKey wraps key material in a passphrase-protected envelope. The
// envelope is magic || salt || secretbox(nonce || box), with the box key
// derived from the passphrase by scrypt.
func SealKey(key, passphrase []byte) ([]byte, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	derived, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key from passphrase: %w", err)
	}

	sealed, err := Encrypt(key, derived)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(sealedMagic)+scryptSaltLen+len(sealed))
	out = append(out, sealedMagic...)
	out = append(out, salt...)
	out = append(out, sealed...)
	return out, nil
}

// OpenKey unwraps a passphrase-protected key envelope produced by SealKey.
// Returns ErrDecryptFailed on a wrong passphrase.
func OpenKey(envelope, passphrase []byte) ([]byte, error) {
	if !IsSealedKey(envelope) {
		return nil, fmt.Errorf("%w: not a passphrase-protected key", serrors.ErrInvalidKey)
	}

	body := envelope[len(sealedMagic):]
	if len(body) < scryptSaltLen {
		return nil, fmt.Errorf("%w: truncated key envelope", serrors.ErrInvalidKey)
	}
	salt := body[:scryptSaltLen]

	derived, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key from passphrase: %w", err)
	}

	return Decrypt(body[scryptSaltLen:], derived)
}

// IsSealedKey reports whether data is a passphrase-protected key envelope.
func IsSealedKey(data []byte) bool {
	return len(data) >= len(sealedMagic) && string(data[:len(sealedMagic)]) == string(sealedMagic)
}

// KeyFromString turns an inline --private-key value into key material.
// A standard-base64 string decoding to exactly 32 bytes is used as-is;
// anything else is hashed with SHA-256 so a memorable passphrase works
// inline.
func KeyFromString(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty key string", serrors.ErrInvalidKey)
	}
	if decoded, err := decodeBase64(value); err == nil && len(decoded) == KeySize {
		return decoded, nil
	}
	sum := sha256.Sum256([]byte(value))
	return sum[:], nil
}

func toBoxKey(key []byte) (*[KeySize]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", serrors.ErrInvalidKey, KeySize, len(key))
	}
	var boxKey [KeySize]byte
	copy(boxKey[:], key)
	return &boxKey, nil
}
