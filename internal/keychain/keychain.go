package keychain

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
	serrors "github.com/sealer-cli/sealer/internal/errors"
)

// Store provides access to the OS keychain for one service name.
type Store struct {
	ring keyring.Keyring
}

// Open connects to the system keychain under the given service name.
// Returns ErrKeychainUnavailable when no backend exists on this platform.
func Open(service string) (*Store, error) {
	if !Available() {
		return nil, serrors.ErrKeychainUnavailable
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keychain: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewWithKeyring wraps an existing keyring. Tests use this with
// keyring.NewArrayKeyring to avoid touching the real keychain.
func NewWithKeyring(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Available reports whether a keychain backend exists on this system.
// Evaluated once at startup and injected into the option model as a
// capability, so no other code needs platform conditionals.
func Available() bool {
	return len(keyring.AvailableBackends()) > 0
}

// Read retrieves key material stored under label.
// Returns ErrKeychainMiss if no entry exists.
func (s *Store) Read(label string) ([]byte, error) {
	item, err := s.ring.Get(label)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", serrors.ErrKeychainMiss, label)
		}
		return nil, fmt.Errorf("failed to read keychain entry %s: %w", label, err)
	}
	return item.Data, nil
}

// Write stores key material under label, replacing any existing entry.
func (s *Store) Write(label string, material []byte) error {
	err := s.ring.Set(keyring.Item{
		Key:   label,
		Data:  material,
		Label: "sealer: " + label,
	})
	if err != nil {
		return fmt.Errorf("failed to write keychain entry %s: %w", label, err)
	}
	return nil
}

// Remove deletes the entry under label. Missing entries are not an error.
func (s *Store) Remove(label string) error {
	err := s.ring.Remove(label)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove keychain entry %s: %w", label, err)
	}
	return nil
}
