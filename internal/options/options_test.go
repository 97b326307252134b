package options

import (
	"sort"
	"strings"
	"testing"

	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateConflictingInputs(t *testing.T) {
	opts := &Options{String: "hello", File: "secrets.env"}
	assert.ErrorIs(t, opts.Validate(), serrors.ErrConflictingInputs)
}

func TestValidateKeychainNeedsCapability(t *testing.T) {
	opts := &Options{Keychain: "work"}
	assert.ErrorIs(t, opts.Validate(), serrors.ErrKeychainUnavailable)

	opts.Caps.Keychain = true
	assert.NoError(t, opts.Validate())
}

func TestValidateNegativeTimeout(t *testing.T) {
	opts := &Options{PasswordTimeout: -1}
	assert.Error(t, opts.Validate())
}

func TestSnapshotOmitsUnsetFlags(t *testing.T) {
	opts := &Options{
		Encrypt:    true,
		String:     "hello",
		PrivateKey: "mykey",
	}

	snap := opts.Snapshot()
	assert.Equal(t, "true", snap["encrypt"])
	assert.Equal(t, "hello", snap["string"])
	assert.Equal(t, "mykey", snap["private-key"])
	assert.NotContains(t, snap, "decrypt")
	assert.NotContains(t, snap, "quiet")
	assert.NotContains(t, snap, "output")
}

func TestDictionaryIsSortedAndComplete(t *testing.T) {
	dict := Dictionary()
	names := strings.Split(dict, " ")

	assert.True(t, sort.StringsAreSorted(names), "dictionary must be sorted: %s", dict)

	for _, want := range []string{
		"encrypt", "decrypt", "edit", "generate",
		"private-key", "keyfile", "keychain", "interactive",
		"password", "password-timeout", "no-password-cache",
		"string", "file", "output", "backup",
		"verbose", "trace", "debug", "quiet", "version", "no-color",
		"bash-completion", "examples", "help", "dictionary",
	} {
		assert.Contains(t, names, want)
	}
}
