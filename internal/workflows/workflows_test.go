package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/sealer-cli/sealer/internal/crypto"
	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/keychain"
	"github.com/sealer-cli/sealer/internal/keysource"
	logger "github.com/sealer-cli/sealer/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv builds an Env with scripted prompt answers, an in-memory
// keychain, and piped stdin content.
func testEnv(t *testing.T, promptAnswers []string, stdin []byte) Env {
	t.Helper()
	store := keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
	answers := promptAnswers

	return Env{
		Logger: logger.Logger{},
		Prompt: func(prompt string) ([]byte, error) {
			if len(answers) == 0 {
				return nil, fmt.Errorf("unexpected prompt: %s", prompt)
			}
			next := answers[0]
			answers = answers[1:]
			return []byte(next), nil
		},
		Stdin:           bytes.NewReader(stdin),
		StdinIsPipe:     func() bool { return stdin != nil },
		OpenKeychain:    func(string) (KeyStore, error) { return store, nil },
		KeychainService: "sealer-test",
		RunEditor: func(ctx context.Context, editor, path string) error {
			t.Fatalf("unexpected editor launch: %s", editor)
			return nil
		},
		InstallID: "test-install",
	}
}

func inlinePlan(key string) *keysource.Plan {
	return &keysource.Plan{Source: keysource.SourceInline, Inline: key}
}

func TestEncryptDecryptStringRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := testEnv(t, nil, nil)

	enc, err := Encrypt(ctx, EncryptOptions{
		Plan:   inlinePlan("mykey"),
		String: "hello",
		Env:    env,
	})
	require.NoError(t, err)
	assert.Equal(t, "inline", enc.KeySource)
	assert.NotContains(t, string(enc.Ciphertext), "hello")

	dec, err := Decrypt(ctx, DecryptOptions{
		Plan:   inlinePlan("mykey"),
		String: crypto.EncodeKey(enc.Ciphertext),
		Env:    env,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(dec.Plaintext))
}

func TestEncryptFromStdinPipe(t *testing.T) {
	env := testEnv(t, nil, []byte("piped payload"))

	enc, err := Encrypt(context.Background(), EncryptOptions{
		Plan: inlinePlan("mykey"),
		Env:  env,
	})
	require.NoError(t, err)

	plain, err := crypto.Decrypt(enc.Ciphertext, mustKey(t, "mykey"))
	require.NoError(t, err)
	assert.Equal(t, "piped payload", string(plain))
}

func TestEncryptNoInputFails(t *testing.T) {
	env := testEnv(t, nil, nil)

	_, err := Encrypt(context.Background(), EncryptOptions{
		Plan: inlinePlan("mykey"),
		Env:  env,
	})
	assert.ErrorIs(t, err, serrors.ErrNoInput)
}

func TestDecryptWrongKey(t *testing.T) {
	ctx := context.Background()
	env := testEnv(t, nil, nil)

	enc, err := Encrypt(ctx, EncryptOptions{Plan: inlinePlan("right"), String: "x", Env: env})
	require.NoError(t, err)

	_, err = Decrypt(ctx, DecryptOptions{
		Plan:   inlinePlan("wrong"),
		String: crypto.EncodeKey(enc.Ciphertext),
		Env:    env,
	})
	assert.ErrorIs(t, err, serrors.ErrDecryptFailed)
}

func TestInteractiveKeyEntry(t *testing.T) {
	env := testEnv(t, []string{"spoken key"}, nil)

	enc, err := Encrypt(context.Background(), EncryptOptions{
		Plan:   &keysource.Plan{Source: keysource.SourceInteractive},
		String: "payload",
		Env:    env,
	})
	require.NoError(t, err)

	plain, err := crypto.Decrypt(enc.Ciphertext, mustKey(t, "spoken key"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(plain))
}

func TestSealedKeyfilePromptAndCache(t *testing.T) {
	key := mustKey(t, "base")
	sealed, err := crypto.SealKey(key, []byte("pass"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sealed.key")
	require.NoError(t, crypto.SaveKeyFile(path, sealed))

	plan := &keysource.Plan{
		Source:          keysource.SourceKeyFile,
		Path:            path,
		PasswordTimeout: time.Minute,
	}

	// First run prompts for the passphrase and caches the unlocked key.
	env := testEnv(t, []string{"pass"}, nil)
	enc, err := Encrypt(context.Background(), EncryptOptions{Plan: plan, String: "x", Env: env})
	require.NoError(t, err)
	require.NotNil(t, enc)

	// Second run with no scripted answers must come from the cache.
	_, err = Encrypt(context.Background(), EncryptOptions{Plan: plan, String: "y", Env: env})
	require.NoError(t, err)
}

func TestSealedKeyfileNoCachePromptsEveryTime(t *testing.T) {
	key := mustKey(t, "base")
	sealed, err := crypto.SealKey(key, []byte("pass"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sealed.key")
	require.NoError(t, crypto.SaveKeyFile(path, sealed))

	plan := &keysource.Plan{
		Source:          keysource.SourceKeyFile,
		Path:            path,
		NoPasswordCache: true,
	}

	env := testEnv(t, []string{"pass"}, nil)
	_, err = Encrypt(context.Background(), EncryptOptions{Plan: plan, String: "x", Env: env})
	require.NoError(t, err)

	// Cache disabled: a second run with no answers left must fail at the
	// prompt, not silently reuse the key.
	_, err = Encrypt(context.Background(), EncryptOptions{Plan: plan, String: "y", Env: env})
	assert.ErrorIs(t, err, serrors.ErrInteractiveAborted)
}

func TestGeneratePlain(t *testing.T) {
	env := testEnv(t, nil, nil)

	result, err := Generate(context.Background(), GenerateOptions{
		Plan: &keysource.Plan{Source: keysource.SourceGenerated},
		Env:  env,
	})
	require.NoError(t, err)
	assert.Len(t, result.Material, crypto.KeySize)
	assert.False(t, result.Protected)
	assert.Empty(t, result.KeychainLabel)
}

func TestGenerateWithPassphrase(t *testing.T) {
	env := testEnv(t, []string{"secret", "secret"}, nil)

	result, err := Generate(context.Background(), GenerateOptions{
		Plan: &keysource.Plan{Source: keysource.SourceGenerated, PasswordProtect: true},
		Env:  env,
	})
	require.NoError(t, err)
	assert.True(t, result.Protected)
	assert.True(t, crypto.IsSealedKey(result.Material))

	key, err := crypto.OpenKey(result.Material, []byte("secret"))
	require.NoError(t, err)
	assert.Len(t, key, crypto.KeySize)
}

func TestGeneratePassphraseMismatch(t *testing.T) {
	env := testEnv(t, []string{"one", "two"}, nil)

	_, err := Generate(context.Background(), GenerateOptions{
		Plan: &keysource.Plan{Source: keysource.SourceGenerated, PasswordProtect: true},
		Env:  env,
	})
	assert.ErrorIs(t, err, serrors.ErrInteractiveAborted)
}

func TestGenerateIntoKeychain(t *testing.T) {
	store := keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
	env := testEnv(t, nil, nil)
	env.OpenKeychain = func(string) (KeyStore, error) { return store, nil }

	result, err := Generate(context.Background(), GenerateOptions{
		Plan: &keysource.Plan{Source: keysource.SourceGenerated, Label: "work-laptop"},
		Env:  env,
	})
	require.NoError(t, err)
	assert.Equal(t, "work-laptop", result.KeychainLabel)

	stored, err := store.Read("work-laptop")
	require.NoError(t, err)
	assert.Equal(t, result.Material, stored)
}

func TestEditRoundTrip(t *testing.T) {
	key := mustKey(t, "editkey")
	original, err := crypto.Encrypt([]byte("line one\n"), key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.enc")
	require.NoError(t, os.WriteFile(path, original, 0600))

	env := testEnv(t, nil, nil)
	env.RunEditor = func(ctx context.Context, editor, tmpPath string) error {
		return os.WriteFile(tmpPath, []byte("line one\nline two\n"), 0600)
	}

	result, err := Edit(context.Background(), EditOptions{
		Plan:   inlinePlan("editkey"),
		File:   path,
		Backup: true,
		Editor: "stub",
		Env:    env,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, path+".bak", result.BackupPath)

	// The backup holds the original ciphertext, byte for byte.
	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	// The file decrypts to the edited content.
	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	plain, err := crypto.Decrypt(updated, key)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(plain))
}

func TestEditUnchangedLeavesFile(t *testing.T) {
	key := mustKey(t, "editkey")
	original, err := crypto.Encrypt([]byte("stable\n"), key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.enc")
	require.NoError(t, os.WriteFile(path, original, 0600))

	env := testEnv(t, nil, nil)
	env.RunEditor = func(ctx context.Context, editor, tmpPath string) error {
		return nil // user closes the editor without changes
	}

	result, err := Edit(context.Background(), EditOptions{
		Plan:   inlinePlan("editkey"),
		File:   path,
		Editor: "stub",
		Env:    env,
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after, "unchanged edit must not rewrite the ciphertext")

	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err), "no backup without --backup")
}

func TestEditUnchangedWithBackupStillBacksUp(t *testing.T) {
	key := mustKey(t, "editkey")
	original, err := crypto.Encrypt([]byte("stable\n"), key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.enc")
	require.NoError(t, os.WriteFile(path, original, 0600))

	env := testEnv(t, nil, nil)
	env.RunEditor = func(ctx context.Context, editor, tmpPath string) error {
		return nil
	}

	result, err := Edit(context.Background(), EditOptions{
		Plan:   inlinePlan("editkey"),
		File:   path,
		Backup: true,
		Editor: "stub",
		Env:    env,
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, path+".bak", result.BackupPath)

	// The backup is taken whenever --backup is given, even when the editor
	// exits without changes.
	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, original, backup)
}

func TestEditEditorFailure(t *testing.T) {
	key := mustKey(t, "editkey")
	original, err := crypto.Encrypt([]byte("content"), key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.enc")
	require.NoError(t, os.WriteFile(path, original, 0600))

	env := testEnv(t, nil, nil)
	env.RunEditor = func(ctx context.Context, editor, tmpPath string) error {
		return fmt.Errorf("%w: vi: exit status 1", serrors.ErrEditorFailed)
	}

	_, err = Edit(context.Background(), EditOptions{
		Plan:   inlinePlan("editkey"),
		File:   path,
		Editor: "stub",
		Env:    env,
	})
	assert.ErrorIs(t, err, serrors.ErrEditorFailed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestKeychainSourceReadsStore(t *testing.T) {
	store := keychain.NewWithKeyring(keyring.NewArrayKeyring(nil))
	key := mustKey(t, "stored")
	require.NoError(t, store.Write("backup", key))

	env := testEnv(t, nil, nil)
	env.OpenKeychain = func(string) (KeyStore, error) { return store, nil }

	enc, err := Encrypt(context.Background(), EncryptOptions{
		Plan:   &keysource.Plan{Source: keysource.SourceKeychain, Label: "backup"},
		String: "x",
		Env:    env,
	})
	require.NoError(t, err)

	plain, err := crypto.Decrypt(enc.Ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, "x", string(plain))
}

func TestKeychainSourceMiss(t *testing.T) {
	env := testEnv(t, nil, nil)

	_, err := Encrypt(context.Background(), EncryptOptions{
		Plan:   &keysource.Plan{Source: keysource.SourceKeychain, Label: "nope"},
		String: "x",
		Env:    env,
	})
	assert.ErrorIs(t, err, serrors.ErrKeychainMiss)
}

func mustKey(t *testing.T, s string) []byte {
	t.Helper()
	key, err := crypto.KeyFromString(s)
	require.NoError(t, err)
	return key
}
