package workflows

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sealer-cli/sealer/internal/crypto"
	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/keychain"
	"github.com/sealer-cli/sealer/internal/keysource"
	logger "github.com/sealer-cli/sealer/internal/logging"
	"github.com/sealer-cli/sealer/internal/terminal"
)

// KeyStore is the keychain surface workflows depend on.
// *keychain.Store satisfies it; tests use an in-memory keyring.
type KeyStore interface {
	Read(label string) ([]byte, error)
	Write(label string, material []byte) error
	CacheKey(label string, key []byte, ttl time.Duration) error
	CachedKey(label string) (key []byte, ok bool)
	DropCachedKey(label string) error
}

// Env carries the external collaborators a workflow needs. The zero value
// is not usable; build one with DefaultEnv or fill the fields in tests.
type Env struct {
	Logger logger.Logger

	// Prompt reads a secret from the user with no echo.
	Prompt func(prompt string) ([]byte, error)

	// Stdin supplies piped payload data when no --string/--file is given.
	Stdin io.Reader

	// StdinIsPipe reports whether stdin carries piped data.
	StdinIsPipe func() bool

	// OpenKeychain connects to the keychain under the given service name.
	OpenKeychain func(service string) (KeyStore, error)

	// KeychainService is the service name for keychain entries.
	KeychainService string

	// RunEditor opens path in the user's editor and blocks until it exits.
	RunEditor func(ctx context.Context, editor, path string) error

	// InstallID identifies this installation in audit entries.
	InstallID string
}

// DefaultEnv returns an Env wired to the real terminal, keychain, and
// editor.
func DefaultEnv(log logger.Logger, service, installID string) Env {
	return Env{
		Logger:          log,
		Prompt:          terminal.PromptSecret,
		Stdin:           os.Stdin,
		StdinIsPipe:     func() bool { return !terminal.IsTerminal() },
		OpenKeychain:    openRealKeychain,
		KeychainService: service,
		RunEditor:       runEditor,
		InstallID:       installID,
	}
}

func openRealKeychain(service string) (KeyStore, error) {
	return keychain.Open(service)
}

// runEditor launches the editor command with path appended. The editor
// string may carry arguments ("code --wait"); it is split on whitespace.
func runEditor(ctx context.Context, editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("%w: no editor configured", serrors.ErrEditorFailed)
	}

	args := append(parts[1:], path)
	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", serrors.ErrEditorFailed, parts[0], err)
	}
	return nil
}

// acquireKey turns a key plan into raw key material. Passphrase-protected
// material is unlocked with a prompt, consulting and updating the
// unlocked-key cache per the plan.
func acquireKey(plan *keysource.Plan, env Env) ([]byte, error) {
	switch plan.Source {
	case keysource.SourceInteractive:
		secret, err := env.Prompt("Enter private key: ")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", serrors.ErrInteractiveAborted, err)
		}
		if len(secret) == 0 {
			return nil, fmt.Errorf("%w: empty input", serrors.ErrInteractiveAborted)
		}
		return crypto.KeyFromString(string(secret))

	case keysource.SourceInline:
		return crypto.KeyFromString(plan.Inline)

	case keysource.SourceKeyFile:
		material, err := crypto.LoadKeyFile(plan.Path)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(plan.Path)
		if err != nil {
			abs = plan.Path
		}
		return unlock(material, "file:"+abs, plan, env)

	case keysource.SourceKeychain:
		store, err := env.OpenKeychain(env.KeychainService)
		if err != nil {
			return nil, err
		}
		material, err := store.Read(plan.Label)
		if err != nil {
			return nil, err
		}
		return unlock(material, "keychain:"+plan.Label, plan, env)
	}

	return nil, serrors.ErrNoKeySpecified
}

// unlock opens a passphrase envelope if the material is sealed, using the
// cache when the plan allows it. Raw material passes through untouched.
func unlock(material []byte, cacheLabel string, plan *keysource.Plan, env Env) ([]byte, error) {
	if !crypto.IsSealedKey(material) {
		return material, nil
	}

	var store KeyStore
	if !plan.NoPasswordCache && env.OpenKeychain != nil {
		if s, err := env.OpenKeychain(env.KeychainService); err == nil {
			store = s
			if key, ok := s.CachedKey(cacheLabel); ok {
				env.Logger.Debugf("Using cached unlocked key for %s", cacheLabel)
				return key, nil
			}
		}
	}

	passphrase, err := env.Prompt("Enter key passphrase: ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrInteractiveAborted, err)
	}

	key, err := crypto.OpenKey(material, passphrase)
	if err != nil {
		return nil, err
	}

	if store != nil && plan.PasswordTimeout > 0 {
		if err := store.CacheKey(cacheLabel, key, plan.PasswordTimeout); err != nil {
			env.Logger.Warnf("Failed to cache unlocked key: %v", err)
		}
	}

	return key, nil
}
