package workflows

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/sealer-cli/sealer/internal/audit"
	"github.com/sealer-cli/sealer/internal/crypto"
	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/keysource"
)

// GenerateOptions configures the generate workflow.
type GenerateOptions struct {
	Plan *keysource.Plan

	// OutputPath is the key file destination, empty for stdout or
	// suppressed sinks. Only recorded in the audit trail.
	OutputPath string

	Env Env
}

// GenerateResult contains the outcome of a generate operation.
type GenerateResult struct {
	// Material is the key, passphrase-sealed when the plan asked for
	// protection. Callers encode it to base64 before writing.
	Material []byte

	// Protected reports whether Material is a passphrase envelope.
	Protected bool

	// KeychainLabel is the keychain entry the key was stored under, empty
	// when no keychain destination was requested.
	KeychainLabel string
}

// Generate creates a new random private key.
//
// With password protection the user is prompted twice and the key is
// wrapped in a scrypt envelope; the envelope, not the raw key, is what
// leaves this function. With a keychain label the material is additionally
// stored in the OS keychain under that name.
func Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	material := key
	protected := false
	if opts.Plan.PasswordProtect {
		passphrase, err := opts.Env.Prompt("Enter passphrase for new key: ")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", serrors.ErrInteractiveAborted, err)
		}
		confirm, err := opts.Env.Prompt("Confirm passphrase: ")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", serrors.ErrInteractiveAborted, err)
		}
		if subtle.ConstantTimeCompare(passphrase, confirm) != 1 {
			return nil, fmt.Errorf("%w: passphrases do not match", serrors.ErrInteractiveAborted)
		}

		material, err = crypto.SealKey(key, passphrase)
		if err != nil {
			return nil, err
		}
		protected = true
		opts.Env.Logger.Infof("Generated key sealed with passphrase")
	}

	label := ""
	if opts.Plan.Label != "" {
		store, err := opts.Env.OpenKeychain(opts.Env.KeychainService)
		if err != nil {
			return nil, err
		}
		if err := store.Write(opts.Plan.Label, material); err != nil {
			return nil, err
		}
		label = opts.Plan.Label
		opts.Env.Logger.Infof("Key stored in keychain as %s", label)
	}

	audit.Log(audit.Entry{
		Install:    opts.Env.InstallID,
		Operation:  "generate",
		KeySource:  keysource.SourceGenerated.String(),
		OutputPath: opts.OutputPath,
		Keychain:   label,
	})

	return &GenerateResult{
		Material:      material,
		Protected:     protected,
		KeychainLabel: label,
	}, nil
}
