package workflows

import (
	"context"

	"github.com/sealer-cli/sealer/internal/audit"
	"github.com/sealer-cli/sealer/internal/crypto"
	"github.com/sealer-cli/sealer/internal/keysource"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Plan is the resolved key-acquisition plan.
	Plan *keysource.Plan

	// String is the literal payload from --string, if any.
	String string

	// File is the payload path from --file, if any.
	File string

	// OutputPath is the destination file, empty for stdout or suppressed
	// sinks. Only recorded in the audit trail; writing is the caller's job.
	OutputPath string

	Env Env
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Ciphertext is the raw nonce-prefixed secretbox output.
	Ciphertext []byte

	// InputPath is the payload file, empty for string/stdin input.
	InputPath string

	// KeySource names where the key came from.
	KeySource string
}

// Encrypt encrypts the payload with the key named by the plan.
//
// The payload comes from --string, --file, or piped stdin, in that order.
// Returns ErrNoInput when no payload source exists, key resolution errors
// from the plan, and ErrEncryptFailed when the cipher collaborator fails.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	plaintext, inputPath, err := resolvePayload(opts.String, opts.File, opts.Env)
	if err != nil {
		return nil, err
	}

	key, err := acquireKey(opts.Plan, opts.Env)
	if err != nil {
		return nil, err
	}
	opts.Env.Logger.Infof("Key acquired from %s source", opts.Plan.Source)

	ciphertext, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}
	opts.Env.Logger.Debugf("Encrypted %d bytes into %d bytes", len(plaintext), len(ciphertext))

	audit.Log(audit.Entry{
		Install:    opts.Env.InstallID,
		Operation:  "encrypt",
		KeySource:  opts.Plan.Source.String(),
		InputPath:  inputPath,
		OutputPath: opts.OutputPath,
	})

	return &EncryptResult{
		Ciphertext: ciphertext,
		InputPath:  inputPath,
		KeySource:  opts.Plan.Source.String(),
	}, nil
}
