package workflows

import (
	"context"
	"fmt"

	"github.com/sealer-cli/sealer/internal/audit"
	"github.com/sealer-cli/sealer/internal/crypto"
	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/keysource"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	Plan *keysource.Plan

	// String is base64 ciphertext from --string, as produced by encrypt
	// when writing to stdout.
	String string

	// File is a raw ciphertext path from --file.
	File string

	// OutputPath is the destination file, empty for stdout or suppressed
	// sinks. Only recorded in the audit trail; writing is the caller's job.
	OutputPath string

	Env Env
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Plaintext []byte
	InputPath string
	KeySource string
}

// Decrypt decrypts the payload with the key named by the plan.
//
// File input is raw ciphertext; --string input is the base64 armor encrypt
// prints to stdout. Returns ErrDecryptFailed for a wrong key or corrupted
// ciphertext.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	payload, inputPath, err := resolvePayload(opts.String, opts.File, opts.Env)
	if err != nil {
		return nil, err
	}

	ciphertext := payload
	if opts.String != "" {
		ciphertext, err = crypto.DecodeKey(opts.String)
		if err != nil {
			return nil, fmt.Errorf("%w: --string ciphertext must be base64", serrors.ErrDecryptFailed)
		}
	}

	key, err := acquireKey(opts.Plan, opts.Env)
	if err != nil {
		return nil, err
	}
	opts.Env.Logger.Infof("Key acquired from %s source", opts.Plan.Source)

	plaintext, err := crypto.Decrypt(ciphertext, key)
	if err != nil {
		return nil, err
	}
	opts.Env.Logger.Debugf("Decrypted %d bytes into %d bytes", len(ciphertext), len(plaintext))

	audit.Log(audit.Entry{
		Install:    opts.Env.InstallID,
		Operation:  "decrypt",
		KeySource:  opts.Plan.Source.String(),
		InputPath:  inputPath,
		OutputPath: opts.OutputPath,
	})

	return &DecryptResult{
		Plaintext: plaintext,
		InputPath: inputPath,
		KeySource: opts.Plan.Source.String(),
	}, nil
}
