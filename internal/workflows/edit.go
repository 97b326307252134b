package workflows

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sealer-cli/sealer/internal/audit"
	"github.com/sealer-cli/sealer/internal/crypto"
	"github.com/sealer-cli/sealer/internal/keysource"
	"github.com/sealer-cli/sealer/internal/output"
)

// EditOptions configures the edit workflow.
type EditOptions struct {
	Plan *keysource.Plan

	// File is the encrypted file to edit. Required.
	File string

	// Backup requests a .bak copy of the original ciphertext before the
	// re-encrypted content replaces it.
	Backup bool

	// Editor is the editor command line ($VISUAL/$EDITOR/config default).
	Editor string

	Env Env
}

// EditResult contains the outcome of an edit operation.
type EditResult struct {
	// Changed is false when the editor exited without modifying the
	// content; the file is left untouched in that case.
	Changed bool

	// BackupPath is the .bak copy, empty when none was made.
	BackupPath string
}

// Edit decrypts the file, opens the plaintext in the user's editor, and
// re-encrypts it on exit.
//
// The plaintext lives in a 0600 temp file for the duration of the edit and
// is removed afterwards. Unchanged content skips the rewrite, so the
// ciphertext on disk stays byte-identical. With Backup set, the original
// ciphertext is always copied to <file>.bak once the editor exits cleanly,
// changed or not.
func Edit(ctx context.Context, opts EditOptions) (*EditResult, error) {
	ciphertext, err := os.ReadFile(opts.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.File, err)
	}

	key, err := acquireKey(opts.Plan, opts.Env)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Decrypt(ciphertext, key)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "sealer-edit-*"+filepath.Ext(strippedName(opts.File)))
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to restrict temp file permissions: %w", err)
	}
	if _, err := tmp.Write(plaintext); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	opts.Env.Logger.Debugf("Opening %s in editor: %s", tmpPath, opts.Editor)
	if err := opts.Env.RunEditor(ctx, opts.Editor, tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited content: %w", err)
	}

	backupPath := ""
	if opts.Backup {
		backupPath = opts.File + ".bak"
		if err := output.WriteFileAtomic(backupPath, ciphertext, 0600); err != nil {
			return nil, err
		}
		opts.Env.Logger.Infof("Backed up original to %s", backupPath)
	}

	if bytes.Equal(edited, plaintext) {
		opts.Env.Logger.Infof("Content unchanged, leaving %s as is", opts.File)
		return &EditResult{Changed: false, BackupPath: backupPath}, nil
	}

	reencrypted, err := crypto.Encrypt(edited, key)
	if err != nil {
		return nil, err
	}
	if err := output.WriteFileAtomic(opts.File, reencrypted, 0600); err != nil {
		return nil, err
	}

	audit.Log(audit.Entry{
		Install:   opts.Env.InstallID,
		Operation: "edit",
		KeySource: opts.Plan.Source.String(),
		InputPath: opts.File,
		Backup:    opts.Backup,
	})

	return &EditResult{Changed: true, BackupPath: backupPath}, nil
}

// strippedName returns the filename without a trailing .enc style
// extension, so the temp file keeps a useful suffix for editor syntax
// highlighting of the inner content.
func strippedName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == ".enc" || ext == ".sealed" {
		return base[:len(base)-len(ext)]
	}
	return base
}
