// Package workflows provides high-level orchestration for sealer's
// operations.
//
// Workflows implement the four commands (generate, encrypt, decrypt, edit)
// independent of CLI concerns like flag parsing, spinners, and output
// formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Builds the option model and runs the selectors
//   - Calls the appropriate workflow function
//   - Routes the result through the output sink
//
// Workflows handle everything else:
//   - Acquiring key material per the resolved key plan
//   - Passphrase prompting and the unlocked-key cache
//   - Performing the cryptographic operation
//   - Recording audit trail entries
//
// # Collaborators
//
// External collaborators (secret prompt, keychain, editor, stdin) are
// injected through Env so tests can substitute them without touching a
// terminal or the OS keychain.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to classify failures without string matching:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, serrors.ErrDecryptFailed) {
//	    // Wrong key or corrupted ciphertext
//	}
package workflows
