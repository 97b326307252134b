// Package keysource resolves where the private key for an invocation comes
// from.
//
// Several flags can name a key source at once; resolution applies a fixed
// total order, so the same option model always yields the same single
// source:
//
//	--generate > --interactive > --private-key > --keyfile > --keychain
//
// Lower-precedence sources present at the same time are recorded as
// redundant so the caller can warn about them. The resolver also carries
// the cross-cutting key-handling options (passphrase protection, password
// cache lifetime) into the plan; acting on them is the execution layer's
// job.
package keysource

import (
	"fmt"
	"os"
	"time"

	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/options"
)

// Source is the resolved origin of the private key material.
type Source int

const (
	SourceNone Source = iota
	SourceGenerated
	SourceInteractive
	SourceInline
	SourceKeyFile
	SourceKeychain
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceGenerated:
		return "generated"
	case SourceInteractive:
		return "interactive"
	case SourceInline:
		return "inline"
	case SourceKeyFile:
		return "keyfile"
	case SourceKeychain:
		return "keychain"
	default:
		return "none"
	}
}

// Plan is the key-acquisition plan for one invocation. It names the single
// authoritative source plus the key-handling options the execution layer
// must honor.
type Plan struct {
	Source Source

	// Inline holds the --private-key value for SourceInline.
	Inline string

	// Path holds the --keyfile path for SourceKeyFile.
	Path string

	// Label holds the --keychain entry name for SourceKeychain, and the
	// destination entry name when generating with --keychain.
	Label string

	// PasswordProtect requests the resolved or generated key be wrapped in
	// a passphrase envelope.
	PasswordProtect bool

	// PasswordTimeout bounds how long an unlocked key may stay cached.
	PasswordTimeout time.Duration

	// NoPasswordCache disables the unlocked-key cache entirely.
	NoPasswordCache bool

	// Redundant lists the sources that were also specified but lost the
	// precedence decision, in flag form, for a warning line.
	Redundant []string
}

// Resolve produces exactly one key-acquisition plan from the option model,
// or fails with a key-resolution error. First match in the precedence
// order wins; the rest are recorded as redundant.
func Resolve(opts *options.Options) (*Plan, error) {
	plan := &Plan{
		PasswordProtect: opts.Password,
		PasswordTimeout: time.Duration(opts.PasswordTimeout) * time.Second,
		NoPasswordCache: opts.NoPasswordCache,
	}

	claim := func(source Source, flag string) {
		if plan.Source == SourceNone {
			plan.Source = source
			return
		}
		plan.Redundant = append(plan.Redundant, flag)
	}

	if opts.Generate {
		claim(SourceGenerated, "--generate")
	}
	if opts.Interactive {
		claim(SourceInteractive, "--interactive")
	}
	if opts.PrivateKey != "" {
		claim(SourceInline, "--private-key")
	}
	if opts.Keyfile != "" {
		claim(SourceKeyFile, "--keyfile")
	}
	if opts.Keychain != "" {
		claim(SourceKeychain, "--keychain")
		// Generating with --keychain uses it as a write destination, so
		// the label rides along regardless of which source won.
		plan.Label = opts.Keychain
	}

	switch plan.Source {
	case SourceNone:
		return nil, serrors.ErrNoKeySpecified
	case SourceInline:
		plan.Inline = opts.PrivateKey
	case SourceKeyFile:
		plan.Path = opts.Keyfile
		// Fail here, before any decryption is attempted.
		if _, err := os.Stat(plan.Path); err != nil {
			return nil, fmt.Errorf("%w: %s", serrors.ErrKeyFileNotFound, plan.Path)
		}
	}

	return plan, nil
}
