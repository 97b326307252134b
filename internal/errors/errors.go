package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Parse errors indicate the argument list could not be turned into options.
var (
	// ErrUnknownFlag indicates an unrecognized flag was supplied.
	ErrUnknownFlag = errors.New("unknown flag")

	// ErrMissingValue indicates a flag that requires a value was given none.
	ErrMissingValue = errors.New("flag requires a value")

	// ErrConflictingInputs indicates both --string and --file were supplied.
	ErrConflictingInputs = errors.New("--string and --file are mutually exclusive")
)

// Command selection errors indicate the mode flags do not name one operation.
var (
	// ErrNoMode indicates none of --generate, --encrypt, --decrypt, --edit was set.
	ErrNoMode = errors.New("no mode specified")

	// ErrConflictingModes indicates more than one mode flag was set.
	ErrConflictingModes = errors.New("conflicting modes")

	// ErrEditNeedsFile indicates --edit was used without --file.
	ErrEditNeedsFile = errors.New("--edit requires --file")
)

// Key resolution errors indicate no usable private key could be produced.
var (
	// ErrNoKeySpecified indicates the operation needs a key and none was given.
	ErrNoKeySpecified = errors.New("no private key specified")

	// ErrKeyFileNotFound indicates the --keyfile path does not exist or is unreadable.
	ErrKeyFileNotFound = errors.New("key file not found")

	// ErrKeychainMiss indicates the named keychain entry does not exist.
	ErrKeychainMiss = errors.New("key not found in keychain")

	// ErrKeychainUnavailable indicates no keychain backend exists on this system.
	ErrKeychainUnavailable = errors.New("keychain is not available on this system")

	// ErrInteractiveAborted indicates the user aborted the passphrase prompt.
	ErrInteractiveAborted = errors.New("interactive key entry aborted")

	// ErrInvalidKey indicates the key material is malformed or the wrong length.
	ErrInvalidKey = errors.New("invalid private key material")
)

// Write errors indicate the output destination could not be written.
var (
	// ErrWriteFailed indicates the output sink could not be written.
	ErrWriteFailed = errors.New("failed to write output")
)

// Execution errors indicate the cryptography collaborator failed.
var (
	// ErrEncryptFailed indicates encryption failed.
	ErrEncryptFailed = errors.New("failed to encrypt")

	// ErrDecryptFailed indicates decryption failed, usually a wrong key or
	// corrupted ciphertext.
	ErrDecryptFailed = errors.New("failed to decrypt")

	// ErrNoInput indicates encrypt/decrypt had no string, file, or piped stdin.
	ErrNoInput = errors.New("no input provided")

	// ErrEditorFailed indicates the external editor exited with an error.
	ErrEditorFailed = errors.New("editor exited with an error")
)

// Kind classifies a failure for exit-status purposes.
type Kind int

const (
	KindNone Kind = iota
	KindParse
	KindCommand
	KindKeyResolution
	KindWrite
	KindExecution
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindCommand:
		return "command error"
	case KindKeyResolution:
		return "key resolution error"
	case KindWrite:
		return "write error"
	case KindExecution:
		return "execution error"
	default:
		return "ok"
	}
}

// ExitCode returns the process exit status for the kind.
// Each kind gets a distinct non-zero value.
func (k Kind) ExitCode() int {
	switch k {
	case KindParse:
		return 2
	case KindCommand:
		return 3
	case KindKeyResolution:
		return 4
	case KindWrite:
		return 5
	case KindExecution:
		return 6
	default:
		return 0
	}
}

// Record is the single structured error produced at the top level for every
// failure. It carries the taxonomy kind, a human message, and a snapshot of
// the resolved options for diagnosis. Secret values never appear in the
// snapshot: see Redact.
type Record struct {
	Kind    Kind
	Message string
	Options map[string]string
	Err     error
}

// NewRecord wraps err into a Record of the given kind. The options snapshot
// is redacted before storing.
func NewRecord(kind Kind, err error, options map[string]string) *Record {
	return &Record{
		Kind:    kind,
		Message: err.Error(),
		Options: Redact(options),
		Err:     err,
	}
}

func (r *Record) Error() string {
	return r.Message
}

func (r *Record) Unwrap() error {
	return r.Err
}

// Detail returns the full failure detail for --trace output: the wrapped
// error chain, one cause per line.
func (r *Record) Detail() string {
	var b strings.Builder
	for err := r.Err; err != nil; err = errors.Unwrap(err) {
		fmt.Fprintf(&b, "  %s\n", err.Error())
	}
	return b.String()
}

// OptionDump returns the redacted option snapshot for --debug output,
// one "name=value" per line in sorted order.
func (r *Record) OptionDump() string {
	names := make([]string, 0, len(r.Options))
	for name := range r.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %s=%s\n", name, r.Options[name])
	}
	return b.String()
}

// secretOptions are option names whose values must never be logged or
// included in an error payload.
var secretOptions = map[string]bool{
	"private-key": true,
	"password":    true,
	"passphrase":  true,
}

// Redact returns a copy of the option snapshot with secret values masked.
func Redact(options map[string]string) map[string]string {
	if options == nil {
		return nil
	}
	out := make(map[string]string, len(options))
	for name, value := range options {
		if secretOptions[name] && value != "" {
			out[name] = "[redacted]"
			continue
		}
		out[name] = value
	}
	return out
}
