package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	serrors "github.com/sealer-cli/sealer/internal/errors"
)

// Capabilities records what this system supports. Probed once at startup
// and injected into the option model, so platform checks never leak into
// option handling.
type Capabilities struct {
	// Keychain is true when an OS keychain backend is available.
	Keychain bool
}

// Options is the normalized, validated view of the command-line flags.
// Pure data: constructed once per invocation, immutable afterwards. All
// decision logic lives in the selector packages that consume it.
type Options struct {
	// Mode flags, mutually exclusive.
	Generate bool
	Encrypt  bool
	Decrypt  bool
	Edit     bool

	// Key creation.
	Password bool
	Keychain string

	// Key input.
	Interactive bool
	PrivateKey  string
	Keyfile     string

	// Key caching.
	PasswordTimeout int
	NoPasswordCache bool

	// Data.
	String string
	File   string
	Output string

	// Edit flags.
	Backup bool

	// Diagnostics and UX.
	Verbose bool
	Trace   bool
	Debug   bool
	Quiet   bool
	Version bool
	NoColor bool

	// Utility.
	BashCompletion string
	Examples       bool

	Caps Capabilities
}

// Validate checks cross-flag invariants that pflag cannot express.
// Mode exclusivity is the command selector's concern, not ours.
func (o *Options) Validate() error {
	if o.String != "" && o.File != "" {
		return serrors.ErrConflictingInputs
	}
	if o.Keychain != "" && !o.Caps.Keychain {
		return fmt.Errorf("%w: --keychain", serrors.ErrKeychainUnavailable)
	}
	if o.PasswordTimeout < 0 {
		return fmt.Errorf("%w: --password-timeout must not be negative", serrors.ErrMissingValue)
	}
	return nil
}

// Snapshot returns the option set as flag-name/value pairs for the
// structured error record. Secret values are redacted by the errors
// package before display; the snapshot itself carries only flag presence
// for the private key.
func (o *Options) Snapshot() map[string]string {
	snap := map[string]string{}
	set := func(name string, on bool) {
		if on {
			snap[name] = "true"
		}
	}
	setStr := func(name, value string) {
		if value != "" {
			snap[name] = value
		}
	}

	set("generate", o.Generate)
	set("encrypt", o.Encrypt)
	set("decrypt", o.Decrypt)
	set("edit", o.Edit)
	set("password", o.Password)
	set("interactive", o.Interactive)
	set("no-password-cache", o.NoPasswordCache)
	set("backup", o.Backup)
	set("verbose", o.Verbose)
	set("trace", o.Trace)
	set("debug", o.Debug)
	set("quiet", o.Quiet)
	set("no-color", o.NoColor)
	set("examples", o.Examples)
	setStr("keychain", o.Keychain)
	setStr("private-key", o.PrivateKey)
	setStr("keyfile", o.Keyfile)
	setStr("string", o.String)
	setStr("file", o.File)
	setStr("output", o.Output)
	setStr("bash-completion", o.BashCompletion)
	if o.PasswordTimeout > 0 {
		snap["password-timeout"] = strconv.Itoa(o.PasswordTimeout)
	}
	return snap
}

// flagNames is the full set of recognized long-form flag names, used and
// unused, including the hidden dictionary flag itself.
var flagNames = []string{
	"encrypt", "decrypt", "edit",
	"generate", "password", "keychain",
	"interactive", "private-key", "keyfile",
	"password-timeout", "no-password-cache",
	"string", "file", "output",
	"backup",
	"verbose", "trace", "debug", "quiet", "version", "no-color",
	"bash-completion", "examples", "help",
	"dictionary",
}

// Dictionary returns the sorted, space-joined list of canonical flag
// names, as printed by the hidden --dictionary flag.
func Dictionary() string {
	names := make([]string, len(flagNames))
	copy(names, flagNames)
	sort.Strings(names)
	return strings.Join(names, " ")
}
