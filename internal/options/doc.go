// Package options defines the normalized view of sealer's command-line
// flags.
//
// The Options struct is pure data, built once per invocation by the cmd
// layer and immutable afterwards. The command selector, key resolver, and
// output selector each derive their decision from it as a pure function.
// Platform support (keychain availability) is probed once at startup and
// carried as a Capabilities value, so no consumer needs a platform
// conditional.
package options
