// Package keychain wraps the OS keychain behind a small store interface.
//
// Keys are stored as generic secrets under a configurable service name
// (default "sealer"). Backend selection (macOS Keychain, Secret Service,
// Windows Credential Manager, ...) is delegated to 99designs/keyring;
// Available() probes for a usable backend once at startup so the rest of
// the program treats keychain support as a plain capability flag.
//
// The package also holds the password cache: unlocked keys are stored
// under a cache/ namespace with an absolute expiry, honoring the
// --password-timeout and --no-password-cache options.
package keychain
