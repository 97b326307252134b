// Package configs manages sealer's per-user configuration.
//
// Configuration lives in <UserConfigDir>/sealer/config.toml and holds
// user-chosen defaults (editor, keychain service name, password-cache
// timeout, color preference) plus an install UUID generated on first use.
// Command-line flags always override config values.
//
// The audit log shares the same directory; AuditLogPath returns its
// location.
package configs
