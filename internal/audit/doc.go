// Package audit records completed operations as JSON lines.
//
// Each successful generate, encrypt, decrypt, or edit appends one line to
// <UserConfigDir>/sealer/audit.jsonl with the timestamp, install UUID,
// operation, key source, and the paths involved. Key material and
// passphrases are never recorded. Audit failures are swallowed: an
// operation never fails because its audit line could not be written.
package audit
