// Package crypto is sealer's cryptography collaborator.
//
// Payloads are encrypted with NaCl secretbox using a 256-bit symmetric key.
// A random 24-byte nonce is prepended to each ciphertext, so encryption is
// non-deterministic: re-encrypting the same input produces different bytes.
//
// # Key Protection
//
// Keys can be wrapped in a passphrase-protected envelope. The envelope
// derives a wrapping key from the passphrase with scrypt (N=32768, r=8,
// p=1) over a random 16-byte salt, and is recognizable by its magic
// prefix. Key files store either form as base64 text with 0600
// permissions.
//
// # Inline Keys
//
// An inline key string that is standard base64 of exactly 32 bytes is used
// directly; any other string is hashed with SHA-256 into a 32-byte key so
// memorable passphrases work on the command line.
package crypto
