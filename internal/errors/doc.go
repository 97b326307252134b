// Package errors defines the error taxonomy for sealer.
//
// Errors fall into five kinds, each with its own exit code: parse errors,
// command selection errors, key resolution errors, write errors, and
// execution errors. Sentinel errors are grouped by concern so callers can
// use errors.Is() instead of string matching:
//
//	plan, err := keysource.Resolve(opts)
//	if errors.Is(err, serrors.ErrNoKeySpecified) {
//	    // Tell the user how to supply a key
//	}
//
// Every failure is converted at the top level into a single Record carrying
// the kind, a human message, and a redacted snapshot of the resolved
// options. Passwords and inline key material are masked before the snapshot
// is stored, so no secret can reach a log line or error payload.
package errors
