// Package terminal handles secret input from the user's terminal.
//
// Secrets are read with echo disabled. When stdin carries piped payload
// data, prompts fall back to /dev/tty (CON on Windows) so interactive key
// entry still works in a pipeline. Prompt text goes to stderr, never
// stdout, keeping payload output clean.
package terminal
