// Package ui provides semantic text formatting for sealer's CLI output.
//
// Formatters carry meaning (Success, Error, Path, Highlight) rather than
// raw colors, so commands describe what a piece of text is and the
// formatter decides how it looks. Rendering is controlled by an explicit
// Mode value decided once at startup; the same formatter produces colored
// output or a plain-text fallback (backticks, quotes, parentheses) without
// any process-global state.
package ui
