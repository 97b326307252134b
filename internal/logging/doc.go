// Package logger provides leveled diagnostic logging for sealer commands.
//
// Logging goes to stderr so it never mixes with a payload written to
// stdout. Verbosity is controlled by three flags:
//
//   - --verbose: info and warning messages
//   - --debug: adds internal state detail
//   - --trace: adds the lowest-level detail, including error chains
//
// Without flags, only errors and critical warnings are shown.
//
// # Log Methods
//
//	Logger.Infof()       // Shown with --verbose, --debug, or --trace
//	Logger.Debugf()      // Shown with --debug or --trace
//	Logger.Tracef()      // Shown only with --trace
//	Logger.Warnf()       // Shown with --verbose, --debug, or --trace
//	Logger.WarnfAlways() // Always shown (critical warnings)
//	Logger.Errorf()      // Always shown
//
// Commands create a logger in their PersistentPreRun and pass it to
// internal functions.
package logger
