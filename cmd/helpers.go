package cmd

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sealer-cli/sealer/internal/command"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose, debug, or trace mode. Returns the spinner and a function to
// stop it and restore log output.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	noisy := opts.Verbose || opts.Debug || opts.Trace
	if !noisy {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if !noisy {
			log.SetOutput(os.Stderr)
			s.Stop()
		}
	}

	return s, cleanup
}

// progressMessage returns the spinner text for the selected operation.
func progressMessage(kind command.Kind) string {
	switch kind {
	case command.KindGenerate:
		return "Generating key..."
	case command.KindEncrypt:
		return "Encrypting..."
	case command.KindDecrypt:
		return "Decrypting..."
	default:
		return "Working..."
	}
}
