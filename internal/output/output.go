// Package output routes results to their destination.
//
// Selection maps --output and --quiet to one sink: an output path always
// wins over quiet, quiet alone suppresses the payload, and with neither
// the payload goes to stdout. Errors travel a separate path that writes to
// stderr and stays visible under --quiet; silently losing a fatal error
// helps nobody, so quiet only suppresses payload and incidental
// diagnostics.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/options"
	"github.com/sealer-cli/sealer/internal/ui"
)

// Sink is the destination kind for one invocation's result.
type Sink int

const (
	SinkStdout Sink = iota
	SinkFile
	SinkSuppressed
)

// String returns the sink name.
func (s Sink) String() string {
	switch s {
	case SinkFile:
		return "file"
	case SinkSuppressed:
		return "suppressed"
	default:
		return "stdout"
	}
}

// Destination is the selected output sink. Quiet is carried even for file
// sinks so incidental diagnostic text stays suppressed.
type Destination struct {
	Sink  Sink
	Path  string
	Quiet bool
}

// Select maps the option model to exactly one destination.
func Select(opts *options.Options) Destination {
	switch {
	case opts.Output != "":
		return Destination{Sink: SinkFile, Path: opts.Output, Quiet: opts.Quiet}
	case opts.Quiet:
		return Destination{Sink: SinkSuppressed, Quiet: true}
	default:
		return Destination{Sink: SinkStdout}
	}
}

// WritePayload delivers the result payload. File sinks are written
// atomically: a temp file in the destination directory, then a rename.
// Failures surface here, at write time, as write errors.
func (d Destination) WritePayload(data []byte) error {
	switch d.Sink {
	case SinkSuppressed:
		return nil
	case SinkStdout:
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}
	return WriteFileAtomic(d.Path, data, 0600)
}

// WriteFileAtomic writes data to path via a temp file and rename, so a
// failed write never leaves a truncated destination behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// RenderError writes the structured error record to w. The human message
// always appears; --trace adds the underlying error chain and --debug adds
// the redacted option set.
func RenderError(w io.Writer, rec *serrors.Record, mode ui.Mode, trace, debug bool) {
	fmt.Fprintf(w, "%s %s: %s\n",
		ui.Error.Sprint(mode, "✗"),
		rec.Kind.String(),
		rec.Message)

	if trace {
		if detail := rec.Detail(); detail != "" {
			fmt.Fprint(w, ui.Muted.Sprint(mode, "cause chain:")+"\n"+detail)
		}
	}
	if debug {
		if dump := rec.OptionDump(); dump != "" {
			fmt.Fprint(w, ui.Muted.Sprint(mode, "resolved options:")+"\n"+dump)
		}
	}
}
