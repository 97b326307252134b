package workflows

import (
	"fmt"
	"io"
	"os"

	serrors "github.com/sealer-cli/sealer/internal/errors"
)

// resolvePayload returns the bytes to operate on: the --string literal, the
// --file contents, or piped stdin. A terminal stdin with neither flag set
// is an error naming the missing input.
func resolvePayload(literal, path string, env Env) (data []byte, inputPath string, err error) {
	switch {
	case literal != "":
		return []byte(literal), "", nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, path, nil
	}

	if env.StdinIsPipe == nil || !env.StdinIsPipe() {
		return nil, "", fmt.Errorf("%w: supply --string, --file, or pipe data on stdin", serrors.ErrNoInput)
	}
	data, err = io.ReadAll(env.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: stdin is empty", serrors.ErrNoInput)
	}
	return data, "", nil
}
