// Package command selects the single operation for an invocation.
//
// The four mode flags (--generate, --encrypt, --decrypt, --edit) are
// mutually exclusive. Selection is a pure function of the option model,
// unit-testable without any flag-parsing machinery.
package command

import (
	"fmt"

	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/options"
)

// Kind is the operation selected for one invocation.
type Kind int

const (
	KindUnknown Kind = iota
	KindGenerate
	KindEncrypt
	KindDecrypt
	KindEdit
)

// String returns the operation name.
func (k Kind) String() string {
	switch k {
	case KindGenerate:
		return "generate"
	case KindEncrypt:
		return "encrypt"
	case KindDecrypt:
		return "decrypt"
	case KindEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Select maps the mode flags to exactly one Kind.
//
// Returns ErrNoMode when no mode flag is set, ErrConflictingModes when more
// than one is set, and ErrEditNeedsFile for --edit without --file (editing
// a string or stdin stream is not supported).
func Select(opts *options.Options) (Kind, error) {
	var kind Kind
	count := 0

	for _, mode := range []struct {
		set  bool
		kind Kind
	}{
		{opts.Generate, KindGenerate},
		{opts.Encrypt, KindEncrypt},
		{opts.Decrypt, KindDecrypt},
		{opts.Edit, KindEdit},
	} {
		if mode.set {
			kind = mode.kind
			count++
		}
	}

	switch {
	case count == 0:
		return KindUnknown, serrors.ErrNoMode
	case count > 1:
		return KindUnknown, fmt.Errorf("%w: choose one of --generate, --encrypt, --decrypt, --edit", serrors.ErrConflictingModes)
	}

	if kind == KindEdit && opts.File == "" {
		return KindUnknown, serrors.ErrEditNeedsFile
	}

	return kind, nil
}
