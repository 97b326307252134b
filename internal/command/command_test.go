package command

import (
	"testing"

	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSingleMode(t *testing.T) {
	tests := []struct {
		name string
		opts options.Options
		want Kind
	}{
		{"generate", options.Options{Generate: true}, KindGenerate},
		{"encrypt", options.Options{Encrypt: true}, KindEncrypt},
		{"decrypt", options.Options{Decrypt: true}, KindDecrypt},
		{"edit with file", options.Options{Edit: true, File: "secrets.enc"}, KindEdit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(&tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectNoModeFails(t *testing.T) {
	_, err := Select(&options.Options{Quiet: true, Output: "out.enc"})
	assert.ErrorIs(t, err, serrors.ErrNoMode)
}

func TestSelectConflictingModesFail(t *testing.T) {
	// Every combination of two or more mode flags must be rejected.
	modes := []func(*options.Options){
		func(o *options.Options) { o.Generate = true },
		func(o *options.Options) { o.Encrypt = true },
		func(o *options.Options) { o.Decrypt = true },
		func(o *options.Options) { o.Edit = true },
	}

	for i := 0; i < len(modes); i++ {
		for j := i + 1; j < len(modes); j++ {
			opts := options.Options{File: "f"}
			modes[i](&opts)
			modes[j](&opts)

			_, err := Select(&opts)
			assert.ErrorIs(t, err, serrors.ErrConflictingModes, "modes %d+%d", i, j)
		}
	}

	// All four at once.
	opts := options.Options{Generate: true, Encrypt: true, Decrypt: true, Edit: true, File: "f"}
	_, err := Select(&opts)
	assert.ErrorIs(t, err, serrors.ErrConflictingModes)
}

func TestSelectEditRequiresFile(t *testing.T) {
	_, err := Select(&options.Options{Edit: true, String: "x"})
	assert.ErrorIs(t, err, serrors.ErrEditNeedsFile)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "generate", KindGenerate.String())
	assert.Equal(t, "encrypt", KindEncrypt.String())
	assert.Equal(t, "decrypt", KindDecrypt.String())
	assert.Equal(t, "edit", KindEdit.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
