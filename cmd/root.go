package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sealer-cli/sealer/internal/command"
	"github.com/sealer-cli/sealer/internal/configs"
	"github.com/sealer-cli/sealer/internal/crypto"
	serrors "github.com/sealer-cli/sealer/internal/errors"
	"github.com/sealer-cli/sealer/internal/keychain"
	"github.com/sealer-cli/sealer/internal/keysource"
	logger "github.com/sealer-cli/sealer/internal/logging"
	"github.com/sealer-cli/sealer/internal/options"
	"github.com/sealer-cli/sealer/internal/output"
	"github.com/sealer-cli/sealer/internal/terminal"
	"github.com/sealer-cli/sealer/internal/ui"
	"github.com/sealer-cli/sealer/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is stamped at build time.
var Version = "dev"

var (
	opts   options.Options
	Logger logger.Logger
	mode   ui.Mode
)

var RootCmd = &cobra.Command{
	Use:   "sealer",
	Short: "Sealer - encrypt, decrypt, and edit data with a private key.",
	Long: `Sealer encrypts, decrypts, or edits data using a symmetric private key.

The key can come from an inline string, a key file, the OS keychain, an
interactive prompt, or be newly generated. When several sources are given
at once, a fixed precedence decides:

  --generate > --interactive > --private-key > --keyfile > --keychain

Examples:
  sealer -g -p -o key.enc          Generate a passphrase-protected key
  sealer -e -s "hello" -k mykey    Encrypt a string with an inline key
  sealer -d -f data.enc -K my.key  Decrypt a file with a key file
  sealer -t -f data.enc -K my.key  Edit an encrypted file in $EDITOR

Run 'sealer --examples' for a longer walkthrough.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: opts.Verbose,
			Debug:   opts.Debug,
			Trace:   opts.Trace,
		}
		Logger.Debugf("Initializing with verbose=%t, debug=%t, trace=%t", opts.Verbose, opts.Debug, opts.Trace)
	},
	RunE: run,
}

func init() {
	flags := RootCmd.Flags()

	// Mode.
	flags.BoolVarP(&opts.Encrypt, "encrypt", "e", false, "encrypt the input")
	flags.BoolVarP(&opts.Decrypt, "decrypt", "d", false, "decrypt the input")
	flags.BoolVarP(&opts.Edit, "edit", "t", false, "edit an encrypted file in place (requires --file)")

	// Key creation.
	flags.BoolVarP(&opts.Generate, "generate", "g", false, "generate a new private key")
	flags.BoolVarP(&opts.Password, "password", "p", false, "protect the key with a passphrase")
	flags.StringVarP(&opts.Keychain, "keychain", "x", "", "keychain entry name for the key")

	// Key input.
	flags.BoolVarP(&opts.Interactive, "interactive", "i", false, "enter the key at a hidden prompt")
	flags.StringVarP(&opts.PrivateKey, "private-key", "k", "", "private key as an inline string")
	flags.StringVarP(&opts.Keyfile, "keyfile", "K", "", "path to a key file")

	// Key caching.
	flags.IntVarP(&opts.PasswordTimeout, "password-timeout", "M", 0, "seconds an unlocked key may stay cached")
	flags.BoolVarP(&opts.NoPasswordCache, "no-password-cache", "P", false, "never cache unlocked keys")

	// Data.
	flags.StringVarP(&opts.String, "string", "s", "", "input as a literal string")
	flags.StringVarP(&opts.File, "file", "f", "", "input file path")
	flags.StringVarP(&opts.Output, "output", "o", "", "write the result to this file")

	// Edit flags.
	flags.BoolVarP(&opts.Backup, "backup", "b", false, "keep a .bak copy of the original when editing")

	// Diagnostics and UX.
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.Trace, "trace", "T", false, "include full failure detail in errors")
	flags.BoolVarP(&opts.Debug, "debug", "D", false, "enable debug output")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress the payload, communicate by exit code")
	flags.BoolVarP(&opts.Version, "version", "V", false, "print the version and exit")
	flags.BoolVarP(&opts.NoColor, "no-color", "N", false, "disable colored output")

	// Utility.
	flags.StringVarP(&opts.BashCompletion, "bash-completion", "a", "", "append a bash completion script to this file")
	flags.BoolVarP(&opts.Examples, "examples", "E", false, "show worked examples and exit")

	// Hidden introspection flag. Handled before parsing; registered so it
	// still appears as recognized if it survives the pre-pass.
	flags.Bool("dictionary", false, "print all recognized flag names")
	_ = flags.MarkHidden("dictionary")
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string) int {
	mode = ui.DetectMode(hasFlag(args, "no-color"))

	// Display-only flags short-circuit before any parsing or resolution.
	if handled, err := checkDisplayFlags(args, mode); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error.Sprint(mode, "✗"), err)
			return 1
		}
		return 0
	}

	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		var rec *serrors.Record
		if !errors.As(err, &rec) {
			// Flag-level failure from pflag: cobra already has no record.
			rec = serrors.NewRecord(serrors.KindParse, err, opts.Snapshot())
		}
		output.RenderError(os.Stderr, rec, mode, opts.Trace, opts.Debug)
		return rec.Kind.ExitCode()
	}
	return 0
}

func run(cmd *cobra.Command, args []string) error {
	fail := func(kind serrors.Kind, err error) error {
		return serrors.NewRecord(kind, err, opts.Snapshot())
	}

	if len(args) > 0 {
		return fail(serrors.KindParse, fmt.Errorf("%w: unexpected argument %q", serrors.ErrUnknownFlag, args[0]))
	}

	// Capability probe, once, injected into the option model.
	opts.Caps.Keychain = keychain.Available()
	Logger.Debugf("Keychain capability: %t", opts.Caps.Keychain)

	config, err := configs.EnsureUserConfig()
	if err != nil {
		Logger.Warnf("Could not load user config, using defaults: %v", err)
		config = &configs.UserConfig{Defaults: configs.Defaults{
			KeychainService: "sealer",
			PasswordTimeout: configs.DefaultPasswordTimeout,
		}}
	}
	if config.Defaults.NoColor {
		mode = ui.Mode{Color: false}
	}
	if !cmd.Flags().Changed("password-timeout") {
		opts.PasswordTimeout = config.Defaults.PasswordTimeout
	}

	if err := opts.Validate(); err != nil {
		return fail(serrors.KindParse, err)
	}

	kind, err := command.Select(&opts)
	if err != nil {
		return fail(serrors.KindCommand, err)
	}
	Logger.Infof("Selected command: %s", kind)

	if opts.Backup && kind != command.KindEdit {
		Logger.WarnfAlways("Ignoring %s: only meaningful with %s",
			ui.Flag.Sprint(mode, "--backup"), ui.Flag.Sprint(mode, "--edit"))
	}

	plan, err := keysource.Resolve(&opts)
	if err != nil {
		return fail(serrors.KindKeyResolution, err)
	}
	for _, flag := range plan.Redundant {
		// Under --generate the keychain entry is a write destination, not
		// a losing key source.
		if flag == "--keychain" && kind == command.KindGenerate {
			continue
		}
		Logger.Warnf("Ignoring %s: a higher-precedence key source was given", ui.Flag.Sprint(mode, flag))
	}

	dest := output.Select(&opts)
	Logger.Debugf("Output sink: %s", dest.Sink)

	env := workflows.DefaultEnv(Logger, config.Defaults.KeychainService, config.Install.UUID)

	// Progress feedback only when it cannot pollute the payload: file
	// sinks, no editor in charge of the terminal.
	var stopSpinner func()
	if kind != command.KindEdit && dest.Sink == output.SinkFile && !opts.Quiet && terminal.IsStdoutTerminal() {
		_, stopSpinner = startSpinner(progressMessage(kind))
	}

	payload, finalMsg, err := execute(cmd.Context(), kind, plan, dest, config, env)
	if stopSpinner != nil {
		stopSpinner()
	}
	if err != nil {
		return fail(classifyWorkflowErr(err), err)
	}

	if payload != nil {
		if err := dest.WritePayload(payload); err != nil {
			return fail(serrors.KindWrite, err)
		}
	}

	if finalMsg != "" && !opts.Quiet {
		fmt.Print(ui.EnsureNewline(finalMsg))
	}
	return nil
}

// execute dispatches to the selected workflow and returns the payload for
// the output sink plus a human success message.
func execute(ctx context.Context, kind command.Kind, plan *keysource.Plan, dest output.Destination, config *configs.UserConfig, env workflows.Env) ([]byte, string, error) {
	switch kind {
	case command.KindGenerate:
		result, err := workflows.Generate(ctx, workflows.GenerateOptions{Plan: plan, OutputPath: dest.Path, Env: env})
		if err != nil {
			return nil, "", err
		}
		keychainMsg := ""
		if result.KeychainLabel != "" {
			keychainMsg = ui.Success.Sprint(mode, "✓") + " Key stored in keychain as " + ui.Highlight.Sprint(mode, result.KeychainLabel)
		}
		if dest.Sink == output.SinkFile {
			// Key files get their own writer: base64, 0600, parent
			// directories created.
			if err := crypto.SaveKeyFile(dest.Path, result.Material); err != nil {
				return nil, "", fmt.Errorf("%w: %v", serrors.ErrWriteFailed, err)
			}
			lines := []string{ui.Success.Sprint(mode, "✓") + " Key written to " + ui.Path.Sprint(mode, dest.Path)}
			if keychainMsg != "" {
				lines = append(lines, keychainMsg)
			}
			return nil, strings.Join(lines, "\n"), nil
		}
		return []byte(crypto.EncodeKey(result.Material) + "\n"), keychainMsg, nil

	case command.KindEncrypt:
		result, err := workflows.Encrypt(ctx, workflows.EncryptOptions{
			Plan:       plan,
			String:     opts.String,
			File:       opts.File,
			OutputPath: dest.Path,
			Env:        env,
		})
		if err != nil {
			return nil, "", err
		}
		// Binary on a terminal or pipe is hostile; armor stdout output.
		if dest.Sink == output.SinkStdout {
			return []byte(crypto.EncodeKey(result.Ciphertext) + "\n"), "", nil
		}
		msg := ""
		if dest.Sink == output.SinkFile {
			msg = ui.Success.Sprint(mode, "✓") + " Encrypted to " + ui.Path.Sprint(mode, dest.Path)
		}
		return result.Ciphertext, msg, nil

	case command.KindDecrypt:
		result, err := workflows.Decrypt(ctx, workflows.DecryptOptions{
			Plan:       plan,
			String:     opts.String,
			File:       opts.File,
			OutputPath: dest.Path,
			Env:        env,
		})
		if err != nil {
			return nil, "", err
		}
		msg := ""
		if dest.Sink == output.SinkFile {
			msg = ui.Success.Sprint(mode, "✓") + " Decrypted to " + ui.Path.Sprint(mode, dest.Path)
		}
		return result.Plaintext, msg, nil

	case command.KindEdit:
		result, err := workflows.Edit(ctx, workflows.EditOptions{
			Plan:   plan,
			File:   opts.File,
			Backup: opts.Backup,
			Editor: editorCommand(config),
			Env:    env,
		})
		if err != nil {
			return nil, "", err
		}
		if !result.Changed {
			msg := ui.Info.Sprint(mode, "→") + " No changes, " + ui.Path.Sprint(mode, opts.File) + " left untouched"
			if result.BackupPath != "" {
				msg += "\n" + ui.Info.Sprint(mode, "→") + " Original kept at " + ui.Path.Sprint(mode, result.BackupPath)
			}
			return nil, msg, nil
		}
		msg := ui.Success.Sprint(mode, "✓") + " Re-encrypted " + ui.Path.Sprint(mode, opts.File)
		if result.BackupPath != "" {
			msg += "\n" + ui.Info.Sprint(mode, "→") + " Original kept at " + ui.Path.Sprint(mode, result.BackupPath)
		}
		return nil, msg, nil
	}

	return nil, "", fmt.Errorf("unhandled command kind %v", kind)
}

// editorCommand picks the editor for --edit: $VISUAL, then $EDITOR, then
// the config default, then vi.
func editorCommand(config *configs.UserConfig) string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	if config.Defaults.Editor != "" {
		return config.Defaults.Editor
	}
	return "vi"
}

// classifyWorkflowErr maps a workflow failure onto the error taxonomy: key
// acquisition problems stay key-resolution errors even though they surface
// during execution, and failed destination writes stay write errors.
func classifyWorkflowErr(err error) serrors.Kind {
	if errors.Is(err, serrors.ErrWriteFailed) {
		return serrors.KindWrite
	}
	for _, keyErr := range []error{
		serrors.ErrNoKeySpecified,
		serrors.ErrKeyFileNotFound,
		serrors.ErrKeychainMiss,
		serrors.ErrKeychainUnavailable,
		serrors.ErrInteractiveAborted,
		serrors.ErrInvalidKey,
	} {
		if errors.Is(err, keyErr) {
			return serrors.KindKeyResolution
		}
	}
	return serrors.KindExecution
}

// ResetGlobalState resets flag-bound globals between test runs.
func ResetGlobalState() {
	opts = options.Options{}
	Logger = logger.Logger{}
	flags := RootCmd.Flags()
	flags.VisitAll(func(f *pflag.Flag) {
		_ = flags.Set(f.Name, f.DefValue)
		f.Changed = false
	})
}
