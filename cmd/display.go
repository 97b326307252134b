package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/sealer-cli/sealer/internal/options"
	"github.com/sealer-cli/sealer/internal/ui"
)

// valueShorts are the shorthand letters that consume a value; scanning a
// shorthand cluster stops there because the rest of the token is the value.
var valueShorts = map[byte]bool{
	'k': true, 'K': true, 'x': true, 'M': true,
	's': true, 'f': true, 'o': true, 'a': true,
}

// valueLongs are the long flag names that consume a value. When the value
// is not attached with '=', the following token belongs to the flag and
// must not be scanned as a flag itself.
var valueLongs = map[string]bool{
	"private-key": true, "keyfile": true, "keychain": true,
	"password-timeout": true, "string": true, "file": true,
	"output": true, "bash-completion": true,
}

// scanArgs walks the raw argument list without parsing it, recording which
// long-form flags are present and capturing the --bash-completion value.
// Display flags must short-circuit before normal parsing, so this cannot
// rely on pflag.
func scanArgs(args []string) (present map[string]bool, completionPath string) {
	present = map[string]bool{}

	shortNames := map[byte]string{
		'V': "version", 'h': "help", 'E': "examples", 'a': "bash-completion",
		'N': "no-color",
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "--") {
			name, val, hasVal := strings.Cut(arg[2:], "=")
			present[name] = true
			if name == "bash-completion" && hasVal {
				completionPath = val
			}
			// pflag takes the next token as the value unconditionally.
			if valueLongs[name] && !hasVal {
				if i+1 < len(args) {
					i++
					if name == "bash-completion" {
						completionPath = args[i]
					}
				}
			}
			continue
		}

		if len(arg) > 1 && arg[0] == '-' {
			for j := 1; j < len(arg); j++ {
				c := arg[j]
				if name, ok := shortNames[c]; ok {
					present[name] = true
				}
				if valueShorts[c] {
					attached := strings.TrimPrefix(arg[j+1:], "=")
					if c == 'a' && attached != "" {
						completionPath = attached
					}
					if attached == "" && i+1 < len(args) {
						i++
						if c == 'a' {
							completionPath = args[i]
						}
					}
					break
				}
			}
		}
	}
	return present, completionPath
}

// hasFlag reports whether the long flag (or its mapped shorthand) appears
// in args.
func hasFlag(args []string, long string) bool {
	present, _ := scanArgs(args)
	return present[long]
}

// checkDisplayFlags evaluates the display-only terminal flags on the raw
// argument list, before any parsing or resolution. Only the first flag in
// the precedence order is honored:
//
//	dictionary > version > help > examples > bash-completion
//
// Returns handled=true when a display flag fired and the process should
// exit with status 0 (or 1 if its side effect failed).
func checkDisplayFlags(args []string, mode ui.Mode) (handled bool, err error) {
	present, completionPath := scanArgs(args)

	switch {
	case present["dictionary"]:
		fmt.Println(options.Dictionary())
		return true, nil

	case present["version"]:
		fmt.Printf("sealer version %s\n", Version)
		return true, nil

	case present["help"]:
		return true, RootCmd.Help()

	case present["examples"]:
		printExamples(mode)
		return true, nil

	case present["bash-completion"]:
		if completionPath == "" {
			return true, fmt.Errorf("--bash-completion requires a file path")
		}
		return true, appendBashCompletion(completionPath)
	}

	return false, nil
}

// printExamples shows a worked walkthrough of the main flag combinations.
func printExamples(mode ui.Mode) {
	if mode.Color {
		figure.NewColorFigure("sealer", "alligator2", "green", true).Print()
		fmt.Println()
	}

	examples := []struct {
		cmd  string
		desc string
	}{
		{"sealer -g -o my.key", "Generate a key and save it to a file"},
		{"sealer -g -p -o my.key", "Generate a passphrase-protected key"},
		{"sealer -g -x work-laptop", "Generate a key straight into the keychain"},
		{"sealer -e -s \"hello\" -k mykey", "Encrypt a string with an inline key, print base64"},
		{"sealer -e -f .env -K my.key -o .env.enc", "Encrypt a file with a key file"},
		{"sealer -d -f .env.enc -K my.key", "Decrypt a file to stdout"},
		{"sealer -d -f .env.enc -x work-laptop -o .env", "Decrypt using a keychain key"},
		{"sealer -t -f .env.enc -K my.key -b", "Edit an encrypted file, keeping a .bak copy"},
		{"cat report.txt | sealer -e -i -o report.enc", "Encrypt piped data, key typed at a hidden prompt"},
	}

	fmt.Println("Examples:")
	for _, ex := range examples {
		fmt.Printf("  %s\n      %s\n", ui.Code.Sprint(mode, ex.cmd), ui.Muted.Sprint(mode, ex.desc))
	}
}

// appendBashCompletion generates the bash completion script and appends it
// to the given file, creating it if needed.
func appendBashCompletion(path string) error {
	var buf bytes.Buffer
	if err := RootCmd.GenBashCompletion(&buf); err != nil {
		return fmt.Errorf("failed to generate completion script: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write completion script to %s: %w", path, err)
	}
	return nil
}
