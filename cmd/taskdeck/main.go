package main

import (
	"os"
	"strings"

	"taskdeck/internal/cli"

	"github.com/spf13/pflag"
)

func isTaskID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "task-") {
		return false
	}
	// Keep it permissive; IDs are backend-generated but users may paste variants.
	return len(s) > len("task-")
}

// classifyFlag resolves a flag token against the root command's persistent
// flag set. Unknown flags are skipped without consuming a value, to avoid
// accidentally eating the task id.
func classifyFlag(flags *pflag.FlagSet, token string) (known, takesValue bool) {
	name := strings.TrimLeft(token, "-")
	f := flags.Lookup(name)
	if f == nil && len(name) == 1 {
		f = flags.ShorthandLookup(name)
	}
	if f == nil {
		return false, false
	}
	return true, f.Value.Type() != "bool"
}

// rewriteDirectTaskLookupArgs makes `taskdeck <task-id>` work like
// `taskdeck tasks show <task-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Users often pass persistent flags first (e.g.
// `taskdeck --server ... <task-id>`), so the first positional token has to be
// found, not just argv[1]; which flags consume a value is read off the flag
// set itself.
func rewriteDirectTaskLookupArgs(argv []string, flags *pflag.FlagSet) []string {
	if len(argv) < 2 {
		return argv
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isTaskID(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "tasks", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form carries its own value.
			if strings.Contains(a, "=") {
				continue
			}
			if known, takesValue := classifyFlag(flags, a); known && takesValue {
				i++ // skip the flag's value
			}
			continue
		}

		// First positional token.
		if isTaskID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "tasks", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	cmd := cli.NewRootCmd()
	os.Args = rewriteDirectTaskLookupArgs(os.Args, cmd.PersistentFlags())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
