package filesearch

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/filesearch/filesearch/internal/engine"
	"github.com/spf13/cobra"
)

var (
	flagContents   bool
	flagIgnoreCase bool
	flagRecurse    bool
	flagLiteral    bool
	flagMaxBytes   int64
	flagExclude    string
	flagNoIgnore   bool
	flagJSON       bool
	flagNoColor    bool
	flagLogLevel   string

	version = "0.1.0"
)

// rootCmd searches when given a path and a pattern.
var rootCmd = &cobra.Command{
	Use:   "filesearch [options] path regex",
	Short: "Find files by name or content",
	Long: "filesearch walks a directory and lists the files and directories whose name,\n" +
		"or with -c whose content, matches a regular expression. The path and the\n" +
		"pattern are always the last two arguments; a pattern that starts with a dash\n" +
		"can also be passed after --.",
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runSearch,
}

// Execute runs the CLI. It should be called by the main package.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(dropUnknownFlags(rootCmd, args))
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagContents, "contents", "c", false, "search file contents instead of names")
	pf.BoolVarP(&flagIgnoreCase, "ignore-case", "i", false, "ignore case")
	pf.BoolVarP(&flagRecurse, "recurse", "r", false, "recurse into sub-directories")
	pf.BoolVar(&flagLiteral, "literal", false, "treat the pattern as a plain substring")
	pf.Int64Var(&flagMaxBytes, "max-bytes", 0, "skip the content of files larger than this (0 = 1048575)")
	pf.StringVar(&flagExclude, "exclude", "", "comma-separated globs to skip")
	pf.BoolVar(&flagNoIgnore, "no-ignore", false, "do not read "+engine.DefaultIgnoreFile+" from the start directory")
	pf.BoolVar(&flagJSON, "json", false, "emit JSON")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: trace|debug|info|warn|error (default warn)")

	rootCmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		w := c.ErrOrStderr()
		if c.Long != "" {
			fmt.Fprintln(w, c.Long)
		} else if c.Short != "" {
			fmt.Fprintln(w, c.Short)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, c.UsageString())
	})
}

// dropUnknownFlags removes flags the target command does not define so they
// cannot swallow the positional path and pattern that follow them. Arguments
// after "--" are kept as they are. When either of the final two arguments
// of a search looks like an unknown flag, both are taken verbatim as path
// and pattern, so "filesearch . -x.*" searches for "-x.*".
func dropUnknownFlags(root *cobra.Command, args []string) []string {
	target, _, err := root.Find(args)
	if err != nil || target == nil {
		target = root
	}
	unknown := func(a string) bool {
		return len(a) >= 2 && a[0] == '-' && !knownFlag(target, a)
	}
	head, tail := args, []string(nil)
	if n := len(args); target == root && n >= 2 && !slices.Contains(args, "--") &&
		(unknown(args[n-2]) || unknown(args[n-1])) {
		head, tail = args[:n-2], append([]string{"--"}, args[n-2:]...)
	}
	out := make([]string, 0, len(args)+1)
	for i, a := range head {
		if a == "--" {
			return append(out, head[i:]...)
		}
		if !unknown(a) {
			out = append(out, a)
		}
	}
	return append(out, tail...)
}

func knownFlag(c *cobra.Command, arg string) bool {
	if strings.HasPrefix(arg, "--") {
		name := strings.TrimPrefix(arg, "--")
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		return name == "help" || c.Flag(name) != nil
	}
	// every letter of a shorthand group must be known
	for _, r := range arg[1:] {
		if r == '=' {
			break
		}
		if r > 127 {
			return false
		}
		s := string(r)
		if s == "h" {
			continue
		}
		if c.Flags().ShorthandLookup(s) == nil &&
			c.PersistentFlags().ShorthandLookup(s) == nil &&
			c.InheritedFlags().ShorthandLookup(s) == nil {
			return false
		}
	}
	return true
}
