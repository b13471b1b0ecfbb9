package filesearch

import (
	"fmt"
	"runtime/debug"

	semver "github.com/blang/semver/v4"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "filesearch", buildVersion())
			return nil
		},
	})
}

// buildVersion prefers the module version stamped by `go install` and
// normalises it to semver. Unparseable versions are printed as they are.
func buildVersion() string {
	v := version
	var rev string
	if info, ok := debug.ReadBuildInfo(); ok {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			v = mv
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				rev = s.Value[:7]
			}
		}
	}
	out := v
	if ver, err := semver.ParseTolerant(v); err == nil {
		out = ver.String()
	}
	if rev != "" {
		out += " (" + rev + ")"
	}
	return out
}
