package filesearch

import (
	"errors"

	"github.com/filesearch/filesearch/internal/logger"
	"github.com/filesearch/filesearch/internal/tui"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:                "tui [options] path regex",
		Short:              "Search interactively with live results",
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE:               runTUI,
	}
	rootCmd.AddCommand(cmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		cmd.HelpFunc()(cmd, args)
		return nil
	}
	// log lines would corrupt the alternate screen
	searcher, _, _, err := prepare(cmd, args, logger.Nop())
	if err != nil {
		return err
	}
	if !isTerminal(cmd.OutOrStdout()) {
		return errors.New("tui requires an interactive terminal")
	}
	return tui.Run(cmd.Context(), searcher)
}
