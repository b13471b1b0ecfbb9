package filesearch

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/filesearch/filesearch/internal/config"
	"github.com/filesearch/filesearch/internal/engine"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	cfgOutput string
	cfgGlobal bool
	cfgForce  bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file from the given flags",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().StringVar(&cfgOutput, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&cfgGlobal, "global", false, "write the global config file instead")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	showCmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Print the effective settings for a search path",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}
	cfgCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	out := cfgOutput
	if cfgGlobal {
		out = config.GlobalPath()
		if out == "" {
			return errors.New("cannot determine the global config directory")
		}
	}
	if _, err := os.Stat(out); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", out)
	}

	fc := config.FileConfig{
		Recurse:         boolPtr(flagRecurse),
		Contents:        boolPtr(flagContents),
		IgnoreCase:      boolPtr(flagIgnoreCase),
		Literal:         boolPtr(flagLiteral),
		MaxContentBytes: int64Ptr(flagMaxBytes),
		Exclude:         strPtr(flagExclude),
		LogLevel:        strPtr(flagLogLevel),
		NoColor:         boolPtr(flagNoColor),
	}
	if err := config.Save(out, fc); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	s, err := loadSettings(configDir(path))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if s.localPath != "" {
		fmt.Fprintln(w, "local config: ", s.localPath)
	}
	if s.globalPath != "" {
		fmt.Fprintln(w, "global config:", s.globalPath)
	}

	maxBytes := s.maxBytes
	if maxBytes <= 0 {
		maxBytes = engine.DefaultMaxContentBytes
	}
	rows := [][]string{
		{"recurse", strconv.FormatBool(s.recurse)},
		{"contents", strconv.FormatBool(s.contents)},
		{"ignore_case", strconv.FormatBool(s.ignoreCase)},
		{"literal", strconv.FormatBool(s.literal)},
		{"max_content_bytes", strconv.FormatInt(maxBytes, 10)},
		{"exclude", s.exclude},
		{"log_level", s.logLevel},
		{"no_color", strconv.FormatBool(s.noColor)},
	}

	table := tablewriter.NewWriter(w)
	table.Header("Setting", "Value", "Source")
	for _, r := range rows {
		if err := table.Append([]string{r[0], r[1], s.sources[r[0]]}); err != nil {
			return err
		}
	}
	return table.Render()
}
