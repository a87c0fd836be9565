package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/logging"
	"github.com/Aman-CERP/amanalign/internal/output"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		pattern string
		file    string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View the debug log",
		Long: `Show the last entries of the debug log written by runs with --debug
(~/.amanalign/logs/align.log).`,
		Example: `  amanalign logs
  amanalign logs -n 200 --level warn
  amanalign logs --grep align_restart`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logging.FindLogFile(file)
			if err != nil {
				return amerrors.New(amerrors.ErrCodeFileNotFound, err.Error(), err)
			}

			cfg := logging.ViewerConfig{
				Level:   level,
				NoColor: noColor || !output.IsTTY(cmd.OutOrStdout()),
			}
			if pattern != "" {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return amerrors.ValidationError(fmt.Sprintf("invalid --grep pattern %q", pattern), err)
				}
				cfg.Pattern = re
			}

			v := logging.NewViewer(cfg, cmd.OutOrStdout())
			entries, err := v.Tail(path, lines)
			if err != nil {
				return amerrors.IOError("failed to read "+path, err)
			}
			v.Print(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to read (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&pattern, "grep", "", "Only show lines matching this regular expression")
	cmd.Flags().StringVar(&file, "file", "", "Log file (default ~/.amanalign/logs/align.log)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored levels")

	return cmd
}
