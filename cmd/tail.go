package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/output"
	"github.com/logscrub/logscrub/internal/tail"
)

var tailCmd = &cobra.Command{
	Use:   "tail [flags] <file>",
	Short: "Follow a log file with live redaction",
	Long: `Print the last lines of a log file and optionally follow it as it
grows. Every line passes through the active rule list before it is shown,
so secrets never reach the terminal. Log rotation is followed
transparently.

Examples:
  logscrub tail /var/log/app.log
  logscrub tail -F -n 50 /var/log/app.log
  logscrub tail -F --preset secrets --color always app.log`,
	Args: cobra.ExactArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().IntP("lines", "n", 10, "number of initial lines to show")
	tailCmd.Flags().BoolP("follow", "F", false, "follow the file for new content")
	tailCmd.Flags().String("color", "auto", "highlight redacted lines (auto, always, never)")
	addRuleFlags(tailCmd)

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	lines, _ := cmd.Flags().GetInt("lines")
	follow, _ := cmd.Flags().GetBool("follow")
	colorStr, _ := cmd.Flags().GetString("color")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	list, err := buildRuleList(cmd, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := output.ShouldColorize(output.ParseColorMode(colorStr), out)

	tailer := tail.New(tail.Options{
		FilePath: args[0],
		Lines:    lines,
		Follow:   follow,
		Rules:    list,
		OutputFunc: func(line tail.Line) error {
			text := line.Text
			if colorize && line.Redactions > 0 {
				text = output.HighlightRedacted(text)
			}
			_, err := fmt.Fprintln(out, text)
			return err
		},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return tailer.Run(ctx)
}
