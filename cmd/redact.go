package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/logscrub/logscrub/internal/config"
	"github.com/logscrub/logscrub/internal/fileio"
	"github.com/logscrub/logscrub/internal/redact"
	"github.com/logscrub/logscrub/internal/rules"
)

// errRedactionsFound signals a --fail-on-redaction exit. It reaches main as
// a nonzero exit code without cobra printing anything.
var errRedactionsFound = errors.New("redactions found")

var redactCmd = &cobra.Command{
	Use:   "redact [flags] [file ...]",
	Short: "Redact a log file or stream",
	Long: `Redact log files by applying the active rule list to every line.

Input and output may be files, globs, or "-" for stdin/stdout. Files
ending in .gz are decompressed and compressed transparently. Final
statistics are printed to stderr as a single JSON line unless --quiet.

Examples:
  logscrub redact --input app.log --out app.redacted.log
  logscrub redact --input access.log.gz --out clean.log.gz
  logscrub redact --preset pii --input app.log --out -
  logscrub redact --in-place --backup-suffix .bak "/var/log/*.log"
  logscrub redact --rules extra.json --report-out report.jsonl --input app.log --out out.log`,
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().StringP("input", "i", "", `input log file ("-" for stdin)`)
	redactCmd.Flags().StringP("out", "o", "", `output file ("-" for stdout)`)
	redactCmd.Flags().String("out-suffix", "", "write each input to <input><suffix> instead of --out")
	redactCmd.Flags().Bool("in-place", false, "replace each input file atomically")
	redactCmd.Flags().String("backup-suffix", "", "with --in-place, keep the original at <input><suffix>")
	redactCmd.Flags().Bool("dry-run", false, "count redactions without writing output")
	redactCmd.Flags().String("report-out", "", `write per-match report events (JSON Lines) to this file ("-" for stderr)`)
	redactCmd.Flags().BoolP("quiet", "q", false, "suppress the stats line")
	redactCmd.Flags().Bool("fail-on-redaction", false, "exit with status 1 if anything was redacted")
	redactCmd.Flags().String("encoding", "", "input character encoding (IANA name, default utf-8)")
	redactCmd.Flags().String("errors", "", "decode error policy: strict, replace, ignore (default ignore)")
	addRuleFlags(redactCmd)

	_ = viper.BindPFlag("redact.encoding", redactCmd.Flags().Lookup("encoding"))
	_ = viper.BindPFlag("redact.errors", redactCmd.Flags().Lookup("errors"))

	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	inputFlag, _ := cmd.Flags().GetString("input")
	outFlag, _ := cmd.Flags().GetString("out")
	outSuffix, _ := cmd.Flags().GetString("out-suffix")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	backupSuffix, _ := cmd.Flags().GetString("backup-suffix")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reportOut, _ := cmd.Flags().GetString("report-out")
	quiet, _ := cmd.Flags().GetBool("quiet")
	failOnRedaction, _ := cmd.Flags().GetBool("fail-on-redaction")

	if backupSuffix == "" {
		backupSuffix = cfg.Redact.BackupSuffix
	}
	policy, err := fileio.ParseErrorPolicy(cfg.Redact.Errors)
	if err != nil {
		return err
	}
	encodingName := cfg.Redact.Encoding

	inputs, err := resolveInputs(inputFlag, args, outSuffix)
	if err != nil {
		return err
	}
	if err := validateOutputMode(inputs, outFlag, outSuffix, inPlace, dryRun); err != nil {
		return err
	}

	list, err := buildRuleList(cmd, cfg)
	if err != nil {
		return err
	}

	report, closeReport, err := openReport(reportOut)
	if err != nil {
		return err
	}
	defer closeReport()

	var total redact.Stats
	for _, input := range inputs {
		stats, err := redactOne(input, list, report, redactTarget{
			out:          outFlag,
			outSuffix:    outSuffix,
			inPlace:      inPlace,
			backupSuffix: backupSuffix,
			dryRun:       dryRun,
			encoding:     encodingName,
			policy:       policy,
		})
		if err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "%s: %s\n", input, stats.JSON())
		}
		total.Lines += stats.Lines
		total.Redactions += stats.Redactions
	}

	if !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), total.JSON())
	}
	if failOnRedaction && total.Redactions > 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return errRedactionsFound
	}
	return nil
}

// redactTarget carries the per-run output and decoding options.
type redactTarget struct {
	out          string
	outSuffix    string
	inPlace      bool
	backupSuffix string
	dryRun       bool
	encoding     string
	policy       fileio.ErrorPolicy
}

// redactOne streams a single input through the engine into its resolved
// destination.
func redactOne(input string, list []rules.Rule, report io.Writer, target redactTarget) (redact.Stats, error) {
	in, err := fileio.OpenInput(input, target.encoding, target.policy)
	if err != nil {
		return redact.Stats{}, err
	}
	defer in.Close()

	switch {
	case target.dryRun:
		return redact.Stream(in, io.Discard, list, report)

	case target.inPlace:
		atomic, err := fileio.NewAtomic(input, target.backupSuffix)
		if err != nil {
			return redact.Stats{}, err
		}
		stats, err := redact.Stream(in, atomic, list, report)
		if err != nil {
			atomic.Abort()
			return stats, err
		}
		// The input stays open until here; Commit renames over it only
		// after the whole stream succeeded.
		return stats, atomic.Commit()

	default:
		outPath := target.out
		if target.outSuffix != "" {
			outPath = input + target.outSuffix
		}
		out, err := fileio.OpenOutput(outPath)
		if err != nil {
			return redact.Stats{}, err
		}
		stats, err := redact.Stream(in, out, list, report)
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		return stats, err
	}
}

// resolveInputs merges --input with positional args and expands globs for
// multi-file modes. Earlier --out-suffix outputs are skipped on reruns.
func resolveInputs(inputFlag string, args []string, outSuffix string) ([]string, error) {
	patterns := args
	if inputFlag != "" {
		patterns = append([]string{inputFlag}, args...)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no input: pass --input or file arguments")
	}
	if len(patterns) == 1 && patterns[0] == fileio.Stdio {
		return patterns, nil
	}
	return config.ExpandInputs(patterns, outSuffix)
}

func validateOutputMode(inputs []string, out, outSuffix string, inPlace, dryRun bool) error {
	modes := 0
	if out != "" {
		modes++
	}
	if outSuffix != "" {
		modes++
	}
	if inPlace {
		modes++
	}
	if dryRun {
		modes++
	}
	if modes == 0 {
		return fmt.Errorf("no output: pass --out, --out-suffix, --in-place, or --dry-run")
	}
	if modes > 1 {
		return fmt.Errorf("--out, --out-suffix, --in-place, and --dry-run are mutually exclusive")
	}
	if out != "" && len(inputs) > 1 {
		return fmt.Errorf("--out cannot combine with multiple inputs; use --out-suffix or --in-place")
	}
	if inPlace {
		for _, input := range inputs {
			if input == fileio.Stdio {
				return fmt.Errorf("--in-place cannot read from stdin")
			}
		}
	}
	return nil
}

// openReport opens the report sink, if any. "-" selects stderr so report
// events never mix with redacted stdout output.
func openReport(path string) (io.Writer, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case fileio.Stdio:
		return os.Stderr, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
