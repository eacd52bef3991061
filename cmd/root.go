package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "logscrub",
	Short: "Redact secrets and PII from log files",
	Long: `Logscrub removes credentials, tokens, and PII from line-oriented log
text by applying an ordered list of regex redaction rules to each line.

It streams input to output, preserves line endings byte-for-byte, and
emits machine-readable statistics plus an optional per-match report.

Examples:
  logscrub redact --input app.log --out app.redacted.log
  logscrub redact --input - --out - < app.log
  logscrub redact --input app.log --in-place --backup-suffix .bak
  logscrub rules --list-presets
  logscrub tail -F /var/log/app.log`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logscrub.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "json", "listing format (json, text, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logscrub")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGSCRUB")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("format", "json")
	viper.SetDefault("verbose", false)
	viper.SetDefault("redact.encoding", "utf-8")
	viper.SetDefault("redact.errors", "ignore")

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
