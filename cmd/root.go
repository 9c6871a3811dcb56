package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mendonca-galvao/horaextra/internal/config"
	"github.com/mendonca-galvao/horaextra/internal/logging"
)

var (
	configPath string
	verbose    bool

	cfg       config.Config
	log       = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "horaextra",
	Short: "Extract timesheet records from scanned time cards",
	Long: `horaextra reads timesheet documents (images or PDFs), extracts one record
per employee with an AI model and exports the results as a spreadsheet or a
markdown table.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command tree and releases the log file whether or not the
// command failed.
func run() error {
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/horaextra/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	l, closer, err := logging.New(os.Stderr, logging.Options{
		Level:      cfg.Log.Level,
		Verbose:    verbose,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	log, logCloser = l, closer
	log.Debug().Str("command", cmd.Name()).Msg("configuration loaded")
	return nil
}
