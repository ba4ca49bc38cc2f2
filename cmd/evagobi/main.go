// Command evagobi generates synthetic marketing data, prepares the Power BI
// chart files and serves them to the dashboard.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"evagobi/internal/config"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "evagobi: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the state shared by every command once PersistentPreRunE has run
type cli struct {
	configPath string
	rootDir    string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "evagobi",
		Short:         "Synthetic marketing data for Power BI dashboards",
		Version:       contracts.GetVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `evagobi builds the data behind the marketing dashboard.

Commands:
  generate  - Write the ten raw marketing datasets
  prepare   - Build the Power BI chart files from the raw datasets
  preview   - Print a summary of the prepared chart files
  trends    - Collect search interest for the tracked keywords
  run       - generate, prepare and export in one go
  serve     - Start the dashboard API`,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.logFile != nil {
				return c.logFile.Close()
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&c.rootDir, "root", "", "base directory for all data files")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		c.newGenerateCmd(),
		c.newPrepareCmd(),
		c.newPreviewCmd(),
		c.newTrendsCmd(),
		c.newRunCmd(),
		c.newServeCmd(),
	)
	return root
}

// setup loads the configuration, applies the persistent flags and creates the logger
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.rootDir != "" {
		cfg.Paths.RootDir = c.rootDir
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// stdout belongs to command output; logs go to stderr
	logger, file, err := infrastructure.NewLogger(cfg.Logging, c.stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	c.cfg = cfg
	c.logger = logger
	c.logFile = file

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(infrastructure.EnsureTraceID(ctx))
	return nil
}
