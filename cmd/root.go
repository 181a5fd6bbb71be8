package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/panos-eol/pkg/config"
	"github.com/grovetools/panos-eol/pkg/logger"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runtime carries what every subcommand needs once flags are parsed.
type runtime struct {
	cfg *config.Config
	log *logrus.Entry
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}
	var (
		configPath string
		verbose    bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "panos-eol",
		Short: "Keep the endoflife.date PAN-OS page in sync with released versions",
		Long: `panos-eol compares the PAN-OS versions feed (PaloAltoVersions.json) with the
release blocks of endoflife.date's pan-os.md and rewrites the blocks whose
latest version is behind.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv("."); err != nil {
				return err
			}
			if configPath == "" {
				configPath = config.Find(".")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			if cmd.Flags().Changed("log-level") {
				level = logLevel
			}
			l, err := logger.New(level, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rt.cfg = cfg
			rt.log = logger.WithRun(l)

			cmd.Flags().Visit(func(f *pflag.Flag) {
				rt.log.WithFields(logrus.Fields{"flag": f.Name, "value": f.Value.String()}).Debug("Flag set")
			})
			if configPath != "" {
				rt.log.WithField("path", configPath).Debug("Loaded config file")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("Config file (default: first of %v)", config.DefaultFileNames))
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newUpdateCmd(rt))
	cmd.AddCommand(newVersionsCmd(rt))
	cmd.AddCommand(newURLCmd(rt))
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newConfigCmd(rt))

	return cmd
}

// isTerminal reports whether w is a terminal, which gates styled output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
