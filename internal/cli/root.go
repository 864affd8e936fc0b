// Package cli wires configuration, logging and the folio components into
// cobra commands.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/logger"
)

var (
	cfgPath string
	envFile string
	verbose bool

	appCfg *config.AppConfig
	log    *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Question answering over a portfolio site's content",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		l, err := logger.New(cfg.Log.Mode, verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		appCfg, log = cfg, l
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file (defaults apply when missing)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with provider credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
