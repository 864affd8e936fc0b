package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"folio/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := os.Stat(cfgPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", cfgPath)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
