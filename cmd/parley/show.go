package main

import (
	"github.com/aretw0/parley/internal/cli"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print an outline of a conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Show(cmd.Context(), cfg.Source, nameArg(args), cmd.OutOrStdout(), tui.NewRenderer())
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
