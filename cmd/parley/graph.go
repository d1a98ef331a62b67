package main

import (
	"github.com/aretw0/parley/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [name]",
	Short: "Export a conversation as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the opening line, its options and their replies.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Graph(cmd.Context(), cfg.Source, nameArg(args), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
