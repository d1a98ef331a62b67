package main

import (
	"fmt"
	"os"

	"github.com/aretw0/parley/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "parley",
	Short:         "Parley plays tick-driven dialogue boxes in the terminal",
	Long:          `Parley reveals conversations character by character, offers their options and closes them on confirm.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default parley.yaml when present)")
	rootCmd.PersistentFlags().String("source", "", "Dialogue catalog (.yaml/.json) or directory of markdown dialogues")
	rootCmd.PersistentFlags().Bool("debug", false, "Log engine events to stderr")
}

// loadConfig resolves the configuration and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("source") {
		cfg.Source, _ = cmd.Flags().GetString("source")
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	return cfg, nil
}

// nameArg returns the optional conversation name argument.
func nameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
