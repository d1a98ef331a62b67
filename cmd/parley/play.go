package main

import (
	"context"
	"os"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/cli"
	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [name]",
	Short: "Play a conversation",
	Long: `Opens a conversation in a dialogue box and drives it until it closes.

On a terminal the box is drawn full screen: arrows move the cursor, enter/space/z
confirm, esc/q close. Otherwise (or with --headless) a transcript is written to
stdout and input comes from a key script.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("cadence") {
			cfg.Cadence, _ = flags.GetDuration("cadence")
		}
		if flags.Changed("sound") {
			cfg.Sound, _ = flags.GetBool("sound")
		}
		if flags.Changed("metrics-addr") {
			cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
		}

		headless, _ := flags.GetBool("headless")
		keys, _ := flags.GetString("keys")
		autoConfirm, _ := flags.GetBool("auto-confirm")
		pageLines, _ := flags.GetInt("page-lines")
		headless = headless || keys != "" || !cli.IsTerminal(os.Stdout)

		if !headless {
			tui.PrintBanner(os.Stdout, parley.Version)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Play(sigCtx, cfg, cli.PlayOptions{
			Name:        nameArg(args),
			Headless:    headless,
			Keys:        keys,
			AutoConfirm: autoConfirm,
			PageLines:   pageLines,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Bool("headless", false, "Write a transcript instead of drawing the box")
	playCmd.Flags().String("keys", "", "Key script for headless mode ('-' reads stdin)")
	playCmd.Flags().Bool("auto-confirm", false, "Keep confirming once the key script runs out")
	playCmd.Flags().Duration("cadence", parley.DefaultCadence, "Interval between revealed characters")
	playCmd.Flags().Int("page-lines", 0, "Pause after this many lines of a block (0 never pages)")
	playCmd.Flags().Bool("sound", false, "Blip on every revealed character")
	playCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")

	rootCmd.RunE = playCmd.RunE
	rootCmd.Args = playCmd.Args
}
