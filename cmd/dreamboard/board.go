package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/internal/cli"
	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/internal/presentation/board"
	"github.com/aretw0/dreamboard/internal/presentation/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board [dream...]",
	Short: "Open the interactive terminal board",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		// The terminal belongs to the UI; only debug logging goes to stderr.
		logger := logging.NewNop()
		if cfg.LogLevel == "debug" {
			logger = cli.CreateLogger(cfg.LogLevel)
		}

		var opts []dreamboard.Option
		if len(args) > 0 {
			dream, _ := readDream(args, nil)
			opts = append(opts, dreamboard.WithInitialInput(dream))
		}
		b, err := cli.NewBoard(cfg, logger, opts...)
		if err != nil {
			return err
		}
		defer b.Close()

		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		updates, stop := board.Updates(b)
		defer stop()

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		p := tea.NewProgram(board.New(sc, b, updates), tea.WithAltScreen(), tea.WithContext(sc))
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.Flags().Bool("banner", false, "Print the banner before opening the board")
}
