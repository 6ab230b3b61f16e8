package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/aretw0/dreamboard/internal/cli"
	"github.com/aretw0/dreamboard/internal/presentation/tui"
	"github.com/aretw0/dreamboard/pkg/domain"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret [dream...]",
	Short: "Interpret one dream with every persona (or a chosen few)",
	Long: `Writes the dream to the shared input, triggers the selected personas and waits
for every reading. With no arguments the dream is read from stdin.`,
	Example: `  dreamboard interpret "I was late for an exam in a school with no doors"
  echo "my teeth fell out" | dreamboard interpret --persona freud --persona jung`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.CreateLogger(cfg.LogLevel)

		dream, err := readDream(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		board, err := cli.NewBoard(cfg, logger)
		if err != nil {
			return err
		}
		defer board.Close()

		ids, _ := cmd.Flags().GetStringSlice("persona")
		if len(ids) == 0 {
			for _, p := range board.Personas() {
				ids = append(ids, p.ID)
			}
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		board.SetInput(dream)
		g, ctx := errgroup.WithContext(sc)
		for _, id := range ids {
			s, ok := board.Slot(id)
			if !ok {
				return fmt.Errorf("%w: %q", domain.ErrPersonaNotFound, id)
			}
			g.Go(func() error {
				s.Trigger(ctx)
				return s.Wait(ctx)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("interrupted: %w", err)
		}

		out := cmd.OutOrStdout()
		states := board.States()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			updates := make([]domain.SlotUpdate, 0, len(ids))
			for _, id := range ids {
				updates = append(updates, domain.SlotUpdate{PersonaID: id, State: states[id]})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(updates); err != nil {
				return err
			}
		} else {
			renderPanels(out, board.Personas(), ids, states)
		}

		failed := 0
		for _, id := range ids {
			if states[id].Status == domain.StatusError {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d interpretation(s) failed", failed, len(ids))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interpretCmd)
	interpretCmd.Flags().StringSliceP("persona", "p", nil, "Persona ID to trigger (repeatable, default: all)")
	interpretCmd.Flags().Bool("json", false, "Print slot states as JSON")
}

func readDream(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read dream from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func renderPanels(w io.Writer, personas []domain.Persona, ids []string, states map[string]domain.SlotState) {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	markdown := tui.PlainRenderer
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 80
		}
		markdown = tui.NewRenderer(width - 4)
	}
	panels := tui.NewPanelRenderer(markdown)

	for _, p := range personas {
		if !selected[p.ID] {
			continue
		}
		fmt.Fprintln(w, panels.Render(p, states[p.ID]))
	}
}
