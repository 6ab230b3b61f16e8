package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/dreamboard/internal/cli"
	"github.com/aretw0/dreamboard/internal/presentation/assets"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the configured interpreter personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := cli.NewRegistry(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(reg.List())
		}

		baseDir := assetDir(cfg.Personas)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tIMAGE\tDESCRIPTION")
		for _, p := range reg.List() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, assets.Resolve(p.ImageRef, baseDir), p.DisplayText)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(personasCmd)
	personasCmd.Flags().Bool("json", false, "Print the roster as JSON")
}
