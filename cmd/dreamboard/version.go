package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/dreamboard"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dreamboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dreamboard version %s\n", dreamboard.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
