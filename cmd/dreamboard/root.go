package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/dreamboard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dreamboard",
	Short: "Dreamboard sends one dream to several interpreter personas",
	Long: `Dreamboard broadcasts a single dream description to a roster of personas.
Each persona asks a generative-text service for its own reading independently,
so one slow or failing interpreter never blocks the others.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	addConfigFlags(rootCmd.PersistentFlags())
}

func addConfigFlags(pf *pflag.FlagSet) {
	pf.String("config", "", "Path to a YAML configuration file")
	pf.String("personas", "", "Path to a YAML persona roster (default: built-in roster)")
	pf.String("backend", config.BackendREST, "Text-generation backend: rest, genai or echo")
	pf.String("endpoint", "", "Override the generation endpoint URL")
	pf.String("model", "", "Model name")
	pf.String("api-key", "", "API credential (prefer DREAMBOARD_API_KEY)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
}

// resolveConfig layers flags that were set explicitly over file and environment values.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return cfg, err
	}

	overlay := map[string]*string{
		"personas":  &cfg.Personas,
		"backend":   &cfg.Backend,
		"endpoint":  &cfg.Endpoint,
		"model":     &cfg.Model,
		"api-key":   &cfg.APIKey,
		"log-level": &cfg.LogLevel,
	}
	for name, field := range overlay {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}

	return cfg, cfg.Validate()
}
