package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamboard/internal/config"
)

func TestResolveConfig_FlagsOverride(t *testing.T) {
	t.Setenv("DREAMBOARD_API_KEY", "from-env")
	t.Setenv("DREAMBOARD_BACKEND", "genai")

	cmd := &cobra.Command{Use: "x"}
	addConfigFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--backend", "echo", "--model", "m1"}))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.BackendEcho, cfg.Backend)
	assert.Equal(t, "m1", cfg.Model)
	assert.Equal(t, "from-env", cfg.APIKey)
}

func TestResolveConfig_InvalidBackend(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addConfigFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--backend", "telegraph"}))

	_, err := resolveConfig(cmd)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestReadDream(t *testing.T) {
	got, err := readDream([]string{"a", "red", "door"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a red door", got)

	got, err = readDream(nil, strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func TestInterpretCommand_Echo(t *testing.T) {
	out, err := run(t, "interpret", "--backend", "echo", "--log-level", "error", "--persona", "jung", "a", "lighthouse")
	require.NoError(t, err)
	assert.Contains(t, out, "Jung")
	assert.Contains(t, out, "No external service was contacted.")
	assert.NotContains(t, out, "Freud")
}

func TestInterpretCommand_JSON(t *testing.T) {
	out, err := run(t, "interpret", "--backend", "echo", "--log-level", "error", "--json", "-p", "freud", "stairs")
	require.NoError(t, err)
	assert.Contains(t, out, `"persona_id": "freud"`)
	assert.Contains(t, out, `"status": "success"`)
}

func TestInterpretCommand_UnknownPersona(t *testing.T) {
	_, err := run(t, "interpret", "--backend", "echo", "--log-level", "error", "-p", "nobody", "stairs")
	assert.Error(t, err)
}

func TestPersonasCommand(t *testing.T) {
	out, err := run(t, "personas")
	require.NoError(t, err)
	for _, id := range []string{"freud", "jung", "oracle", "skeptic"} {
		assert.Contains(t, out, id)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dreamboard version "))
}
