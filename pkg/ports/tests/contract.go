package tests

import (
	"testing"

	"github.com/aretw0/dreamboard/pkg/ports"
)

// PersonaLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.PersonaLoader.
func PersonaLoaderContractTest(t *testing.T, loader ports.PersonaLoader, wantIDs []string) {
	t.Helper()

	// 1. Order is preserved
	t.Run("LoadPersonas_Order", func(t *testing.T) {
		personas, err := loader.LoadPersonas()
		if err != nil {
			t.Fatalf("unexpected error loading personas: %v", err)
		}
		if len(personas) != len(wantIDs) {
			t.Fatalf("expected %d personas, got %d", len(wantIDs), len(personas))
		}
		for i, id := range wantIDs {
			if personas[i].ID != id {
				t.Errorf("persona %d: got id %q, want %q", i, personas[i].ID, id)
			}
		}
	})

	// 2. Every persona can build a prompt
	t.Run("LoadPersonas_Templates", func(t *testing.T) {
		personas, err := loader.LoadPersonas()
		if err != nil {
			t.Fatalf("unexpected error loading personas: %v", err)
		}
		for _, p := range personas {
			if p.InstructionTemplate == "" {
				t.Errorf("persona %s has an empty instruction template", p.ID)
			}
		}
	})

	// 3. Loading twice yields the same roster
	t.Run("LoadPersonas_Repeatable", func(t *testing.T) {
		first, err := loader.LoadPersonas()
		if err != nil {
			t.Fatalf("unexpected error loading personas: %v", err)
		}
		second, err := loader.LoadPersonas()
		if err != nil {
			t.Fatalf("unexpected error on second load: %v", err)
		}
		if len(first) != len(second) {
			t.Errorf("loader is not repeatable: %d then %d personas", len(first), len(second))
		}
	})
}
