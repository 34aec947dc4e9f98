package main

import (
	"path/filepath"
	"testing"
)

func TestOwnerSetListRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"owner", "set", "alice"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("owner set: %v", err)
	}
	requireContains(t, out, filepath.Join(env.cfg.Paths.LibraryDir, "alice"))

	custom := filepath.Join(env.cfg.Paths.DataDir, "bob-music")
	if _, _, err := runCLI(t, []string{"owner", "set", "bob", custom}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("owner set custom: %v", err)
	}

	out, _, err = runCLI(t, []string{"owner", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	requireContains(t, out, "alice")
	requireContains(t, out, "bob-music")

	out, _, err = runCLI(t, []string{"owner", "remove", "alice"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("owner remove: %v", err)
	}
	requireContains(t, out, "Owner alice removed")

	out, _, err = runCLI(t, []string{"owner", "remove", "alice"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("owner remove again: %v", err)
	}
	requireContains(t, out, "was not registered")
}
