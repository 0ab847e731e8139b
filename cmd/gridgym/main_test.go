package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridgym/internal/app/rollout"
)

func TestEnvsCommandListsBuiltins(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"envs"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, name := range []string{"empty", "sparse", "distractive", "multitask"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("output misses %q:\n%s", name, out.String())
		}
	}
}

func TestShowCommandPrintsFrame(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show", "--env", "empty", "--color=false"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := ">....\n.....\n.....\n.....\n....T\nagent at (0,0) facing right\n"
	if out.String() != want {
		t.Fatalf("frame got=\n%q\nwant=\n%q", out.String(), want)
	}
}

func TestRunRolloutWritesReports(t *testing.T) {
	dir := t.TempDir()
	f := rolloutFlags{
		envFlags: envFlags{env: "empty", pov: "global"},
		episodes: 3,
		horizon:  20,
		seed:     1,
		policies: "random, bonus",
		chart:    filepath.Join(dir, "returns.html"),
		heatmap:  filepath.Join(dir, "visits.png"),
	}
	var out bytes.Buffer
	if err := runRollout(context.Background(), &out, f); err != nil {
		t.Fatalf("rollout: %v", err)
	}
	for _, p := range []string{"random", "bonus"} {
		if !strings.Contains(out.String(), p) {
			t.Fatalf("summary misses %q:\n%s", p, out.String())
		}
	}
	for _, p := range []string{f.chart, f.heatmap} {
		info, err := os.Stat(p)
		if err != nil || info.Size() == 0 {
			t.Fatalf("%s not written: %v", p, err)
		}
	}
}

func TestRunRolloutRejectsBadPolicies(t *testing.T) {
	f := rolloutFlags{envFlags: envFlags{env: "empty", pov: "global"}, episodes: 1}
	f.policies = " , "
	if err := runRollout(context.Background(), &bytes.Buffer{}, f); !errors.Is(err, rollout.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	f.policies = "greedy"
	if err := runRollout(context.Background(), &bytes.Buffer{}, f); !errors.Is(err, rollout.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}
