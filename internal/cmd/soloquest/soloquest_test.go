package soloquest

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("soloquest", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "soloquest.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected random seed default, got %d", cfg.Seed)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("SOLOQUEST_DB_PATH", "env.db")

	fs := flag.NewFlagSet("soloquest", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "flag.db", "-seed", "42"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag override, got %q", cfg.DBPath)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
}
