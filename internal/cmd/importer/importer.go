// Package importer parses importer flags and converts user table files
// into content pack documents.
package importer

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hearthloom/soloquest/internal/content"
	entrypoint "github.com/hearthloom/soloquest/internal/platform/cmd"
)

// Config holds importer command configuration.
type Config struct {
	Input       string `env:"SOLOQUEST_IMPORT_INPUT"`
	Output      string `env:"SOLOQUEST_IMPORT_OUTPUT"`
	Format      string `env:"SOLOQUEST_IMPORT_FORMAT" envDefault:"auto"`
	PackID      string `env:"SOLOQUEST_IMPORT_PACK_ID" envDefault:"user"`
	PackVersion string `env:"SOLOQUEST_IMPORT_PACK_VERSION" envDefault:"1.0.0"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Input, "in", cfg.Input, "Input table file (JSON or markdown)")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "Output pack file (default stdout)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Input format: auto, json, or markdown")
	fs.StringVar(&cfg.PackID, "pack-id", cfg.PackID, "Pack id for the emitted document")
	fs.StringVar(&cfg.PackVersion, "pack-version", cfg.PackVersion, "Pack version for the emitted document")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run imports the input file and writes the resulting pack.
func Run(ctx context.Context, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Input) == "" {
		return fmt.Errorf("input file is required")
	}

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	tables, err := importTables(cfg, data)
	if err != nil {
		return err
	}

	pack := content.NewPack(cfg.PackID, cfg.PackVersion, tables...)

	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		file, createErr := os.Create(cfg.Output)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer file.Close()
		out = file
	}
	return content.EncodePack(out, pack)
}

func importTables(cfg Config, data []byte) ([]content.Table, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "auto" || format == "" {
		switch strings.ToLower(filepath.Ext(cfg.Input)) {
		case ".md", ".markdown":
			format = "markdown"
		default:
			format = "json"
		}
	}

	switch format {
	case "json":
		return content.ImportUserTables(data)
	case "markdown":
		return content.ImportMarkdown(string(data))
	default:
		return nil, fmt.Errorf("unsupported input format %q", cfg.Format)
	}
}
