// Package soloquest parses engine flags and runs a campaign session.
package soloquest

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hearthloom/soloquest/internal/app"
	"github.com/hearthloom/soloquest/internal/content"
	entrypoint "github.com/hearthloom/soloquest/internal/platform/cmd"
	"github.com/hearthloom/soloquest/internal/storage/sqlite"
	"github.com/hearthloom/soloquest/internal/telemetry"
)

// Config holds engine command configuration.
type Config struct {
	DBPath     string `env:"SOLOQUEST_DB_PATH" envDefault:"soloquest.db"`
	PackPath   string `env:"SOLOQUEST_PACK_PATH"`
	CampaignID string `env:"SOLOQUEST_CAMPAIGN_ID"`
	Name       string `env:"SOLOQUEST_CAMPAIGN_NAME" envDefault:"New Campaign"`
	Seed       int64  `env:"SOLOQUEST_SEED" envDefault:"0"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the campaign database")
	fs.StringVar(&cfg.PackPath, "pack", cfg.PackPath, "Path to the content pack JSON")
	fs.StringVar(&cfg.CampaignID, "campaign", cfg.CampaignID, "Existing campaign id to resume")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "Name for a new campaign")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for a new campaign (0 = random)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store and either resumes or bootstraps a campaign.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEngine, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open campaign store: %w", err)
		}
		defer store.Close()

		var pack *content.Pack
		if cfg.PackPath != "" {
			dir, file := filepath.Split(filepath.Clean(cfg.PackPath))
			if dir == "" {
				dir = "."
			}
			pack, err = content.LoadPack(os.DirFS(dir), file)
			if err != nil {
				return fmt.Errorf("load content pack: %w", err)
			}
			log.Printf("loaded content pack %s (%d tables)", pack.ID, len(pack.TableIDs()))
		}

		session := app.NewSession(store, pack, telemetry.NewEmitter(store), nil)

		if cfg.CampaignID != "" {
			camp, err := session.LoadCampaign(ctx, cfg.CampaignID)
			if err != nil {
				return fmt.Errorf("resume campaign %s: %w", cfg.CampaignID, err)
			}
			log.Printf("resumed campaign %s (%q): scene %d, chaos %d, cursor %d",
				camp.ID, camp.Name, camp.SceneNumber, camp.ChaosFactor, camp.Sequence)
			return nil
		}

		camp, err := session.CreateCampaign(ctx, cfg.Name, cfg.Seed)
		if err != nil {
			return fmt.Errorf("create campaign: %w", err)
		}
		if _, err := session.Builder().GenerateDungeonStart(camp, camp.Name); err != nil {
			return fmt.Errorf("generate starting location: %w", err)
		}
		if err := session.SaveCampaign(ctx, camp); err != nil {
			return fmt.Errorf("save campaign: %w", err)
		}
		log.Printf("created campaign %s (%q) with seed %d", camp.ID, camp.Name, camp.Seed)
		return nil
	})
}
