package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/maplumi/ipc-areas/internal/catalog"
	"github.com/maplumi/ipc-areas/internal/config"
	"github.com/maplumi/ipc-areas/internal/countries"
	"github.com/maplumi/ipc-areas/internal/dataset"
	"github.com/maplumi/ipc-areas/internal/ipc"
	"github.com/maplumi/ipc-areas/internal/pipeline"
	"github.com/maplumi/ipc-areas/internal/release"
)

func main() {
	_ = godotenv.Load(".env.local")

	configPath := flag.String("config", "pipeline.yaml", "optional YAML config overlay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	list, err := countries.Load(cfg.CountriesCSV)
	if err != nil {
		log.Fatalf("loading countries: %v", err)
	}
	fmt.Printf("Loaded %d countries\n", len(list))

	tag := release.ResolveTag()
	store := dataset.NewStore(cfg.DataDir)
	client := ipc.NewClient(cfg.IPCKey, cfg.APIBaseURL)

	cat, err := catalog.Open(cfg.DatabaseURL)
	if err != nil {
		// The catalog never blocks the pipeline.
		log.Printf("catalog unavailable: %v", err)
	}

	started := time.Now().UTC()
	summary := pipeline.New(cfg, client, store).Run(ctx, list)

	idx, err := store.BuildIndex(list, tag)
	if err != nil {
		log.Fatalf("building index: %v", err)
	}
	if err := store.WriteIndex(idx); err != nil {
		log.Fatalf("writing index: %v", err)
	}
	fmt.Printf("Index updated: %s\n", store.IndexPath())

	if cat != nil {
		run := catalog.Run{
			ID:         uuid.MustParse(idx.RunID),
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
			ReleaseTag: tag,
			Succeeded:  summary.Succeeded,
			Failed:     summary.Failed,
		}
		if err := cat.RecordRun(ctx, run, idx, summary.YearsMerged); err != nil {
			log.Printf("catalog record failed: %v", err)
		}
	}

	fmt.Println("Processing complete!")
	fmt.Printf("Successful: %d\n", summary.Succeeded)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("Data saved in: %s\n", store.Dir())
}
