// Command combine aggregates every per-country merged document into one
// global collection, deduplicated by (ISO3, feature id), and refreshes the
// discovery index.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/maplumi/ipc-areas/internal/areas"
	"github.com/maplumi/ipc-areas/internal/countries"
	"github.com/maplumi/ipc-areas/internal/dataset"
	"github.com/maplumi/ipc-areas/internal/release"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		dataDir   = flag.String("data", "data", "data directory to scan")
		csvPath   = flag.String("countries", "countries.csv", "country reference list (for index names)")
		precision = flag.Int("precision", 6, "decimal places to retain in coordinates")
	)
	flag.Parse()

	store := dataset.NewStore(*dataDir)

	paths, err := store.CountryDocuments()
	if err != nil {
		log.Fatalf("scanning %s: %v", *dataDir, err)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "No country documents found under %s; run the downloader first.\n", *dataDir)
		os.Exit(1)
	}

	merger := areas.NewGlobalMerger()
	for _, path := range paths {
		fc, err := dataset.ReadCollection(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, err)
			continue
		}
		merger.Add(fc)
	}

	if merger.Len() == 0 {
		fmt.Fprintln(os.Stderr, "No features extracted; aborting.")
		os.Exit(1)
	}

	fc := merger.Collection()
	areas.RoundCollection(fc, *precision)

	if err := dataset.WriteCollection(store.GlobalPath(), fc); err != nil {
		log.Fatalf("writing global document: %v", err)
	}
	fmt.Printf("Wrote %d features to %s\n", merger.Len(), store.GlobalPath())

	list, err := countries.Load(*csvPath)
	if err != nil {
		// The index can still be built; names fall back to ISO3 codes.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	idx, err := store.BuildIndex(list, release.ResolveTag())
	if err != nil {
		log.Fatalf("building index: %v", err)
	}
	if err := store.WriteIndex(idx); err != nil {
		log.Fatalf("writing index: %v", err)
	}
	fmt.Printf("Index updated: %s\n", store.IndexPath())
}
