// Command simplify rounds coordinate precision and optionally applies
// Douglas-Peucker simplification to a geometry document, validating that
// deduplication keys stay unique.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/maplumi/ipc-areas/internal/areas"
	"github.com/maplumi/ipc-areas/internal/dataset"
)

func main() {
	var (
		input     = flag.String("input", filepath.Join("data", dataset.GlobalFileName), "source geometry document")
		output    = flag.String("output", "", "output path (defaults to overwriting the input)")
		precision = flag.Int("precision", 4, "decimal places to retain in coordinates")
		tolerance = flag.Float64("tolerance", 0, "simplification tolerance in coordinate units; 0 disables")
		inPlace   = flag.Bool("in-place", false, "overwrite the input file")
		quiet     = flag.Bool("quiet", false, "suppress the size report")
	)
	flag.Parse()

	target := *output
	if *inPlace || target == "" {
		target = *input
	}

	fc, err := dataset.ReadCollection(*input)
	if err != nil {
		log.Fatal(err)
	}
	if len(fc.Features) == 0 {
		log.Fatal("no features available to simplify")
	}

	reportDuplicates("input", fc)

	areas.SimplifyCollection(fc, *tolerance)
	areas.RoundCollection(fc, *precision)

	originalSize := fileSize(*input)

	if err := dataset.WriteCollection(target, fc); err != nil {
		log.Fatal(err)
	}

	// Rounding can collapse nearby coordinates; re-check key uniqueness.
	if !reportDuplicates("output", fc) {
		os.Exit(1)
	}

	if *quiet {
		return
	}

	newSize := fileSize(target)
	fmt.Printf("Simplified dataset written to %s with precision %d decimal places\n", target, *precision)
	if *tolerance > 0 {
		fmt.Printf("Simplification tolerance applied: %g\n", *tolerance)
	}
	if originalSize > 0 {
		ratio := float64(newSize) / float64(originalSize)
		fmt.Printf("Size reduced from %d bytes to %d bytes (%.2f%% of original, saved %d bytes)\n",
			originalSize, newSize, ratio*100, originalSize-newSize)
	}
}

// reportDuplicates prints key collisions and reports whether the document is
// acceptable. The same upstream id in two countries is valid (global
// documents key by ISO3 plus id), so cross-country collisions are only a
// warning. Duplicates within a single country fail the check; callers treat
// that as fatal after processing.
func reportDuplicates(stage string, fc *geojson.FeatureCollection) bool {
	globalDupes, countryDupes := areas.DuplicateKeys(fc)

	if len(globalDupes) == 0 && len(countryDupes) == 0 {
		fmt.Printf("All %s feature keys are unique\n", stage)
		return true
	}
	if len(globalDupes) > 0 {
		fmt.Fprintf(os.Stderr, "Found %d duplicate keys globally in %s (ids may repeat across countries)\n", len(globalDupes), stage)
	}
	if len(countryDupes) > 0 {
		fmt.Fprintf(os.Stderr, "Duplicates within countries (%s): %s\n", stage, formatDupes(countryDupes))
		return false
	}
	return true
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func formatDupes(dupes map[string][]string) string {
	keys := make([]string, 0, len(dupes))
	for iso3 := range dupes {
		keys = append(keys, iso3)
	}
	sort.Strings(keys)
	var segments []string
	for _, iso3 := range keys {
		segments = append(segments, fmt.Sprintf("%s: %s", iso3, strings.Join(dupes[iso3], ", ")))
	}
	return strings.Join(segments, "; ")
}
