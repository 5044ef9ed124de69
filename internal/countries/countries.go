// Package countries loads the ISO country reference list used to drive the
// download pipeline.
package countries

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/maplumi/ipc-areas/internal/logger"
)

// Country is one row of the reference list.
type Country struct {
	Name string
	ISO2 string
	ISO3 string
}

// Load parses the countries CSV. Required columns: Alpha_2_Code,
// Alpha_3_Code, English_Short_Name. Rows with missing ISO codes are skipped.
// A duplicate ISO2 replaces the earlier row in place.
func Load(path string) ([]Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	for _, k := range []string{"Alpha_2_Code", "Alpha_3_Code", "English_Short_Name"} {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []Country
	byISO2 := map[string]int{}

	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		get := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		iso2 := get("Alpha_2_Code")
		iso3 := get("Alpha_3_Code")
		name := get("English_Short_Name")

		if iso2 == "" || iso3 == "" {
			logger.L().Warn().Int("row", rowIdx+1).Msg("skipping row with missing ISO codes")
			continue
		}
		if name == "" {
			name = iso2
		}

		c := Country{Name: name, ISO2: iso2, ISO3: iso3}
		if i, ok := byISO2[iso2]; ok {
			out[i] = c
			continue
		}
		byISO2[iso2] = len(out)
		out = append(out, c)
	}

	return out, nil
}
