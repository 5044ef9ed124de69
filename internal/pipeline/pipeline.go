// Package pipeline orchestrates the per-country fetch/merge sequence.
package pipeline

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/maplumi/ipc-areas/internal/areas"
	"github.com/maplumi/ipc-areas/internal/config"
	"github.com/maplumi/ipc-areas/internal/countries"
	"github.com/maplumi/ipc-areas/internal/dataset"
	"github.com/maplumi/ipc-areas/internal/ipc"
	"github.com/maplumi/ipc-areas/internal/logger"
)

// Summary reports the outcome of one pipeline run.
type Summary struct {
	Succeeded int
	Failed    int

	// YearsMerged maps ISO3 to the assessment years that contributed to the
	// country's merged document.
	YearsMerged map[string][]int
}

// Pipeline runs the sequential download/merge loop for a country list.
type Pipeline struct {
	cfg     config.Config
	client  *ipc.Client
	store   *dataset.Store
	limiter *rate.Limiter
}

// New assembles a pipeline. API requests are spaced by cfg.RequestDelay.
func New(cfg config.Config, client *ipc.Client, store *dataset.Store) *Pipeline {
	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}
	return &Pipeline{
		cfg:     cfg,
		client:  client,
		store:   store,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run processes every country in order. Failures are per-country: the run
// continues past them.
func (p *Pipeline) Run(ctx context.Context, list []countries.Country) Summary {
	sum := Summary{YearsMerged: map[string][]int{}}

	for i, c := range list {
		years, err := p.ProcessCountry(ctx, c)
		switch {
		case err != nil:
			logger.Error("pipeline", "process "+c.ISO3, err)
			sum.Failed++
			if ctx.Err() != nil {
				return sum
			}
		case len(years) == 0:
			logger.L().Info().Str("country", c.Name).Msg("no data found in any year")
			sum.Failed++
		default:
			sum.Succeeded++
			sum.YearsMerged[c.ISO3] = years
		}

		if i < len(list)-1 && p.cfg.CountryDelay > 0 {
			select {
			case <-ctx.Done():
				return sum
			case <-time.After(p.cfg.CountryDelay):
			}
		}
	}

	return sum
}

// ProcessCountry attempts assessment years newest first until one fetch
// succeeds (or an on-disk year document can be reused), then merges every
// year document present for the country into one deduplicated,
// precision-rounded document. Returns the years that contributed.
func (p *Pipeline) ProcessCountry(ctx context.Context, c countries.Country) ([]int, error) {
	logger.L().Info().Str("country", c.Name).Str("iso2", c.ISO2).Msg("processing")

	if err := p.ensureYearDocument(ctx, c); err != nil {
		return nil, err
	}

	merger := areas.NewMerger()
	var merged []int

	for _, year := range p.cfg.Years() {
		fc, err := dataset.ReadCollection(p.store.YearPath(c.ISO3, year))
		if err != nil {
			if !os.IsNotExist(err) {
				logger.L().Warn().Str("iso3", c.ISO3).Int("year", year).Err(err).
					Msg("unable to read existing dataset")
			}
			continue
		}
		added := merger.Add(fc)
		merged = append(merged, year)
		logger.L().Debug().Str("iso3", c.ISO3).Int("year", year).
			Int("features", len(fc.Features)).Int("new", added).Msg("merged year document")
	}

	if merger.Len() == 0 {
		return nil, nil
	}

	fc := merger.Collection()
	areas.RoundCollection(fc, p.cfg.Precision)

	if err := dataset.WriteCollection(p.store.CountryPath(c.ISO3), fc); err != nil {
		return nil, err
	}
	logger.L().Info().Str("iso3", c.ISO3).Int("features", merger.Len()).
		Ints("years", merged).Msg("merged dataset saved")

	return merged, nil
}

// ensureYearDocument walks the year list newest first and stops at the first
// year with a usable document: an existing readable file (unless
// FORCE_REFRESH), or a successful fetch. Fetch failures skip to the next
// year; they are fatal only when the context is done.
func (p *Pipeline) ensureYearDocument(ctx context.Context, c countries.Country) error {
	for _, year := range p.cfg.Years() {
		path := p.store.YearPath(c.ISO3, year)

		if !p.cfg.ForceRefresh {
			fc, err := dataset.ReadCollection(path)
			if err == nil && len(fc.Features) > 0 {
				logger.L().Debug().Str("iso3", c.ISO3).Int("year", year).Msg("reusing existing year document")
				return nil
			}
			if err != nil && !os.IsNotExist(err) {
				logger.L().Warn().Str("path", path).Err(err).Msg("malformed year document, recreating")
			}
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		features, err := p.client.FetchAreas(ctx, c.ISO2, year)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !errors.Is(err, ipc.ErrNoData) {
				logger.L().Warn().Str("iso2", c.ISO2).Int("year", year).Err(err).Msg("fetch failed, skipping year")
			}
			continue
		}

		filtered := ipc.FilterPolygons(features, c, year)
		if len(filtered.Features) == 0 {
			logger.L().Info().Str("iso2", c.ISO2).Int("year", year).Msg("no valid polygon features")
			continue
		}

		if err := dataset.WriteCollection(path, filtered); err != nil {
			return err
		}
		logger.L().Info().Str("iso3", c.ISO3).Int("year", year).
			Int("features", len(filtered.Features)).Msg("year document saved")
		return nil
	}

	return nil
}
