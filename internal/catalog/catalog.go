// Package catalog records run history and dataset metadata in Postgres.
// The catalog is optional: without a DATABASE_URL it is absent and the
// pipeline runs file-only.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maplumi/ipc-areas/internal/dataset"
	"github.com/maplumi/ipc-areas/internal/logger"
)

// Run is one pipeline execution.
type Run struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	StartedAt  time.Time
	FinishedAt time.Time
	ReleaseTag string
	Succeeded  int
	Failed     int
}

// Dataset is one emitted document as recorded by a run.
type Dataset struct {
	ID           uint      `gorm:"primaryKey"`
	RunID        uuid.UUID `gorm:"type:uuid;index"`
	Country      string
	ISO2         string
	ISO3         string
	Year         int
	Variant      string
	RelativePath string
	CDNUrl       string
	FeatureCount int
	YearsMerged  pq.Int64Array `gorm:"type:bigint[]"`
	UpdatedAt    time.Time
}

// Catalog wraps the Postgres connection.
type Catalog struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the catalog tables. Returns nil, nil
// when dsn is empty (graceful degradation: catalog disabled).
func Open(dsn string) (*Catalog, error) {
	if dsn == "" {
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&Run{}, &Dataset{}); err != nil {
		return nil, err
	}

	logger.L().Info().Msg("catalog connected")
	return &Catalog{db: db}, nil
}

// RecordRun stores one run and a dataset row per index entry in a single
// transaction. yearsMerged maps ISO3 to the assessment years that
// contributed to that country's merged document.
func (c *Catalog) RecordRun(ctx context.Context, run Run, idx *dataset.Index, yearsMerged map[string][]int) error {
	if c == nil {
		return nil
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}

		var rows []Dataset
		for _, item := range idx.Items {
			row := Dataset{
				RunID:        run.ID,
				Country:      item.Country,
				ISO2:         item.ISO2,
				ISO3:         item.ISO3,
				Year:         item.Year,
				Variant:      item.Variant,
				RelativePath: item.RelativePath,
				CDNUrl:       item.CDNUrl,
				FeatureCount: item.FeatureCount,
			}
			if t, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
				row.UpdatedAt = t
			}
			if item.Variant == "merged" {
				for _, y := range yearsMerged[item.ISO3] {
					row.YearsMerged = append(row.YearsMerged, int64(y))
				}
			}
			rows = append(rows, row)
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
