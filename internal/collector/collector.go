package collector

import (
	"context"
	"fmt"
	"log"

	"github.com/user/energy-chart-go/internal/models"
)

// DataCollector loads the consumption dataset from a Source.
type DataCollector struct {
	Source   Source
	Rows     []models.DataRow
	Metadata models.SourceMetadata
}

// NewDataCollector creates a collector for the given source.
func NewDataCollector(source Source) *DataCollector {
	return &DataCollector{Source: source}
}

// Collect performs a single fetch and parse of the dataset. There is no
// retry; every failure is returned as a *DataLoadError.
func (dc *DataCollector) Collect(ctx context.Context) ([]models.DataRow, error) {
	if dc.Source == nil {
		return nil, NewDataLoadError("<none>", fmt.Errorf("no data source configured"))
	}

	body, meta, err := dc.Source.Open(ctx)
	if err != nil {
		return nil, NewDataLoadError(dc.Source.String(), err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			log.Printf("Warning: failed to close data source %s: %v", dc.Source, err)
		}
	}()

	rows, err := ParseRows(body)
	if err != nil {
		return nil, NewDataLoadError(dc.Source.String(), err)
	}

	meta.RowCount = len(rows)
	dc.Rows = rows
	dc.Metadata = meta
	return rows, nil
}

// SourceMetadata describes the last successful Collect.
func (dc *DataCollector) SourceMetadata() models.SourceMetadata {
	return dc.Metadata
}
