package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/internal/entity"
)

// BatchFile is one file in a multi-file upload.
type BatchFile struct {
	Filename string
	Data     []byte
}

// ProcessBatch runs every file through the pipeline independently and
// sequentially. A hard mismatch or extraction failure on one file never
// aborts its siblings; each outcome lands in the result list. The error
// return fires only when the ship itself cannot be loaded.
func (o *Orchestrator) ProcessBatch(ctx context.Context, shipID uuid.UUID, files []BatchFile) ([]entity.FileResult, error) {
	ship, err := o.ships.GetByID(ctx, shipID)
	if err != nil {
		return nil, fmt.Errorf("load ship: %w", err)
	}

	o.logger.Info("pipeline.batch.start", "ship_id", shipID, "files", len(files))
	results := make([]entity.FileResult, 0, len(files))
	for _, f := range files {
		results = append(results, o.processFor(ctx, ship, f.Filename, f.Data))
	}

	var created int
	for _, r := range results {
		if r.CertificateID != uuid.Nil {
			created++
		}
	}
	o.logger.Info("pipeline.batch.done", "ship_id", shipID, "files", len(files), "created", created)
	return results, nil
}
