package store

import (
	"context"

	"github.com/hibiken/asynq"

	"reviewhub/internal/models"
)

// --- Job Client ---

type JobClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// --- Asset Store ---

// AssetRecordStore is the keyed store of in-flight asset processing records.
// Mutation is serialized per key; unrelated assets never contend.
type AssetRecordStore interface {
	// Update runs fn on the record for assetID under the key's lock, creating
	// the record with all sub-states pending if it does not exist. If fn
	// returns true the record is removed once fn returns.
	Update(assetID string, fn func(*models.AssetProcessingRecord) bool)

	// Get returns a consistent copy of the record, if present.
	Get(assetID string) (models.AssetProcessingRecord, bool)

	Len() int
	Close()
}
