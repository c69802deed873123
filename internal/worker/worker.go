package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"reviewhub/internal/models"
	"reviewhub/internal/tasks"
)

// Notifier delivers a notification event to the aggregation endpoint.
// pipeline.Client satisfies this.
type Notifier interface {
	Notify(ctx context.Context, event models.NotificationEvent) error
}

// NotifyDeps carries the dependencies for the pipeline notify handler.
type NotifyDeps struct {
	Notifier Notifier
}

// RegisterHandlers wires all task handlers onto the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps NotifyDeps) {
	mux.HandleFunc(tasks.TypePipelineNotify, HandlePipelineNotify(deps))
}

// HandlePipelineNotify returns the handler that plays the external pipeline:
// it decodes the scheduled event and POSTs it to the moderate endpoint.
// Delivery failures are returned so asynq retries; like the real pipeline,
// delivery is at-least-once, not exactly-once.
func HandlePipelineNotify(deps NotifyDeps) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.PipelineNotifyPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal pipeline notify payload: %w", err)
		}

		log.WithFields(log.Fields{
			"asset_id":          payload.Event.AssetID,
			"notification_type": payload.Event.NotificationType,
			"info_kind":         payload.Event.InfoKind,
		}).Info("delivering synthetic pipeline event")

		if err := deps.Notifier.Notify(ctx, payload.Event); err != nil {
			return fmt.Errorf("notify endpoint: %w", err)
		}
		return nil
	}
}
