package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"reviewhub/internal/models"
)

// Defines constants for task types used in Asynq.

const (
	// TypePipelineNotify is the task type for delivering one synthetic
	// pipeline notification event to the moderate endpoint.
	TypePipelineNotify = "pipeline:notify"
)

// PipelineNotifyPayload wraps the event a worker should deliver.
type PipelineNotifyPayload struct {
	Event models.NotificationEvent `json:"event"`
}

// NewPipelineNotifyTask builds the asynq task for one synthetic event.
// Delay scheduling (asynq.ProcessIn) is the caller's concern.
func NewPipelineNotifyTask(event models.NotificationEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(PipelineNotifyPayload{Event: event})
	if err != nil {
		return nil, fmt.Errorf("marshal pipeline notify payload: %w", err)
	}
	return asynq.NewTask(TypePipelineNotify, payload), nil
}
