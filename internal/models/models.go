package models

import (
	"time"
)

// NotificationEvent is the JSON envelope accepted by the moderate endpoint.
// It covers both webhook deliveries from the pipeline and status queries from
// the frontend poller (CheckStatus=true). Fields beyond AssetID and
// NotificationType are type-specific and may be empty.
type NotificationEvent struct {
	AssetID          string `json:"asset_id"`
	PublicID         string `json:"public_id"`
	NotificationType string `json:"notification_type,omitempty"`

	ModerationStatus string `json:"moderation_status,omitempty"`
	ModerationKind   string `json:"moderation_kind,omitempty"`

	InfoKind   string `json:"info_kind,omitempty"`
	InfoStatus string `json:"info_status,omitempty"`
	InfoData   string `json:"info_data,omitempty"`

	CheckStatus bool `json:"checkStatus,omitempty"`
}

// SubState is one independently progressing sub-pipeline of an asset.
// Updates are last-write-wins; the pipeline gives no ordering guarantee.
type SubState struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AssetProcessingRecord aggregates the partial results received so far for a
// single asset. The overall verdict is never stored here; it is derived from
// the four sub-states at query time.
type AssetProcessingRecord struct {
	Moderation          SubState  `json:"moderation"`
	AutoChaptering      SubState  `json:"autoChaptering"`
	AutoTranscription   SubState  `json:"autoTranscription"`
	EagerTransformation SubState  `json:"eagerTransformation"`
	UpdatedAt           time.Time `json:"-"`
}

// NewAssetProcessingRecord returns a record with all sub-states pending.
func NewAssetProcessingRecord() *AssetProcessingRecord {
	return &AssetProcessingRecord{
		Moderation:          SubState{Status: SubStatePending},
		AutoChaptering:      SubState{Status: SubStatePending},
		AutoTranscription:   SubState{Status: SubStatePending},
		EagerTransformation: SubState{Status: SubStatePending},
	}
}

// StatusReport is the derived overall status returned to a checkStatus query.
type StatusReport struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	PublicID string `json:"publicId,omitempty"`

	// Only meaningful when Status is approved. Chaptering and transcription
	// may individually fail without blocking approval.
	AutoChaptering              bool `json:"autoChaptering,omitempty"`
	AutoTranscription           bool `json:"autoTranscription,omitempty"`
	EagerTransformationComplete bool `json:"eagerTransformationComplete,omitempty"`
}

// ReviewEntry is a product review as held by the client while it resolves.
// Video reviews are keyed by the pipeline asset id and start processing; text
// reviews are approved on submit. Entries are never persisted.
type ReviewEntry struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	PublicID        string    `json:"videoUrl,omitempty"`
	Date            time.Time `json:"date"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`

	AutoChaptering              bool `json:"autoChaptering,omitempty"`
	AutoTranscription           bool `json:"autoTranscription,omitempty"`
	EagerTransformationComplete bool `json:"eagerTransformationComplete,omitempty"`
}

// HasVideo reports whether the entry references an uploaded asset.
func (r *ReviewEntry) HasVideo() bool {
	return r.PublicID != ""
}
