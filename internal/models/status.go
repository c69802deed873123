package models

/*
Status and notification constants for the media pipeline integration.
Centralizing these avoids magic strings and improves maintainability.
*/

// Sub-state statuses as reported by the pipeline per sub-pipeline.
const (
	SubStatePending  = "pending"
	SubStateApproved = "approved"
	SubStateRejected = "rejected"
	SubStateComplete = "complete"
	SubStateFailed   = "failed"
)

// Notification types delivered on the webhook.
// moderation_summary carries the same payload shape as moderation and is
// treated identically.
const (
	NotificationModeration        = "moderation"
	NotificationModerationSummary = "moderation_summary"
	NotificationInfo              = "info"
	NotificationEager             = "eager"
)

// Info kinds for the "info" notification type.
const (
	InfoKindAutoChaptering    = "auto_chaptering"
	InfoKindAutoTranscription = "auto_transcription"
)

// ModerationKindVideoContent is the content-scanning moderation add-on; any
// other kind reaching a rejection is the malware scanner.
const ModerationKindVideoContent = "aws_rek_video"

// Overall derived statuses returned to the poller.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review entry statuses (client side).
const (
	ReviewProcessing = "processing"
	ReviewApproved   = "approved"
	ReviewRejected   = "rejected"
)

// User-facing messages. The webhook payloads never carry these; they are
// authored here so the frontend shows consistent copy.
const (
	MsgProcessing            = "Processing in progress"
	MsgVideoApproved         = "Video approved"
	MsgRejectedContent       = "Your video was rejected due to unsuitable content"
	MsgRejectedMalware       = "Your video was rejected due to potential malware"
	MsgChapteringCompleted   = "Chaptering completed"
	MsgTranscriptionComplete = "Transcription completed"
	MsgEagerCompleted        = "Eager transformation completed"
	MsgProcessingTimeout     = "Processing timeout reached"
)
