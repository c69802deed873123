package services

import (
	log "github.com/sirupsen/logrus"

	"reviewhub/internal/models"
	"reviewhub/internal/store"
)

// ModerationService owns the webhook aggregation logic: it folds the
// unordered notification events emitted by the media pipeline into per-asset
// records and derives the overall pending/approved/rejected verdict when the
// frontend asks for it.
type ModerationService struct {
	store store.AssetRecordStore
}

func NewModerationService(st store.AssetRecordStore) *ModerationService {
	return &ModerationService{store: st}
}

// HandleEvent processes one event from the moderate endpoint. For a plain
// webhook notification it returns (nil, nil): the record was updated and the
// caller only acknowledges receipt. For a checkStatus query it returns the
// derived StatusReport.
//
// Both paths run under the asset's lock, so a query racing a webhook for the
// same asset observes either none or all of that webhook's update.
func (s *ModerationService) HandleEvent(event models.NotificationEvent) (*models.StatusReport, error) {
	if event.AssetID == "" {
		return nil, models.ErrMissingAssetID
	}

	var report *models.StatusReport
	s.store.Update(event.AssetID, func(rec *models.AssetProcessingRecord) bool {
		applyEvent(rec, event)
		if !event.CheckStatus {
			return false
		}
		r := deriveStatus(rec, event.PublicID)
		report = &r
		// Approved reports are final and the frontend stops polling, so the
		// record is dropped. Rejections are kept: repeated queries keep
		// returning the rejection until the TTL janitor collects the record.
		return r.Status == models.StatusApproved
	})

	if report != nil {
		log.WithFields(log.Fields{
			"asset_id": event.AssetID,
			"status":   report.Status,
		}).Debug("derived asset status")
	}
	return report, nil
}

// applyEvent merges one notification into the record, last write wins.
// Unknown notification types, kinds and statuses are deliberately ignored:
// the pipeline adds event types over time and old deployments must not choke
// on them.
func applyEvent(rec *models.AssetProcessingRecord, event models.NotificationEvent) {
	switch event.NotificationType {
	case models.NotificationModeration, models.NotificationModerationSummary:
		switch event.ModerationStatus {
		case models.SubStateRejected:
			rec.Moderation = models.SubState{
				Status:  models.SubStateRejected,
				Message: rejectionMessage(event.ModerationKind),
			}
		case models.SubStateApproved:
			rec.Moderation = models.SubState{
				Status:  models.SubStateApproved,
				Message: models.MsgVideoApproved,
			}
		}
	case models.NotificationInfo:
		switch event.InfoKind {
		case models.InfoKindAutoChaptering:
			rec.AutoChaptering = infoSubState(event, models.MsgChapteringCompleted)
		case models.InfoKindAutoTranscription:
			rec.AutoTranscription = infoSubState(event, models.MsgTranscriptionComplete)
		}
	case models.NotificationEager:
		rec.EagerTransformation = models.SubState{
			Status:  models.SubStateComplete,
			Message: models.MsgEagerCompleted,
		}
	}
}

func rejectionMessage(moderationKind string) string {
	if moderationKind == models.ModerationKindVideoContent {
		return models.MsgRejectedContent
	}
	return models.MsgRejectedMalware
}

func infoSubState(event models.NotificationEvent, completedMsg string) models.SubState {
	msg := completedMsg
	if event.InfoStatus == models.SubStateFailed {
		// The pipeline explains sub-pipeline failures in info_data; pass it
		// through verbatim.
		msg = event.InfoData
	}
	return models.SubState{Status: event.InfoStatus, Message: msg}
}

// deriveStatus computes the overall verdict from the four sub-states.
// Moderation and the eager transformation gate approval; chaptering and
// transcription may fail without blocking it and are surfaced as booleans.
func deriveStatus(rec *models.AssetProcessingRecord, publicID string) models.StatusReport {
	if rec.Moderation.Status == models.SubStateRejected {
		return models.StatusReport{
			Status:  models.StatusRejected,
			Message: rec.Moderation.Message,
		}
	}

	if rec.Moderation.Status == models.SubStateApproved &&
		settled(rec.AutoChaptering) &&
		settled(rec.AutoTranscription) &&
		rec.EagerTransformation.Status == models.SubStateComplete {
		return models.StatusReport{
			Status:                      models.StatusApproved,
			PublicID:                    publicID,
			AutoChaptering:              rec.AutoChaptering.Status == models.SubStateComplete,
			AutoTranscription:           rec.AutoTranscription.Status == models.SubStateComplete,
			EagerTransformationComplete: true,
		}
	}

	return models.StatusReport{
		Status:  models.StatusPending,
		Message: models.MsgProcessing,
	}
}

// settled reports whether an optional sub-pipeline has reached a terminal
// state, successful or not.
func settled(st models.SubState) bool {
	return st.Status == models.SubStateComplete || st.Status == models.SubStateFailed
}
