package services_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/models"
	"reviewhub/internal/services"
	"reviewhub/internal/store"
)

func newService(t *testing.T) (*services.ModerationService, *store.AssetStore) {
	t.Helper()
	st := store.NewAssetStore(4, 0, 0) // janitor disabled
	t.Cleanup(st.Close)
	return services.NewModerationService(st), st
}

func notification(assetID, notifType string, mutate func(*models.NotificationEvent)) models.NotificationEvent {
	ev := models.NotificationEvent{
		AssetID:          assetID,
		PublicID:         "reviews/clip",
		NotificationType: notifType,
	}
	if mutate != nil {
		mutate(&ev)
	}
	return ev
}

func query(assetID string) models.NotificationEvent {
	return models.NotificationEvent{
		AssetID:     assetID,
		PublicID:    "reviews/clip",
		CheckStatus: true,
	}
}

// successSequence is the full happy-path event set, one per sub-pipeline.
func successSequence(assetID string) []models.NotificationEvent {
	return []models.NotificationEvent{
		notification(assetID, models.NotificationModeration, func(e *models.NotificationEvent) {
			e.ModerationStatus = models.SubStateApproved
		}),
		notification(assetID, models.NotificationInfo, func(e *models.NotificationEvent) {
			e.InfoKind = models.InfoKindAutoChaptering
			e.InfoStatus = models.SubStateComplete
		}),
		notification(assetID, models.NotificationInfo, func(e *models.NotificationEvent) {
			e.InfoKind = models.InfoKindAutoTranscription
			e.InfoStatus = models.SubStateComplete
		}),
		notification(assetID, models.NotificationEager, nil),
	}
}

func TestHandleEvent_MissingAssetID(t *testing.T) {
	svc, st := newService(t)

	_, err := svc.HandleEvent(models.NotificationEvent{NotificationType: models.NotificationEager})
	require.ErrorIs(t, err, models.ErrMissingAssetID)
	assert.Equal(t, 0, st.Len(), "no record may be created for a malformed event")
}

func TestHandleEvent_NotificationReturnsNoReport(t *testing.T) {
	svc, _ := newService(t)

	report, err := svc.HandleEvent(notification("a1", models.NotificationEager, nil))
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestHandleEvent_QueryBeforeAnyNotification(t *testing.T) {
	svc, _ := newService(t)

	report, err := svc.HandleEvent(query("unseen"))
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, models.StatusPending, report.Status)
	assert.Equal(t, models.MsgProcessing, report.Message)
}

func TestHandleEvent_FullSuccessAnyOrder(t *testing.T) {
	// The derived status must depend only on the latest per-field values,
	// never on arrival order.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		svc, _ := newService(t)
		events := successSequence("a1")
		rng.Shuffle(len(events), func(a, b int) { events[a], events[b] = events[b], events[a] })

		for _, ev := range events {
			_, err := svc.HandleEvent(ev)
			require.NoError(t, err)
		}

		report, err := svc.HandleEvent(query("a1"))
		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, models.StatusApproved, report.Status)
		assert.Equal(t, "reviews/clip", report.PublicID)
		assert.True(t, report.AutoChaptering)
		assert.True(t, report.AutoTranscription)
		assert.True(t, report.EagerTransformationComplete)
	}
}

func TestHandleEvent_ApprovedQueryDeletesRecord(t *testing.T) {
	svc, st := newService(t)

	for _, ev := range successSequence("a1") {
		_, err := svc.HandleEvent(ev)
		require.NoError(t, err)
	}

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, report.Status)
	assert.Equal(t, 0, st.Len())

	// The approved report is one-shot: the record is gone, so an identical
	// repeat query starts a fresh pending record. Intended behavior, since
	// the frontend stops polling after the first approved report.
	repeat, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, repeat.Status)
}

func TestHandleEvent_RejectionIsSticky(t *testing.T) {
	svc, st := newService(t)

	_, err := svc.HandleEvent(notification("a1", models.NotificationModeration, func(e *models.NotificationEvent) {
		e.ModerationStatus = models.SubStateRejected
		e.ModerationKind = models.ModerationKindVideoContent
	}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		report, err := svc.HandleEvent(query("a1"))
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, report.Status)
		assert.Equal(t, models.MsgRejectedContent, report.Message)
	}
	assert.Equal(t, 1, st.Len(), "rejected records are retained")
}

func TestHandleEvent_RejectionKindSelectsMessage(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.HandleEvent(notification("a1", models.NotificationModerationSummary, func(e *models.NotificationEvent) {
		e.ModerationStatus = models.SubStateRejected
		e.ModerationKind = "perception_point"
	}))
	require.NoError(t, err)

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, report.Status)
	assert.Equal(t, models.MsgRejectedMalware, report.Message)
}

func TestHandleEvent_FailedSubPipelinesDoNotBlockApproval(t *testing.T) {
	svc, _ := newService(t)

	events := successSequence("a1")
	// Flip chaptering to failed; the pipeline explains failures in info_data.
	events[1].InfoStatus = models.SubStateFailed
	events[1].InfoData = "no chapters detected"

	for _, ev := range events {
		_, err := svc.HandleEvent(ev)
		require.NoError(t, err)
	}

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, report.Status)
	assert.False(t, report.AutoChaptering)
	assert.True(t, report.AutoTranscription)
}

func TestHandleEvent_EagerAloneStaysPending(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.HandleEvent(notification("a1", models.NotificationEager, nil))
	require.NoError(t, err)

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status)
}

func TestHandleEvent_ApprovedModerationWaitsForEager(t *testing.T) {
	svc, _ := newService(t)

	events := successSequence("a1")[:3] // everything except eager
	for _, ev := range events {
		_, err := svc.HandleEvent(ev)
		require.NoError(t, err)
	}

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status)
}

func TestHandleEvent_UnknownTypesAndKindsAreNoOps(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.HandleEvent(notification("a1", "upload", nil))
	require.NoError(t, err)
	_, err = svc.HandleEvent(notification("a1", models.NotificationInfo, func(e *models.NotificationEvent) {
		e.InfoKind = "auto_tagging"
		e.InfoStatus = models.SubStateComplete
	}))
	require.NoError(t, err)
	_, err = svc.HandleEvent(notification("a1", models.NotificationModeration, func(e *models.NotificationEvent) {
		e.ModerationStatus = "queued"
	}))
	require.NoError(t, err)

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status, "unknown events must not advance any sub-state")
}

func TestHandleEvent_LastWriteWins(t *testing.T) {
	svc, _ := newService(t)

	// A failed transcription followed by a retry that completes: the later
	// event overwrites the earlier one.
	_, err := svc.HandleEvent(notification("a1", models.NotificationInfo, func(e *models.NotificationEvent) {
		e.InfoKind = models.InfoKindAutoTranscription
		e.InfoStatus = models.SubStateFailed
		e.InfoData = "transient error"
	}))
	require.NoError(t, err)
	_, err = svc.HandleEvent(notification("a1", models.NotificationInfo, func(e *models.NotificationEvent) {
		e.InfoKind = models.InfoKindAutoTranscription
		e.InfoStatus = models.SubStateComplete
	}))
	require.NoError(t, err)

	for _, ev := range successSequence("a1")[:2] {
		_, err := svc.HandleEvent(ev)
		require.NoError(t, err)
	}
	_, err = svc.HandleEvent(notification("a1", models.NotificationEager, nil))
	require.NoError(t, err)

	report, err := svc.HandleEvent(query("a1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, report.Status)
	assert.True(t, report.AutoTranscription)
}
