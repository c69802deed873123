package tests

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/apihandlers"
	"reviewhub/internal/app"
	"reviewhub/internal/models"
	"reviewhub/internal/pipeline"
	"reviewhub/internal/poller"
	"reviewhub/internal/reviews"
	"reviewhub/internal/services"
	"reviewhub/internal/store"
)

// startServer brings up the moderate endpoint on an httptest server, the same
// wiring the serve command does.
func startServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewAssetStore(8, time.Hour, 0)
	t.Cleanup(st.Close)

	handler := apihandlers.NewAPIHandler(&app.App{
		AssetStore:        st,
		ModerationService: services.NewModerationService(st),
	})

	router := gin.New()
	router.POST("/api/v1/moderate", handler.ModerateHandler)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1/moderate"
}

// TestVideoReviewApprovedFlow walks the whole happy path: upload registered,
// webhooks trickle in while the poller waits, review resolves approved.
func TestVideoReviewApprovedFlow(t *testing.T) {
	endpoint := startServer(t)
	client := pipeline.NewClient(endpoint)
	ctx := context.Background()

	list := reviews.NewList()
	list.AddVideo("asset-1", "reviews/unboxing", "love it")

	p := poller.New(client, list, 5*time.Millisecond, time.Second)
	done := p.Track(ctx, "asset-1", "reviews/unboxing")

	// Let at least one poll observe pending before any webhook lands.
	time.Sleep(10 * time.Millisecond)
	entry, ok := list.Get("asset-1")
	require.True(t, ok)
	assert.Equal(t, models.ReviewProcessing, entry.Status)

	webhooks := []models.NotificationEvent{
		{AssetID: "asset-1", NotificationType: models.NotificationEager},
		{AssetID: "asset-1", NotificationType: models.NotificationInfo,
			InfoKind: models.InfoKindAutoChaptering, InfoStatus: models.SubStateComplete},
		{AssetID: "asset-1", NotificationType: models.NotificationInfo,
			InfoKind: models.InfoKindAutoTranscription, InfoStatus: models.SubStateFailed, InfoData: "no speech"},
		{AssetID: "asset-1", NotificationType: models.NotificationModeration,
			ModerationStatus: models.SubStateApproved},
	}
	for _, ev := range webhooks {
		require.NoError(t, client.Notify(ctx, ev))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not resolve")
	}

	entry, ok = list.Get("asset-1")
	require.True(t, ok)
	assert.Equal(t, models.ReviewApproved, entry.Status)
	assert.True(t, entry.AutoChaptering)
	assert.False(t, entry.AutoTranscription, "failed transcription is surfaced, not gating")
	assert.True(t, entry.EagerTransformationComplete)
}

func TestVideoReviewRejectedFlow(t *testing.T) {
	endpoint := startServer(t)
	client := pipeline.NewClient(endpoint)
	ctx := context.Background()

	list := reviews.NewList()
	list.AddVideo("asset-2", "reviews/clip", "")

	require.NoError(t, client.Notify(ctx, models.NotificationEvent{
		AssetID:          "asset-2",
		NotificationType: models.NotificationModeration,
		ModerationStatus: models.SubStateRejected,
		ModerationKind:   models.ModerationKindVideoContent,
	}))

	p := poller.New(client, list, 5*time.Millisecond, time.Second)
	<-p.Track(ctx, "asset-2", "reviews/clip")

	entry, ok := list.Get("asset-2")
	require.True(t, ok)
	assert.Equal(t, models.ReviewRejected, entry.Status)
	assert.Equal(t, models.MsgRejectedContent, entry.RejectionReason)
}

// TestPollerTimeoutFlow: a pipeline that never finishes forces the synthetic
// timeout rejection on the client.
func TestPollerTimeoutFlow(t *testing.T) {
	endpoint := startServer(t)
	client := pipeline.NewClient(endpoint)

	list := reviews.NewList()
	list.AddVideo("asset-3", "reviews/clip", "")

	// Only the eager transform ever arrives; moderation stays pending.
	require.NoError(t, client.Notify(context.Background(), models.NotificationEvent{
		AssetID:          "asset-3",
		NotificationType: models.NotificationEager,
	}))

	p := poller.New(client, list, 5*time.Millisecond, 30*time.Millisecond)
	<-p.Track(context.Background(), "asset-3", "reviews/clip")

	entry, ok := list.Get("asset-3")
	require.True(t, ok)
	assert.Equal(t, models.ReviewRejected, entry.Status)
	assert.Equal(t, models.MsgProcessingTimeout, entry.RejectionReason)
}
