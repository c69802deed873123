package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"reviewhub/internal/models"
	"reviewhub/internal/tasks"
)

var (
	simAssetID             string
	simPublicID            string
	simOutcome             string
	simRejectKind          string
	simChapteringFailed    bool
	simTranscriptionFailed bool
	simSpread              time.Duration
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Schedule a synthetic pipeline run for one asset",
	Long: `Enqueues the notification events the media pipeline would emit for one
uploaded video (moderation verdict, chaptering, transcription, eager
transformation) as delayed background tasks. A running worker delivers them
to the moderate endpoint, so the full webhook flow can be exercised without
the real pipeline reaching your machine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		if simOutcome != models.StatusApproved && simOutcome != models.StatusRejected {
			return fmt.Errorf("invalid --outcome %q: must be approved or rejected", simOutcome)
		}

		assetID := simAssetID
		if assetID == "" {
			assetID = uuid.NewString()
		}
		publicID := simPublicID
		if publicID == "" {
			suffix := assetID
			if len(suffix) > 8 {
				suffix = suffix[:8]
			}
			publicID = "reviews/" + suffix
		}

		events := buildScenario(assetID, publicID)

		for _, ev := range events {
			task, err := tasks.NewPipelineNotifyTask(ev.event)
			if err != nil {
				return err
			}
			if _, err := appInstance.JobClient.Enqueue(cmd.Context(), task, asynq.ProcessIn(ev.delay)); err != nil {
				return fmt.Errorf("enqueue %s event: %w", ev.event.NotificationType, err)
			}
			fmt.Printf("  %s %s in %s\n", color.CyanString("scheduled"), describeEvent(ev.event), ev.delay)
		}

		fmt.Printf("Simulated pipeline run for asset %s (public id %s)\n",
			color.GreenString(assetID), publicID)
		fmt.Printf("Track it with: reviewhub track %s %s\n", assetID, publicID)
		return nil
	},
}

type scheduledEvent struct {
	event models.NotificationEvent
	delay time.Duration
}

// buildScenario lays the events out across the spread, eager first the way
// the real pipeline usually resolves, moderation last so the poller stays
// pending for a while.
func buildScenario(assetID, publicID string) []scheduledEvent {
	base := models.NotificationEvent{AssetID: assetID, PublicID: publicID}

	eager := base
	eager.NotificationType = models.NotificationEager

	chaptering := base
	chaptering.NotificationType = models.NotificationInfo
	chaptering.InfoKind = models.InfoKindAutoChaptering
	chaptering.InfoStatus = models.SubStateComplete
	if simChapteringFailed {
		chaptering.InfoStatus = models.SubStateFailed
		chaptering.InfoData = "Chaptering failed: no distinct scenes detected"
	}

	transcription := base
	transcription.NotificationType = models.NotificationInfo
	transcription.InfoKind = models.InfoKindAutoTranscription
	transcription.InfoStatus = models.SubStateComplete
	if simTranscriptionFailed {
		transcription.InfoStatus = models.SubStateFailed
		transcription.InfoData = "Transcription failed: no speech detected"
	}

	moderation := base
	moderation.NotificationType = models.NotificationModeration
	moderation.ModerationStatus = models.SubStateApproved
	if simOutcome == models.StatusRejected {
		moderation.ModerationStatus = models.SubStateRejected
		moderation.ModerationKind = simRejectKind
	}

	return []scheduledEvent{
		{eager, simSpread / 4},
		{chaptering, simSpread / 2},
		{transcription, simSpread * 3 / 4},
		{moderation, simSpread},
	}
}

func describeEvent(ev models.NotificationEvent) string {
	switch ev.NotificationType {
	case models.NotificationInfo:
		return fmt.Sprintf("%s/%s=%s", ev.NotificationType, ev.InfoKind, ev.InfoStatus)
	case models.NotificationModeration, models.NotificationModerationSummary:
		return fmt.Sprintf("%s=%s", ev.NotificationType, ev.ModerationStatus)
	default:
		return ev.NotificationType
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simAssetID, "asset-id", "", "Asset id to simulate (random if empty)")
	simulateCmd.Flags().StringVar(&simPublicID, "public-id", "", "Public id for playback (derived if empty)")
	simulateCmd.Flags().StringVar(&simOutcome, "outcome", models.StatusApproved, "Moderation outcome: approved or rejected")
	simulateCmd.Flags().StringVar(&simRejectKind, "reject-kind", models.ModerationKindVideoContent, "Moderation kind on rejection (content scanner or anything else for malware)")
	simulateCmd.Flags().BoolVar(&simChapteringFailed, "chaptering-failed", false, "Report auto chaptering as failed")
	simulateCmd.Flags().BoolVar(&simTranscriptionFailed, "transcription-failed", false, "Report auto transcription as failed")
	simulateCmd.Flags().DurationVar(&simSpread, "spread", 20*time.Second, "Window over which the events arrive")
}
