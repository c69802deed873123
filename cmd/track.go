package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"reviewhub/internal/models"
	"reviewhub/internal/pipeline"
	"reviewhub/internal/poller"
	"reviewhub/internal/reviews"
)

var trackText string

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track <asset-id> <public-id>",
	Short: "Poll an uploaded asset until it resolves",
	Long: `Registers a review entry for an uploaded video and polls the moderate
endpoint the way the review page does: every few seconds until the asset is
approved or rejected, or the waiting ceiling is reached. With no arguments
and --text set, submits a text-only review instead.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		list := reviews.NewList()

		if len(args) == 0 {
			if trackText == "" {
				return fmt.Errorf("provide <asset-id> <public-id> for a video review or --text for a text review")
			}
			list.AddText(trackText)
			renderReviews(list)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("expected <asset-id> <public-id>")
		}

		assetID, publicID := args[0], args[1]
		entry := list.AddVideo(assetID, publicID, trackText)
		fmt.Printf("Tracking asset %s (review %s)\n", color.CyanString(assetID), entry.ID)

		cfg := appInstance.Config
		client := pipeline.NewClient(cfg.Pipeline.WebhookURL)
		p := poller.New(client, list, cfg.Poller.Interval, cfg.Poller.Timeout)

		// Ctrl-C is the CLI's "component unmount": cancel the poll chain and
		// leave the entry as it was.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-p.Track(ctx, assetID, publicID)

		renderReviews(list)
		return nil
	},
}

func renderReviews(list *reviews.List) {
	entries := list.Entries()
	if len(entries) == 0 {
		fmt.Println("No reviews.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Status", "Video", "Chapters", "Transcript", "Detail"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		detail := e.Text
		if e.RejectionReason != "" {
			detail = e.RejectionReason
		}
		table.Append([]string{
			e.ID,
			colorStatus(e.Status),
			e.PublicID,
			yesNo(e.AutoChaptering),
			yesNo(e.AutoTranscription),
			detail,
		})
	}
	table.Render()
}

func colorStatus(status string) string {
	switch status {
	case models.ReviewApproved:
		return color.GreenString(status)
	case models.ReviewRejected:
		return color.RedString(status)
	default:
		return color.YellowString(status)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringVar(&trackText, "text", "", "Review text to attach")
}
