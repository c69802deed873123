package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"reviewhub/internal/app"
	"reviewhub/internal/models"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(appInstance *app.App) *APIHandler {
	return &APIHandler{App: appInstance}
}

// ModerateHandler is the single endpoint shared by the media pipeline and the
// frontend poller. Webhook deliveries update the asset's record and are
// acknowledged with {"success": true}; queries (checkStatus=true) additionally
// derive and return the overall status.
func (h *APIHandler) ModerateHandler(c *gin.Context) {
	var event models.NotificationEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	log.WithFields(log.Fields{
		"asset_id":          event.AssetID,
		"notification_type": event.NotificationType,
		"check_status":      event.CheckStatus,
	}).Info("received moderate event")

	report, err := h.App.ModerationService.HandleEvent(event)
	if err != nil {
		if errors.Is(err, models.ErrMissingAssetID) {
			BadRequest(c, "asset_id is required")
			return
		}
		Internal(c, "ModerateHandler: failed to handle event: "+err.Error())
		return
	}

	if report == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	switch report.Status {
	case models.StatusApproved:
		c.JSON(http.StatusOK, gin.H{
			"status":                      report.Status,
			"publicId":                    report.PublicID,
			"autoChaptering":              report.AutoChaptering,
			"autoTranscription":           report.AutoTranscription,
			"eagerTransformationComplete": report.EagerTransformationComplete,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":  report.Status,
			"message": report.Message,
		})
	}
}
