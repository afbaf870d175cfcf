package httpapi

import (
	"net/http"
	"time"

	"adherence-voice/internal/config"
	"adherence-voice/internal/phone"
	"adherence-voice/internal/telephony"
	"adherence-voice/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxLogRecords caps how many call records one /api/logs request returns.
const maxLogRecords = 50

// Voice webhook paths, shared with route registration and TwiML rendering.
const (
	PathVoiceOutbound   = "/voice/outbound"
	PathVoiceResponse   = "/voice/response"
	PathVoiceNoResponse = "/voice/no-response"
	PathVoiceInbound    = "/voice/inbound"
	PathVoiceStatus     = "/voice/status"
)

// statusCallbackEvents are the call transitions the gateway reports back.
var statusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}

// Handlers groups the operator-facing HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call the gateway, return JSON.
type Handlers struct {
	Gateway telephony.Gateway
	Cfg     config.Config
}

type startCallRequest struct {
	DestinationNumber string `json:"destinationNumber"`
}

// StartCall validates the destination and asks the gateway to place a
// reminder call driven by the /voice webhooks.
func (h Handlers) StartCall(c *gin.Context) {
	log := logger.FromGin(c)

	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json body"})
		return
	}
	if !phone.Valid(req.DestinationNumber) {
		// Bad input, not a failure; do not log as an error and never touch
		// the gateway.
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid destination number: " + phone.RequiredFormat,
		})
		return
	}

	rec, err := h.Gateway.PlaceCall(c.Request.Context(), telephony.PlaceCallRequest{
		To:                   req.DestinationNumber,
		From:                 h.Cfg.Twilio.FromNumber,
		VoiceURL:             h.Cfg.WebhookURL(PathVoiceOutbound),
		StatusCallback:       h.Cfg.WebhookURL(PathVoiceStatus),
		StatusCallbackEvents: statusCallbackEvents,
		MachineDetection:     "Enable",
		Record:               true,
	})
	if err != nil {
		log.Error("call placement failed", "to", req.DestinationNumber, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	log.Info("call placed", "call_sid", rec.SID, "to", req.DestinationNumber)
	c.JSON(http.StatusOK, gin.H{"success": true, "callId": rec.SID})
}

type callLog struct {
	ID           string `json:"id"`
	To           string `json:"to"`
	From         string `json:"from"`
	Status       string `json:"status"`
	Duration     int    `json:"duration"`
	Timestamp    string `json:"timestamp,omitempty"`
	RecordingURL string `json:"recordingUrl,omitempty"`
	Direction    string `json:"direction"`
}

// ListLogs proxies a recent-calls query to the gateway.
func (h Handlers) ListLogs(c *gin.Context) {
	log := logger.FromGin(c)

	records, err := h.Gateway.ListCalls(c.Request.Context(), telephony.ListCallsRequest{
		Status: c.Query("status"),
		Limit:  maxLogRecords,
	})
	if err != nil {
		log.Error("call list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	out := make([]callLog, 0, len(records))
	for _, r := range records {
		entry := callLog{
			ID:           r.SID,
			To:           r.To,
			From:         r.From,
			Status:       r.Status,
			Duration:     r.Duration,
			RecordingURL: r.RecordingURL,
			Direction:    r.Direction,
		}
		if !r.StartedAt.IsZero() {
			entry.Timestamp = r.StartedAt.Format(time.RFC3339)
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "calls": out})
}
