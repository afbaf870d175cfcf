package main

import (
	"adherence-voice/internal/auth"
	"adherence-voice/internal/config"
	"adherence-voice/internal/httpapi"
	"adherence-voice/internal/telephony"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, cfg config.Config, gateway telephony.Gateway, authManager *auth.Manager) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider webhooks (signature-checked, never otherwise authenticated:
	// the provider is the only expected caller).
	voice := r.Group("/voice")
	if cfg.Twilio.ValidateSignature {
		voice.Use(telephony.RequireSignature(telephony.SignatureValidator{
			AuthToken:     cfg.Twilio.AuthToken,
			PublicBaseURL: cfg.App.PublicBaseURL,
		}))
	}
	{
		wh := telephony.WebhookHandler{
			Gateway: gateway,
			From:    cfg.Twilio.FromNumber,
			Routes: telephony.Routes{
				Response:   httpapi.PathVoiceResponse,
				NoResponse: httpapi.PathVoiceNoResponse,
			},
		}
		voice.POST("/outbound", wh.Outbound)
		voice.POST("/response", wh.Response)
		voice.POST("/no-response", wh.NoResponse)
		voice.POST("/inbound", wh.Inbound)
		voice.POST("/status", wh.Status)
	}

	// Operator API
	api := r.Group("/api")
	if authManager != nil {
		api.Use(auth.RequireToken(authManager))
	}
	{
		h := httpapi.Handlers{Gateway: gateway, Cfg: cfg}
		api.POST("/call", h.StartCall)
		api.GET("/logs", h.ListLogs)
	}
}
