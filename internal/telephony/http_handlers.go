package telephony

import (
	"log/slog"
	"net/http"

	"adherence-voice/internal/callflow"
	"adherence-voice/pkg/logger"

	"github.com/gin-gonic/gin"
)

const contentTypeXML = "application/xml"

// WebhookHandler answers the provider's call-progress webhooks.
//
// Every voice endpoint responds 200 with well-formed TwiML no matter what
// went wrong internally: an error status would leave the live call in an
// undefined state on the provider side, so failures collapse to the fixed
// apology document instead.
type WebhookHandler struct {
	// Gateway executes the SMS side effect of status events.
	Gateway Gateway

	// From is the provider-assigned sending number for fallback SMS.
	From string

	// Routes are the callback paths rendered into gather/redirect verbs.
	Routes Routes
}

// Outbound handles the first webhook of an outbound call, fired when the
// call is answered and machine detection has a verdict.
func (h WebhookHandler) Outbound(c *gin.Context) {
	h.voice(c, callflow.KindOutboundInitiated)
}

// Response handles the gather result after the patient spoke (or stayed silent
// long enough for the gather to complete without input).
func (h WebhookHandler) Response(c *gin.Context) {
	h.voice(c, callflow.KindSpeechCaptured)
}

// NoResponse handles the redirect taken when the gather timed out.
func (h WebhookHandler) NoResponse(c *gin.Context) {
	h.voice(c, callflow.KindNoResponseTimeout)
}

// Inbound handles a patient calling the service back.
func (h WebhookHandler) Inbound(c *gin.Context) {
	h.voice(c, callflow.KindInboundReceived)
}

func (h WebhookHandler) voice(c *gin.Context, kind callflow.EventKind) {
	log := logger.FromGin(c)

	form, err := ParseVoiceForm(c.Request)
	if err != nil {
		log.Error("voice webhook parse failed", "kind", kind, "err", err)
		c.Data(http.StatusOK, contentTypeXML, []byte(DegradedTwiML()))
		return
	}

	ev := form.Event(kind)
	if kind == callflow.KindSpeechCaptured && ev.SpeechText == "" {
		log.Info("no speech detected", "call_sid", ev.CallID)
	}

	action := decideContained(ev, log)

	twiml, err := RenderTwiML(action, h.Routes)
	if err != nil {
		log.Error("twiml render failed", "call_sid", ev.CallID, "reason", action.Reason, "err", err)
		twiml = DegradedTwiML()
	}

	log.Info("voice webhook handled",
		"kind", kind,
		"call_sid", ev.CallID,
		"answered_by", ev.AnsweredBy,
		"reason", action.Reason,
	)
	c.Data(http.StatusOK, contentTypeXML, []byte(twiml))
}

// Status handles call status transitions. It executes any SMS side effect
// and always acknowledges 200; the provider retries nothing we reject and a
// duplicate delivery decides the same action again (the engine is pure).
func (h WebhookHandler) Status(c *gin.Context) {
	log := logger.FromGin(c)

	form, err := ParseStatusForm(c.Request)
	if err != nil {
		log.Error("status webhook parse failed", "err", err)
		c.Status(http.StatusOK)
		return
	}

	ev := form.Event()
	action := decideContained(ev, log)

	if action.SMS != nil {
		if h.Gateway == nil {
			log.Error("sms fallback skipped, gateway not configured", "call_sid", ev.CallID)
		} else if _, err := h.Gateway.SendSMS(c.Request.Context(), SendSMSRequest{
			To:   action.SMS.To,
			From: h.From,
			Body: action.SMS.Body,
		}); err != nil {
			log.Error("sms fallback failed", "call_sid", ev.CallID, "to", action.SMS.To, "err", err)
		} else {
			log.Info("sms fallback sent", "call_sid", ev.CallID, "to", action.SMS.To, "status", ev.Status)
		}
	}

	log.Info("status webhook handled", "call_sid", ev.CallID, "status", ev.Status, "reason", action.Reason)
	c.Status(http.StatusOK)
}

// decideContained wraps the engine so a panic can never escape to the
// provider; it degrades to the apology action instead.
func decideContained(ev callflow.Event, log *slog.Logger) (a callflow.Action) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("decision failed", "call_sid", ev.CallID, "kind", ev.Kind, "panic", r)
			a = callflow.Degraded()
		}
	}()
	return callflow.Decide(ev)
}
