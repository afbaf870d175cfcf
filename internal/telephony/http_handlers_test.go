package telephony

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubGateway struct {
	smsSent []SendSMSRequest
	smsErr  error
}

func (s *stubGateway) Name() string { return "stub" }

func (s *stubGateway) PlaceCall(ctx context.Context, req PlaceCallRequest) (CallRecord, error) {
	return CallRecord{SID: "CAstub"}, nil
}

func (s *stubGateway) SendSMS(ctx context.Context, req SendSMSRequest) (MessageRecord, error) {
	if s.smsErr != nil {
		return MessageRecord{}, s.smsErr
	}
	s.smsSent = append(s.smsSent, req)
	return MessageRecord{SID: "SMstub", To: req.To, From: req.From, Status: "queued"}, nil
}

func (s *stubGateway) ListCalls(ctx context.Context, req ListCallsRequest) ([]CallRecord, error) {
	return nil, nil
}

func webhookRouter(gw Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := WebhookHandler{
		Gateway: gw,
		From:    "+15550001111",
		Routes:  testRoutes,
	}
	r := gin.New()
	r.POST("/voice/outbound", h.Outbound)
	r.POST("/voice/response", h.Response)
	r.POST("/voice/no-response", h.NoResponse)
	r.POST("/voice/inbound", h.Inbound)
	r.POST("/voice/status", h.Status)
	return r
}

func postForm(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOutboundWebhookMachine(t *testing.T) {
	r := webhookRouter(&stubGateway{})
	w := postForm(r, "/voice/outbound", "CallSid=CA1&AnsweredBy=machine_end_beep")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Hangup") || strings.Contains(body, "<Gather") {
		t.Fatalf("expected voicemail twiml, got: %s", body)
	}
}

func TestOutboundWebhookHuman(t *testing.T) {
	r := webhookRouter(&stubGateway{})
	w := postForm(r, "/voice/outbound", "CallSid=CA1&AnsweredBy=human")

	body := w.Body.String()
	if !strings.Contains(body, `<Gather input="speech"`) {
		t.Fatalf("expected gather twiml, got: %s", body)
	}
	if !strings.Contains(body, "/voice/no-response") {
		t.Fatalf("expected no-response redirect, got: %s", body)
	}
}

func TestResponseWebhookWithoutSpeechStillThanks(t *testing.T) {
	r := webhookRouter(&stubGateway{})
	w := postForm(r, "/voice/response", "CallSid=CA1")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Thank you") {
		t.Fatalf("expected thank-you twiml, got: %s", w.Body.String())
	}
}

func TestVoiceWebhookRenderFailureReturnsDegraded200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Break the routes so rendering a listen action must fail.
	h := WebhookHandler{Gateway: &stubGateway{}, From: "+15550001111", Routes: Routes{}}
	r := gin.New()
	r.POST("/voice/outbound", h.Outbound)

	w := postForm(r, "/voice/outbound", "CallSid=CA1&AnsweredBy=human")
	if w.Code != http.StatusOK {
		t.Fatalf("provider must get 200 even on failure, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "technical difficulties") {
		t.Fatalf("expected degraded twiml, got: %s", w.Body.String())
	}
}

func TestStatusWebhookSendsFallbackSMS(t *testing.T) {
	gw := &stubGateway{}
	r := webhookRouter(gw)

	w := postForm(r, "/voice/status", "CallSid=CA5&CallStatus=no-answer&To=%2B15551234567")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(gw.smsSent) != 1 {
		t.Fatalf("expected one sms, got %d", len(gw.smsSent))
	}
	sms := gw.smsSent[0]
	if sms.To != "+15551234567" || sms.From != "+15550001111" {
		t.Fatalf("unexpected sms addressing: %+v", sms)
	}
	if !strings.Contains(sms.Body, "Medication reminder") {
		t.Fatalf("unexpected sms body: %q", sms.Body)
	}
}

func TestStatusWebhookCompletedNoSMS(t *testing.T) {
	gw := &stubGateway{}
	r := webhookRouter(gw)

	w := postForm(r, "/voice/status", "CallSid=CA5&CallStatus=completed&To=%2B15551234567")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(gw.smsSent) != 0 {
		t.Fatalf("expected no sms, got %d", len(gw.smsSent))
	}
}

func TestStatusWebhookSMSFailureStillAcknowledges(t *testing.T) {
	gw := &stubGateway{smsErr: errors.New("provider down")}
	r := webhookRouter(gw)

	w := postForm(r, "/voice/status", "CallSid=CA5&CallStatus=busy&To=%2B15551234567")
	if w.Code != http.StatusOK {
		t.Fatalf("sms failure must not fail the webhook, got %d", w.Code)
	}
}
