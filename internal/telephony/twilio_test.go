package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *TwilioGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := NewTwilioGateway(TwilioOptions{
		AccountSID: "AC123",
		AuthToken:  "token",
		BaseURL:    srv.URL,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return gw
}

func TestNewTwilioGatewayRequiresCredentials(t *testing.T) {
	if _, err := NewTwilioGateway(TwilioOptions{AuthToken: "t"}); err == nil {
		t.Fatalf("expected error without account sid")
	}
	if _, err := NewTwilioGateway(TwilioOptions{AccountSID: "AC1"}); err == nil {
		t.Fatalf("expected error without auth token")
	}
}

func TestPlaceCall(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/Calls.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("missing basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("MachineDetection") != "Enable" {
			t.Errorf("expected machine detection, got %q", r.PostForm.Get("MachineDetection"))
		}
		if r.PostForm.Get("Record") != "true" {
			t.Errorf("expected recording enabled")
		}
		if got := r.PostForm["StatusCallbackEvent"]; len(got) != 4 {
			t.Errorf("expected 4 status callback events, got %v", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"sid": "CA999", "status": "queued", "to": r.PostForm.Get("To")})
	})

	rec, err := gw.PlaceCall(context.Background(), PlaceCallRequest{
		To:                   "+15551234567",
		From:                 "+15550001111",
		VoiceURL:             "https://app.example.com/voice/outbound",
		StatusCallback:       "https://app.example.com/voice/status",
		StatusCallbackEvents: []string{"initiated", "ringing", "answered", "completed"},
		MachineDetection:     "Enable",
		Record:               true,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.SID != "CA999" {
		t.Fatalf("unexpected sid: %q", rec.SID)
	}
}

func TestPlaceCallAPIError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 21211, "message": "Invalid 'To' Phone Number", "status": 400})
	})

	_, err := gw.PlaceCall(context.Background(), PlaceCallRequest{To: "bad"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != 21211 {
		t.Fatalf("unexpected code: %d", apiErr.Code)
	}
}

func TestSendSMS(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = r.ParseForm()
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sid": "SM1", "to": r.PostForm.Get("To"), "from": r.PostForm.Get("From"), "status": "queued",
		})
	})

	msg, err := gw.SendSMS(context.Background(), SendSMSRequest{To: "+15551234567", From: "+15550001111", Body: "hi"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.SID != "SM1" || msg.Status != "queued" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestListCalls(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("PageSize"); got != "50" {
			t.Errorf("expected PageSize=50, got %q", got)
		}
		if got := r.URL.Query().Get("Status"); got != "completed" {
			t.Errorf("expected Status=completed, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"calls": []map[string]any{
				{
					"sid": "CA1", "to": "+15551234567", "from": "+15550001111",
					"status": "completed", "direction": "outbound-api", "duration": "42",
					"start_time":       "Mon, 01 Sep 2025 10:00:00 +0000",
					"subresource_uris": map[string]string{"recordings": "/2010-04-01/Accounts/AC123/Calls/CA1/Recordings.json"},
				},
			},
		})
	})

	records, err := gw.ListCalls(context.Background(), ListCallsRequest{Status: "completed", Limit: 50})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	r := records[0]
	if r.Duration != 42 {
		t.Fatalf("expected duration 42, got %d", r.Duration)
	}
	if r.StartedAt.IsZero() {
		t.Fatalf("expected parsed start time")
	}
	if r.RecordingURL == "" {
		t.Fatalf("expected recording url")
	}
}
