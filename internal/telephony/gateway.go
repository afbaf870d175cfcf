package telephony

import (
	"context"
	"time"
)

// Gateway defines the provider-agnostic telephony surface used by handlers.
//
// Rules:
// - No provider SDK or REST calls outside telephony adapters.
// - Each call is a single bounded request: no local retry, no backoff.
//   A failed call surfaces immediately to the caller.
// - Keep request/response types provider-agnostic.
type Gateway interface {
	Name() string

	// PlaceCall asks the provider to dial an outbound call that will drive
	// its progress through this service's voice webhooks.
	PlaceCall(ctx context.Context, req PlaceCallRequest) (CallRecord, error)

	// SendSMS delivers a single text message.
	SendSMS(ctx context.Context, req SendSMSRequest) (MessageRecord, error)

	// ListCalls fetches recent call records from the provider's own store.
	ListCalls(ctx context.Context, req ListCallsRequest) ([]CallRecord, error)
}

// PlaceCallRequest carries everything the provider needs to start a call.
type PlaceCallRequest struct {
	// To and From are E.164 numbers.
	To   string `json:"to"`
	From string `json:"from"`

	// VoiceURL is invoked by the provider when the call is answered.
	VoiceURL string `json:"voice_url"`

	// StatusCallback receives call status transitions for the subscribed events.
	StatusCallback       string   `json:"status_callback"`
	StatusCallbackEvents []string `json:"status_callback_events,omitempty"`

	// MachineDetection asks the provider to classify who answered.
	// Twilio accepts "Enable" or "DetectMessageEnd".
	MachineDetection string `json:"machine_detection,omitempty"`

	Record bool `json:"record,omitempty"`
}

type SendSMSRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

type ListCallsRequest struct {
	// Status filters by provider call status when non-empty.
	Status string `json:"status,omitempty"`

	// Limit caps the number of records returned (provider page size).
	Limit int `json:"limit,omitempty"`
}

// CallRecord is a provider call resource projected to the fields we expose.
type CallRecord struct {
	SID          string    `json:"sid"`
	To           string    `json:"to"`
	From         string    `json:"from"`
	Status       string    `json:"status"`
	Direction    string    `json:"direction"`
	Duration     int       `json:"duration_seconds"`
	StartedAt    time.Time `json:"started_at"`
	RecordingURL string    `json:"recording_url,omitempty"`
}

// MessageRecord is a provider SMS resource.
type MessageRecord struct {
	SID    string `json:"sid"`
	To     string `json:"to"`
	From   string `json:"from"`
	Status string `json:"status"`
}
