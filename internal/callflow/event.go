package callflow

// Event is a single webhook invocation from the telephony gateway, reduced
// to the fields the decision engine consumes. Events are transient: built
// per request, never mutated, never stored.
type Event struct {
	// CallID is the gateway's opaque call identifier.
	CallID string `json:"call_id"`

	Kind EventKind `json:"kind"`

	// AnsweredBy carries the machine-detection verdict.
	// Present only for KindOutboundInitiated.
	AnsweredBy AnsweredBy `json:"answered_by,omitempty"`

	// SpeechText is the transcribed patient response.
	// Present only for KindSpeechCaptured; may be empty when the gateway
	// gathered nothing intelligible.
	SpeechText string `json:"speech_text,omitempty"`

	// To is the patient's number (E.164 where possible).
	To string `json:"to,omitempty"`

	// Status is the gateway call status. Present only for KindStatusChanged.
	Status CallStatus `json:"status,omitempty"`

	RecordingURL string `json:"recording_url,omitempty"`
}

type EventKind string

const (
	// KindOutboundInitiated fires when an outbound call is answered and the
	// gateway asks what to do first.
	KindOutboundInitiated EventKind = "outbound_initiated"
	// KindSpeechCaptured fires after a gather completes with (or without) speech.
	KindSpeechCaptured EventKind = "speech_captured"
	// KindNoResponseTimeout fires when the gather timed out with no input.
	KindNoResponseTimeout EventKind = "no_response_timeout"
	// KindInboundReceived fires when a patient calls the service back.
	KindInboundReceived EventKind = "inbound_received"
	// KindStatusChanged fires on every subscribed call status transition.
	KindStatusChanged EventKind = "status_changed"
)

// AnsweredBy is the gateway's answering-machine detection verdict.
type AnsweredBy string

const (
	AnsweredByHuman        AnsweredBy = "human"
	AnsweredByMachineStart AnsweredBy = "machine_start"
	AnsweredByMachineBeep  AnsweredBy = "machine_end_beep"
	AnsweredByUnknown      AnsweredBy = "unknown"
)

// Machine reports whether the verdict indicates an answering machine.
// Unknown is treated as a human so a live person is never read voicemail.
func (a AnsweredBy) Machine() bool {
	return a == AnsweredByMachineStart || a == AnsweredByMachineBeep
}

// CallStatus mirrors the gateway's call lifecycle states.
type CallStatus string

const (
	StatusInitiated  CallStatus = "initiated"
	StatusRinging    CallStatus = "ringing"
	StatusInProgress CallStatus = "in-progress"
	StatusCompleted  CallStatus = "completed"
	StatusNoAnswer   CallStatus = "no-answer"
	StatusBusy       CallStatus = "busy"
	StatusFailed     CallStatus = "failed"
	StatusCanceled   CallStatus = "canceled"
)

// Unreached reports whether the status means the patient never got the
// spoken reminder, which is what triggers the SMS fallback.
func (s CallStatus) Unreached() bool {
	switch s {
	case StatusNoAnswer, StatusBusy, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}
