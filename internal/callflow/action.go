package callflow

import "time"

// Action is the engine's output for one Event.
//
// It must contain *only* information required for the provider adapter
// boundary (the TwiML renderer and the status handler) to execute the
// decision. No provider-specific fields belong here.
type Action struct {
	// Say is the text to speak, empty when nothing is spoken.
	Say string `json:"say,omitempty"`

	// Listen gathers a spoken response after Say.
	Listen bool `json:"listen,omitempty"`
	// ListenTimeout bounds how long the gateway waits for speech.
	ListenTimeout time.Duration `json:"listen_timeout,omitempty"`
	// OnListenTimeout is followed when the gather times out.
	OnListenTimeout Step `json:"on_listen_timeout,omitempty"`

	// Next is followed after Say (and Listen, if any) completes.
	Next Step `json:"next,omitempty"`

	// SMS is an optional side effect executed by the status handler.
	SMS *SMSEffect `json:"sms,omitempty"`

	// Reason is for internal logs only.
	Reason string `json:"reason,omitempty"`
}

// Step names a follow-up at the call-control boundary.
type Step string

const (
	StepNone               Step = ""
	StepEndCall            Step = "end_call"
	StepRedirectNoResponse Step = "redirect_no_response"
)

// SMSEffect asks the dispatcher to send a text message.
type SMSEffect struct {
	To   string `json:"to"`
	Body string `json:"body"`
}
