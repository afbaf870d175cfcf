package callflow

import (
	"time"

	"adherence-voice/internal/messages"
)

// listenTimeout is how long the gateway waits for the patient to speak
// before following the no-response redirect.
const listenTimeout = 10 * time.Second

// Decide maps one gateway event to exactly one action.
//
// It is a pure function of the event and the static message catalog: no
// call-ID-keyed session state, no clock, no I/O. The gateway tracks call
// progress; this engine never needs to remember that a call previously
// passed through a different handler, so concurrent events need no
// coordination and repeated delivery of an event yields the same action.
//
// Decide is total over EventKind. Anything unrecognized gets the degraded
// apology action rather than an error: an unanswered webhook leaves a live
// call hanging on the provider side, which is worse than any answer.
func Decide(ev Event) Action {
	switch ev.Kind {
	case KindOutboundInitiated:
		if ev.AnsweredBy.Machine() {
			return Action{
				Say:    messages.Text(messages.ScenarioVoicemail),
				Next:   StepEndCall,
				Reason: "machine_detected",
			}
		}
		return listenAction("answered")

	case KindSpeechCaptured:
		// Empty speech is accepted and handled identically; the dispatcher
		// logs "no speech detected" alongside this action.
		return Action{
			Say:    messages.Text(messages.ScenarioThankYou),
			Next:   StepEndCall,
			Reason: "response_captured",
		}

	case KindNoResponseTimeout:
		return Action{
			Say:    messages.Text(messages.ScenarioNoResponse),
			Next:   StepEndCall,
			Reason: "no_response",
		}

	case KindInboundReceived:
		// Inbound callers get the same reminder-and-listen flow as an
		// answered outbound call, including the no-response fallthrough.
		return listenAction("inbound")

	case KindStatusChanged:
		if ev.Status.Unreached() {
			return Action{
				SMS: &SMSEffect{
					To:   ev.To,
					Body: messages.Text(messages.ScenarioSMSFallback),
				},
				Reason: "sms_fallback:" + string(ev.Status),
			}
		}
		return Action{Reason: "status_ack"}

	default:
		return Degraded()
	}
}

// Degraded is the fixed terminal action substituted when event handling
// fails for any reason. It cannot itself fail.
func Degraded() Action {
	return Action{
		Say:    messages.Text(messages.ScenarioApology),
		Next:   StepEndCall,
		Reason: "degraded",
	}
}

func listenAction(reason string) Action {
	return Action{
		Say:             messages.Text(messages.ScenarioReminder),
		Listen:          true,
		ListenTimeout:   listenTimeout,
		OnListenTimeout: StepRedirectNoResponse,
		Reason:          reason,
	}
}
