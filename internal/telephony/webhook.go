package telephony

import (
	"net/http"
	"strings"

	"adherence-voice/internal/callflow"
)

// Voice webhook forms. Twilio sends application/x-www-form-urlencoded by
// default; only the fields the decision engine consumes are captured.

type VoiceForm struct {
	CallSid      string
	AnsweredBy   string
	SpeechResult string
	From         string
	To           string
}

func ParseVoiceForm(r *http.Request) (VoiceForm, error) {
	if err := r.ParseForm(); err != nil {
		return VoiceForm{}, err
	}
	return VoiceForm{
		CallSid:      r.PostFormValue("CallSid"),
		AnsweredBy:   strings.TrimSpace(r.PostFormValue("AnsweredBy")),
		SpeechResult: strings.TrimSpace(r.PostFormValue("SpeechResult")),
		From:         strings.TrimSpace(r.PostFormValue("From")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
	}, nil
}

// Event converts the form into a decision-engine event of the given kind.
func (f VoiceForm) Event(kind callflow.EventKind) callflow.Event {
	return callflow.Event{
		CallID:     f.CallSid,
		Kind:       kind,
		AnsweredBy: parseAnsweredBy(f.AnsweredBy),
		SpeechText: f.SpeechResult,
		To:         f.To,
	}
}

func parseAnsweredBy(v string) callflow.AnsweredBy {
	switch v {
	case "human":
		return callflow.AnsweredByHuman
	case "machine_start":
		return callflow.AnsweredByMachineStart
	case "machine_end_beep":
		return callflow.AnsweredByMachineBeep
	case "":
		return ""
	default:
		// machine_end_silence, machine_end_other, fax, unknown: the human
		// path is the safe default, a live person must hear the reminder.
		return callflow.AnsweredByUnknown
	}
}

type StatusForm struct {
	CallSid      string
	CallStatus   string
	To           string
	RecordingURL string
}

func ParseStatusForm(r *http.Request) (StatusForm, error) {
	if err := r.ParseForm(); err != nil {
		return StatusForm{}, err
	}
	return StatusForm{
		CallSid:      r.PostFormValue("CallSid"),
		CallStatus:   strings.TrimSpace(r.PostFormValue("CallStatus")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
		RecordingURL: strings.TrimSpace(r.PostFormValue("RecordingUrl")),
	}, nil
}

func (f StatusForm) Event() callflow.Event {
	return callflow.Event{
		CallID:       f.CallSid,
		Kind:         callflow.KindStatusChanged,
		Status:       callflow.CallStatus(f.CallStatus),
		To:           f.To,
		RecordingURL: f.RecordingURL,
	}
}
