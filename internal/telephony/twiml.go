package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"net/http"
	"strconv"
	"time"

	"adherence-voice/internal/callflow"
)

// TwiML is rendered from a callflow.Action by a pure function; no provider
// SDK dependency. Only the verbs this service emits are modeled.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName xml.Name `xml:"Gather"`
	Input   string   `xml:"input,attr"`
	Timeout string   `xml:"timeout,attr"`
	Action  string   `xml:"action,attr"`
	Method  string   `xml:"method,attr"`
	Say     *twimlSay
}

type twimlRedirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Routes are the webhook paths baked into rendered documents.
type Routes struct {
	// Response receives the gather result (speech captured).
	Response string
	// NoResponse is redirected to when the gather times out.
	NoResponse string
}

// sayVoice is the provider TTS voice used for all spoken text.
const sayVoice = "alice"

// RenderTwiML maps a callflow.Action to a TwiML document.
//
// A listening action nests the prompt inside Gather and appends a Redirect:
// the provider only follows verbs after Gather when it collected no input,
// which is exactly the on-timeout fallback.
func RenderTwiML(a callflow.Action, routes Routes) (string, error) {
	var r twimlResponse

	if a.Listen {
		if routes.Response == "" {
			return "", errors.New("telephony: response route required for listen action")
		}
		g := twimlGather{
			Input:   "speech",
			Timeout: strconv.Itoa(int(a.ListenTimeout / time.Second)),
			Action:  routes.Response,
			Method:  http.MethodPost,
		}
		if a.Say != "" {
			g.Say = &twimlSay{Voice: sayVoice, Text: a.Say}
		}
		r.Verbs = append(r.Verbs, g)

		switch a.OnListenTimeout {
		case callflow.StepRedirectNoResponse:
			if routes.NoResponse == "" {
				return "", errors.New("telephony: no-response route required for timeout redirect")
			}
			r.Verbs = append(r.Verbs, twimlRedirect{Method: http.MethodPost, URL: routes.NoResponse})
		case callflow.StepNone:
			// Gather with no fallback; the provider hangs up on timeout.
		default:
			return "", errors.New("telephony: unknown timeout step")
		}
	} else {
		if a.Say != "" {
			r.Verbs = append(r.Verbs, twimlSay{Voice: sayVoice, Text: a.Say})
		}
		switch a.Next {
		case callflow.StepEndCall:
			r.Verbs = append(r.Verbs, twimlHangup{})
		case callflow.StepNone:
		default:
			return "", errors.New("telephony: unknown next step")
		}
	}

	if len(r.Verbs) == 0 {
		return "", errors.New("telephony: action renders no verbs")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// degradedFallbackTwiML is the last-resort document if even rendering the
// degraded action fails. It must stay well-formed by inspection.
const degradedFallbackTwiML = xml.Header +
	`<Response><Say voice="alice">We are sorry, we are experiencing technical difficulties. Goodbye.</Say><Hangup></Hangup></Response>`

var degradedTwiML = func() string {
	s, err := RenderTwiML(callflow.Degraded(), Routes{})
	if err != nil {
		return degradedFallbackTwiML
	}
	return s
}()

// DegradedTwiML returns the fixed apology document written when webhook
// handling fails. It never fails and allocates nothing per call.
func DegradedTwiML() string { return degradedTwiML }
