// Package messages holds the fixed patient-facing message texts.
//
// The catalog is static: one spoken (or texted) message per call scenario.
// Lookups cannot fail; unknown scenarios fall back to the apology text so a
// live call always has something to say.
package messages

// Scenario identifies a fixed message in the catalog.
type Scenario string

const (
	// ScenarioReminder is spoken when a human (or unknown) answers.
	ScenarioReminder Scenario = "reminder"
	// ScenarioVoicemail is spoken when answering-machine detection fires.
	ScenarioVoicemail Scenario = "voicemail"
	// ScenarioSMSFallback is texted when the call never connects.
	ScenarioSMSFallback Scenario = "sms_fallback"
	// ScenarioThankYou closes the call after a speech response.
	ScenarioThankYou Scenario = "thank_you"
	// ScenarioNoResponse closes the call when the patient says nothing.
	ScenarioNoResponse Scenario = "no_response"
	// ScenarioApology is the degraded text used when handling fails mid-call.
	ScenarioApology Scenario = "apology"
)

var catalog = map[Scenario]string{
	ScenarioReminder: "Hello, this is your medication reminder. " +
		"Please remember to take your prescribed medication today. " +
		"After the tone, say yes if you have already taken it, or no if you have not.",
	ScenarioVoicemail: "Hello, this is your medication reminder. " +
		"We could not reach you directly. Please remember to take your prescribed medication today.",
	ScenarioSMSFallback: "Medication reminder: we tried to call you. " +
		"Please remember to take your prescribed medication today.",
	ScenarioThankYou: "Thank you for your response. Goodbye.",
	ScenarioNoResponse: "We did not hear a response. " +
		"Please remember to take your medication. Goodbye.",
	ScenarioApology: "We are sorry, we are experiencing technical difficulties. " +
		"Please remember to take your medication. Goodbye.",
}

// Text returns the message for the scenario, falling back to the apology
// text for anything unknown.
func Text(s Scenario) string {
	if t, ok := catalog[s]; ok {
		return t
	}
	return catalog[ScenarioApology]
}
