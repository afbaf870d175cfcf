package messages

import "testing"

func TestTextCoversAllScenarios(t *testing.T) {
	for _, s := range []Scenario{
		ScenarioReminder,
		ScenarioVoicemail,
		ScenarioSMSFallback,
		ScenarioThankYou,
		ScenarioNoResponse,
		ScenarioApology,
	} {
		if Text(s) == "" {
			t.Fatalf("empty text for scenario %q", s)
		}
	}
}

func TestTextUnknownScenarioFallsBackToApology(t *testing.T) {
	if got := Text(Scenario("bogus")); got != Text(ScenarioApology) {
		t.Fatalf("expected apology fallback, got %q", got)
	}
}
