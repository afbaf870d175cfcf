package phone

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+1234567890", true},
		{"+15551234567", true},
		{"+442071838750", true},
		{"+12", true},                 // minimum: two digits after the plus
		{"+123456789012345", true},    // maximum: fifteen digits
		{"+1234567890123456", false},  // sixteen digits
		{"1234567890", false},         // no leading plus
		{"+0123456789", false},        // first digit must be 1-9
		{"+1", false},                 // too short
		{"", false},
		{"+", false},
		{"+1555123456x", false},       // non-digit
		{"+1 555 1234567", false},     // spaces
		{" +15551234567", false},      // leading whitespace
	}
	for _, tc := range cases {
		if got := Valid(tc.in); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
