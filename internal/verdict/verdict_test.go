package verdict

import (
	"testing"

	"TweetSentry/internal/domain"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		decision domain.Decision
		reason   string
	}{
		{"accept with reason", "YES great insight", domain.DecisionAccept, "great insight"},
		{"accept multiline reason", "YES\nContains a novel use case.", domain.DecisionAccept, "Contains a novel use case."},
		{"accept bare", "YES", domain.DecisionAccept, ""},
		{"reject", "NO", domain.DecisionReject, ""},
		{"reject with trailing text", "NO not interesting", domain.DecisionReject, ""},
		{"garbage", "Too many requests, please slow down", domain.DecisionIndeterminate, ""},
		{"empty", "", domain.DecisionIndeterminate, ""},
		{"short", "Y", domain.DecisionIndeterminate, ""},
		{"lowercase yes", "yes sure", domain.DecisionIndeterminate, ""},
		{"no as word prefix", "NOTHING here", domain.DecisionReject, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := Parse(tc.text)
			if v.Decision != tc.decision {
				t.Fatalf("decision = %s, want %s", v.Decision, tc.decision)
			}
			if v.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", v.Reason, tc.reason)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 3; i++ {
		if v := Parse("YES because"); v.Decision != domain.DecisionAccept {
			t.Fatalf("run %d: decision = %s", i, v.Decision)
		}
	}
}
