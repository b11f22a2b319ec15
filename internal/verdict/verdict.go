package verdict

import (
	"strings"

	"TweetSentry/internal/domain"
)

// Parse classifies an extracted reply under the fixed instruction contract:
// the first line must start with YES or NO, optionally followed by a
// one-line justification. Anything else is indeterminate, which signals an
// overloaded or malformed oracle reply rather than a content judgement.
//
// Classification is total and deterministic, driven solely by the first
// three characters.
func Parse(text string) domain.Verdict {
	if len(text) >= 3 && text[:3] == "YES" {
		return domain.Verdict{
			Decision: domain.DecisionAccept,
			Reason:   strings.TrimSpace(text[3:]),
		}
	}
	if len(text) >= 2 && text[:2] == "NO" {
		return domain.Verdict{Decision: domain.DecisionReject}
	}
	return domain.Verdict{Decision: domain.DecisionIndeterminate}
}
