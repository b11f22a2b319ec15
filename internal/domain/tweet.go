package domain

import "time"

// Tweet is a core entity describing one candidate post fetched from a
// search mirror. Immutable once fetched.
type Tweet struct {
	ID       string
	Content  string
	URL      string
	PostedAt time.Time
}

// Decision enumerates judgement outcomes for a single tweet.
type Decision string

const (
	DecisionAccept        Decision = "accept"
	DecisionReject        Decision = "reject"
	DecisionIndeterminate Decision = "indeterminate"
)

// Verdict is the oracle's judgement for one tweet. Reason is present only
// when the decision is accept.
type Verdict struct {
	Decision Decision
	Reason   string
}

// SegmentKind distinguishes narrative text from verbatim content inside an
// extracted reply.
type SegmentKind int

const (
	SegmentProse SegmentKind = iota
	SegmentVerbatim
)

// Segment holds one escaped portion of an extracted reply.
type Segment struct {
	Kind SegmentKind
	Text string
}

// ExtractedDocument is the oracle's rendered reply reassembled as an
// ordered sequence of segments. All segment text is already escaped for
// the delivery channel's markup renderer.
type ExtractedDocument struct {
	Segments []Segment
}

// PlainText concatenates all segments in document order.
func (d ExtractedDocument) PlainText() string {
	var out string
	for _, seg := range d.Segments {
		out += seg.Text
	}
	return out
}

// SessionState tracks the oracle session lifecycle.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateReady
	StateBusy
	StateDisconnected
)

// CompletionStatus is the outcome of waiting for the oracle to finish
// generating a reply.
type CompletionStatus int

const (
	// CompletionDone means the busy indicator disappeared.
	CompletionDone CompletionStatus = iota
	// CompletionTimedOut means the deadline elapsed while the indicator was
	// still visible; the reply may be partial and extraction is still
	// attempted.
	CompletionTimedOut
	// CompletionUnreachable means the indicator could not be queried at all.
	CompletionUnreachable
)
