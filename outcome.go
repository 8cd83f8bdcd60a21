package strand

// Outcome records how a stream attempt ended.
type Outcome string

const (
	OutcomeComplete  Outcome = "complete"  // natural end of stream or done event
	OutcomeCancelled Outcome = "cancelled" // caller closed the stream early
	OutcomeFailed    Outcome = "failed"    // transport, protocol, or upstream error
)
