package scoretype

import "math"

// Aggregation is the rule used to fold a new value into an existing standing.
type Aggregation int

const (
	// Sum accumulates deltas, saturating at the uint32 ceiling.
	Sum Aggregation = iota
	// Max keeps the highest value ever observed.
	Max
)

func (a Aggregation) String() string {
	if a == Max {
		return "max"
	}
	return "sum"
}

// DeltaUseless reports whether a delta can be dropped without reading the
// current standing. A zero delta changes nothing under either rule; for Max
// a non-zero delta may still turn out useless, but only the engine can tell
// once it knows the standing.
func (a Aggregation) DeltaUseless(delta uint32) bool {
	return delta == 0
}

// Merge folds a new value into an existing standing.
func (a Aggregation) Merge(old, new uint32) uint32 {
	switch a {
	case Max:
		if new > old {
			return new
		}
		return old
	default:
		if new > math.MaxUint32-old {
			return math.MaxUint32
		}
		return old + new
	}
}

// RequiresSequentialConsistency reports whether correct standings depend on
// observing updates in submission order. Neither current rule does; the
// engine refuses to be built for any future rule that would.
func (a Aggregation) RequiresSequentialConsistency() bool {
	return false
}
