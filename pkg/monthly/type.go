package monthly

// Sample is one cumulative meter reading: the counter standing at a point
// in time, not a per-interval amount. Standings normally only increase, but
// the engine does not rely on that (a meter swap can reset the counter).
type Sample struct {
	TimestampMs int64   `json:"timestamp_ms"`
	KWh         float64 `json:"kwh"`
}

// MonthKey identifies a UTC calendar month.
// Month is 0-based: 0 = January, 11 = December.
type MonthKey struct {
	Year  int
	Month int
}

// Previous returns the immediately preceding calendar month.
func (k MonthKey) Previous() MonthKey {
	if k.Month == 0 {
		return MonthKey{Year: k.Year - 1, Month: 11}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

type DeltaKind uint8

const (
	// DeltaEmpty means no input at all, or no sample in the target month.
	DeltaEmpty DeltaKind = iota
	// DeltaSingleSample means exactly one sample fell in the target month,
	// so no in-month delta can be derived.
	DeltaSingleSample
	// DeltaFirstMeasurement means there is no baseline in the previous
	// month; the cumulative standing itself is reported. Typical for a
	// newly commissioned meter.
	DeltaFirstMeasurement
	// DeltaNoChange means the counter did not move against the baseline.
	DeltaNoChange
	// DeltaNumeric is a plain computed delta.
	DeltaNumeric
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaEmpty:
		return "empty"
	case DeltaSingleSample:
		return "single_sample"
	case DeltaFirstMeasurement:
		return "first_measurement"
	case DeltaNoChange:
		return "no_change"
	case DeltaNumeric:
		return "numeric"
	}
	return "unknown"
}

// DeltaResult is the engine's answer for one series and month. Exactly one
// kind is produced per call; degenerate input shapes map to informative
// kinds rather than errors, so billing consumers always get an answer.
type DeltaResult struct {
	Kind DeltaKind

	// Value carries the rounded delta for DeltaNumeric and the raw
	// (unrounded) cumulative standing for DeltaSingleSample and
	// DeltaFirstMeasurement. Zero for DeltaNoChange and DeltaEmpty.
	Value float64

	// TimestampMs is set for DeltaSingleSample only: the time of the one
	// reading that fell in the month.
	TimestampMs int64
}

// ResolvedValue flattens the result to a single number for callers that net
// series against each other: the delta for DeltaNumeric, the carried
// standing for DeltaSingleSample and DeltaFirstMeasurement, and zero for
// DeltaNoChange and DeltaEmpty. Part of the public contract; pkg/netusage
// depends on this rule.
func (r DeltaResult) ResolvedValue() float64 {
	switch r.Kind {
	case DeltaNumeric, DeltaSingleSample, DeltaFirstMeasurement:
		return r.Value
	}
	return 0
}
