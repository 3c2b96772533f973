package monthly

import (
	"math"
	"sort"
	"time"
)

// ComputeMonthlyDelta derives how much a cumulative counter moved during
// the target month. The series may arrive in any order and is never
// mutated; sorting happens on a copy.
//
// Decision order, first match wins:
//  1. no samples in the target month -> DeltaEmpty
//  2. exactly one sample in the target month -> DeltaSingleSample
//  3. no sample in the previous month -> DeltaFirstMeasurement with the
//     target month's last standing
//  4. otherwise the delta between the last standing of the target month
//     and the last standing of the previous month, rounded to two
//     decimals; DeltaNoChange when that delta is exactly zero
//
// Only the final delta in step 4 is rounded; standings carried by
// DeltaSingleSample and DeltaFirstMeasurement pass through untouched.
func ComputeMonthlyDelta(series []Sample, target MonthKey) DeltaResult {
	if len(series) == 0 {
		return DeltaResult{Kind: DeltaEmpty}
	}

	// Sort the full series, not just the target month, since the baseline
	// is the last reading of the previous month.
	sorted := make([]Sample, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampMs < sorted[j].TimestampMs
	})

	previous := target.Previous()
	var baseline *Sample
	var current []Sample
	for i := range sorted {
		switch keyOf(sorted[i].TimestampMs) {
		case previous:
			// Ascending order, so the last hit is the month's last reading.
			baseline = &sorted[i]
		case target:
			current = append(current, sorted[i])
		}
	}

	if len(current) == 0 {
		return DeltaResult{Kind: DeltaEmpty}
	}
	if len(current) == 1 {
		return DeltaResult{
			Kind:        DeltaSingleSample,
			Value:       current[0].KWh,
			TimestampMs: current[0].TimestampMs,
		}
	}

	last := current[len(current)-1]
	if baseline == nil {
		return DeltaResult{Kind: DeltaFirstMeasurement, Value: last.KWh}
	}

	delta := Round2(last.KWh - baseline.KWh)
	if delta == 0 {
		return DeltaResult{Kind: DeltaNoChange}
	}
	return DeltaResult{Kind: DeltaNumeric, Value: delta}
}

// keyOf buckets a millisecond timestamp into its UTC calendar month.
func keyOf(timestampMs int64) MonthKey {
	t := time.UnixMilli(timestampMs).UTC()
	return MonthKey{Year: t.Year(), Month: int(t.Month()) - 1}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		// math.Round(-0.4) is -0; keep the zero unsigned.
		return 0
	}
	return r
}
