package netusage

import "github.com/pvdberg/net-energy-ledger/pkg/monthly"

// ComputeNetUsage runs the monthly delta engine over both series and nets
// the resolved values: net = round2(consumption - feed). Fallback results
// (single sample, first measurement, no change, empty) resolve per
// DeltaResult.ResolvedValue, so the report always carries a number.
func ComputeNetUsage(feed, consumption []monthly.Sample, target monthly.MonthKey) NetUsageReport {
	feedRes := monthly.ComputeMonthlyDelta(feed, target)
	consRes := monthly.ComputeMonthlyDelta(consumption, target)
	return NetUsageReport{
		Target:             target,
		FeedMonthly:        feedRes,
		ConsumptionMonthly: consRes,
		NetKWh:             monthly.Round2(consRes.ResolvedValue() - feedRes.ResolvedValue()),
	}
}
