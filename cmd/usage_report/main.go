// Usage report computes the monthly net energy figures from the ledger and
// prints them with an explanation per fallback shape, so a missing month
// still produces a report instead of a misleading bare number.
//
// Usage: usage_report [year month]
// month is 1-12 on the command line; defaults to the previous calendar month.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pvdberg/net-energy-ledger/pkg/meterdb"
	"github.com/pvdberg/net-energy-ledger/pkg/monthly"
	"github.com/pvdberg/net-energy-ledger/pkg/netusage"
	"github.com/pvdberg/net-energy-ledger/pkg/pathing"
)

func main() {
	target, err := targetFromArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	if err := pathing.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}
	meterdb.InitializeDatabase()

	feed, err := meterdb.LoadSeries(meterdb.ReadingFeed, target)
	if err != nil {
		log.Fatalf("Failed to load feed series: %v", err)
	}
	consumption, err := meterdb.LoadSeries(meterdb.ReadingConsumption, target)
	if err != nil {
		log.Fatalf("Failed to load consumption series: %v", err)
	}

	report := netusage.ComputeNetUsage(feed, consumption, target)

	fmt.Printf("Net energy report for %04d-%02d\n", target.Year, target.Month+1)
	fmt.Println(describe("Feed-in", report.FeedMonthly))
	fmt.Println(describe("Consumption", report.ConsumptionMonthly))
	fmt.Printf("Net consumption: %.2f kWh\n", report.NetKWh)

	if err := meterdb.UpsertMonthlyReport(&meterdb.MonthlyReportRow{
		Year:             target.Year,
		Month:            target.Month,
		FeedKind:         uint8(report.FeedMonthly.Kind),
		FeedValue:        report.FeedMonthly.ResolvedValue(),
		ConsumptionKind:  uint8(report.ConsumptionMonthly.Kind),
		ConsumptionValue: report.ConsumptionMonthly.ResolvedValue(),
		NetKWh:           report.NetKWh,
		ComputedAtMs:     time.Now().UTC().UnixMilli(),
	}); err != nil {
		log.Fatalf("Failed to store monthly report: %v", err)
	}
}

func targetFromArgs(args []string) (monthly.MonthKey, error) {
	if len(args) == 0 {
		// Default to the previous calendar month; the current one is
		// still accumulating. Step back from the 1st so a late-month run
		// does not skip short months.
		now := time.Now().UTC()
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return monthly.MonthKey{Year: prev.Year(), Month: int(prev.Month()) - 1}, nil
	}
	if len(args) != 2 {
		return monthly.MonthKey{}, fmt.Errorf("expected: usage_report [year month]")
	}

	year, err := strconv.Atoi(args[0])
	if err != nil {
		return monthly.MonthKey{}, fmt.Errorf("bad year %q: %w", args[0], err)
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return monthly.MonthKey{}, fmt.Errorf("bad month %q: %w", args[1], err)
	}
	if month < 1 || month > 12 {
		return monthly.MonthKey{}, fmt.Errorf("month %d out of range 1-12", month)
	}
	return monthly.MonthKey{Year: year, Month: month - 1}, nil
}

func describe(label string, r monthly.DeltaResult) string {
	switch r.Kind {
	case monthly.DeltaNumeric:
		return fmt.Sprintf("%s: %.2f kWh", label, r.Value)
	case monthly.DeltaSingleSample:
		at := time.UnixMilli(r.TimestampMs).UTC().Format("2006-01-02 15:04")
		return fmt.Sprintf("%s: only one reading this month (standing %.2f kWh at %s), no delta derivable", label, r.Value, at)
	case monthly.DeltaFirstMeasurement:
		return fmt.Sprintf("%s: first measurement, reporting the full meter standing of %.2f kWh", label, r.Value)
	case monthly.DeltaNoChange:
		return fmt.Sprintf("%s: meter did not move this month", label)
	default:
		return fmt.Sprintf("%s: no readings for this month", label)
	}
}
