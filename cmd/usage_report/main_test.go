package main

import (
	"strings"
	"testing"

	"github.com/pvdberg/net-energy-ledger/pkg/monthly"
)

func TestTargetFromArgs(t *testing.T) {
	got, err := targetFromArgs([]string{"2025", "3"})
	if err != nil {
		t.Fatalf("targetFromArgs: %v", err)
	}
	if got != (monthly.MonthKey{Year: 2025, Month: 2}) {
		t.Errorf("got %+v, want 2025/2 (0-based)", got)
	}

	for _, args := range [][]string{
		{"2025"},
		{"2025", "0"},
		{"2025", "13"},
		{"twentytwentyfive", "3"},
		{"2025", "march"},
	} {
		if _, err := targetFromArgs(args); err == nil {
			t.Errorf("expected error for args %v", args)
		}
	}

	// No args: some valid previous month, never the current one.
	got, err = targetFromArgs(nil)
	if err != nil {
		t.Fatalf("targetFromArgs(nil): %v", err)
	}
	if got.Month < 0 || got.Month > 11 {
		t.Errorf("default month out of range: %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		result monthly.DeltaResult
		want   string
	}{
		{monthly.DeltaResult{Kind: monthly.DeltaNumeric, Value: 577.98}, "577.98 kWh"},
		{monthly.DeltaResult{Kind: monthly.DeltaSingleSample, Value: 42, TimestampMs: 1741953600000}, "only one reading"},
		{monthly.DeltaResult{Kind: monthly.DeltaFirstMeasurement, Value: 42}, "first measurement"},
		{monthly.DeltaResult{Kind: monthly.DeltaNoChange}, "did not move"},
		{monthly.DeltaResult{Kind: monthly.DeltaEmpty}, "no readings"},
	}
	for _, c := range cases {
		got := describe("Feed-in", c.result)
		if !strings.Contains(got, c.want) {
			t.Errorf("describe(%v) = %q, want it to mention %q", c.result.Kind, got, c.want)
		}
	}
}
