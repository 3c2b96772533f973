package netusage

import "github.com/pvdberg/net-energy-ledger/pkg/monthly"

// NetUsageReport holds the month's figures for both directions plus the
// netted total. NetKWh is consumption minus feed-in, so a negative number
// means the household exported more than it drew.
type NetUsageReport struct {
	Target             monthly.MonthKey    `json:"-"`
	FeedMonthly        monthly.DeltaResult `json:"feed_monthly"`
	ConsumptionMonthly monthly.DeltaResult `json:"consumption_monthly"`
	NetKWh             float64             `json:"net_consumption_kwh"`
}
