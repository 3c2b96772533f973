package meterdb

// ReadingType distinguishes the two cumulative counters the ledger tracks.
type ReadingType uint8

const (
	ReadingFeed        ReadingType = 0
	ReadingConsumption ReadingType = 1
)

// EnergyReading is one cumulative standing as stored. Timestamps are
// milliseconds since epoch, UTC; kWh is the counter value, already in the
// target unit.
type EnergyReading struct {
	TimestampMs int64       `db:"timestamp_ms"`
	ReadingType ReadingType `db:"reading_type"`
	KWh         float64     `db:"kwh"`
}

// MonthlyReportRow is a persisted net usage report. Month is 0-based, like
// the engine's MonthKey. The kind columns store monthly.DeltaKind so a
// reader can tell a real delta from a fallback figure.
type MonthlyReportRow struct {
	Year             int     `db:"year"`
	Month            int     `db:"month"`
	FeedKind         uint8   `db:"feed_kind"`
	FeedValue        float64 `db:"feed_value"`
	ConsumptionKind  uint8   `db:"consumption_kind"`
	ConsumptionValue float64 `db:"consumption_value"`
	NetKWh           float64 `db:"net_kwh"`
	ComputedAtMs     int64   `db:"computed_at_ms"`
}
