package meterdb

import (
	"time"

	"github.com/pvdberg/net-energy-ledger/pkg/monthly"
)

func InsertEnergyReading(reading *EnergyReading) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT INTO energy_readings (timestamp_ms, reading_type, kwh) "+
			"VALUES (?, ?, ?)",
		reading.TimestampMs,
		reading.ReadingType,
		reading.KWh,
	)
	if err != nil {
		return err
	}
	return nil
}

// LoadSeries returns the samples for one counter covering the target month
// and the immediately preceding one, ascending by timestamp. Those are the
// only months the delta engine inspects, so nothing older is fetched.
func LoadSeries(readingType ReadingType, target monthly.MonthKey) ([]monthly.Sample, error) {
	db := GetDB()

	from := monthStartMs(target.Previous())
	until := monthStartMs(next(target))

	rows, err := db.Query(
		"SELECT timestamp_ms, kwh FROM energy_readings "+
			"WHERE reading_type = ? AND timestamp_ms >= ? AND timestamp_ms < ? "+
			"ORDER BY timestamp_ms ASC",
		readingType, from, until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []monthly.Sample
	for rows.Next() {
		var sample monthly.Sample
		if err := rows.Scan(&sample.TimestampMs, &sample.KWh); err != nil {
			return nil, err
		}
		series = append(series, sample)
	}
	return series, rows.Err()
}

func UpsertMonthlyReport(report *MonthlyReportRow) error {
	db := GetDB()

	_, err := db.Exec(
		"INSERT OR REPLACE INTO monthly_reports "+
			"(year, month, feed_kind, feed_value, consumption_kind, consumption_value, net_kwh, computed_at_ms) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		report.Year,
		report.Month,
		report.FeedKind,
		report.FeedValue,
		report.ConsumptionKind,
		report.ConsumptionValue,
		report.NetKWh,
		report.ComputedAtMs,
	)
	return err
}

func GetMonthlyReport(target monthly.MonthKey) (*MonthlyReportRow, error) {
	db := GetDB()

	var report MonthlyReportRow
	err := db.QueryRow(
		"SELECT year, month, feed_kind, feed_value, consumption_kind, consumption_value, net_kwh, computed_at_ms "+
			"FROM monthly_reports WHERE year = ? AND month = ?",
		target.Year, target.Month,
	).Scan(
		&report.Year,
		&report.Month,
		&report.FeedKind,
		&report.FeedValue,
		&report.ConsumptionKind,
		&report.ConsumptionValue,
		&report.NetKWh,
		&report.ComputedAtMs,
	)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func monthStartMs(k monthly.MonthKey) int64 {
	return time.Date(k.Year, time.Month(k.Month+1), 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func next(k monthly.MonthKey) monthly.MonthKey {
	if k.Month == 11 {
		return monthly.MonthKey{Year: k.Year + 1, Month: 0}
	}
	return monthly.MonthKey{Year: k.Year, Month: k.Month + 1}
}
