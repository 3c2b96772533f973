// Meter collector appends every cumulative snapshot from the interpreter
// API to the ledger database. Depends on the interpreter API being online.
package main

import (
	"log"

	"github.com/pvdberg/net-energy-ledger/pkg/config"
	"github.com/pvdberg/net-energy-ledger/pkg/meterdb"
	"github.com/pvdberg/net-energy-ledger/pkg/pathing"
	"github.com/pvdberg/net-energy-ledger/pkg/stream"
	"github.com/pvdberg/net-energy-ledger/pkg/telegram"
)

func main() {
	if err := config.LoadMeterCollectorConfig(); err != nil {
		log.Fatalf("Failed to load meter collector config: %v", err)
	}
	if err := pathing.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	// Initialize database
	meterdb.InitializeDatabase()

	// Subscribe to websocket with revive
	stream.StartListener(
		config.ActiveMeterCollectorConfig.InterpreterAPIHost,
		config.ActiveMeterCollectorConfig.TLSEnabled,
		handleMeterSnapshot,
	)
}

// Each snapshot carries both counters; store one row per direction.
func handleMeterSnapshot(snap *telegram.MeterSnapshot) {
	if err := meterdb.InsertEnergyReading(&meterdb.EnergyReading{
		TimestampMs: snap.TimestampMs,
		ReadingType: meterdb.ReadingConsumption,
		KWh:         snap.ConsumptionKWh,
	}); err != nil {
		log.Printf("Failed to store consumption reading: %v", err)
	}
	if err := meterdb.InsertEnergyReading(&meterdb.EnergyReading{
		TimestampMs: snap.TimestampMs,
		ReadingType: meterdb.ReadingFeed,
		KWh:         snap.FeedKWh,
	}); err != nil {
		log.Printf("Failed to store feed reading: %v", err)
	}
}
