// Interpreter API is responsible for reading the P1 port and broadcasting
// the cumulative meter snapshots.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pvdberg/net-energy-ledger/pkg/config"
	"github.com/pvdberg/net-energy-ledger/pkg/portreader"
	"github.com/pvdberg/net-energy-ledger/pkg/solarinverter"
	"github.com/pvdberg/net-energy-ledger/pkg/stream"
)

var p1Reader *portreader.P1Reader

func main() {
	// Load config
	if err := config.LoadInterpreterAPIConfig(); err != nil {
		log.Fatalf("Failed to load interpreter API config: %v", err)
	}

	hub := stream.NewHub()

	// Start P1 reader
	p1Reader = portreader.NewP1Reader(
		config.ActiveInterpreterAPIConfig.SerialDevice,
		config.ActiveInterpreterAPIConfig.Baudrate,
	)
	p1Reader.StartReading(
		hub.Broadcast,
		func(err error) {
			if err != nil {
				log.Fatalf("Error reading P1 port: %v", err)
			}
		},
	)

	// Setup HTTP handlers
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"message": "Net Energy Ledger Interpreter API",
			"status":  "running",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		snap := p1Reader.GetLatestSnapshot()
		w.Header().Set("Content-Type", "application/json")
		if snap == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "No snapshots available yet",
			})
			return
		}

		json.NewEncoder(w).Encode(snap)
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWs(w, r, p1Reader.GetLatestSnapshot())
	})

	// May be fast or slow depending on cached response from inverter.
	http.HandleFunc("/solar", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		totalKWh, err := solarinverter.ReadTotalFeedIn()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{
			"totalFeedInKWh": totalKWh,
		})
	})

	listener := fmt.Sprintf("%s:%d", config.ActiveInterpreterAPIConfig.ListenAddress, config.ActiveInterpreterAPIConfig.ListenPort)

	log.Printf("Starting Net Energy Ledger Interpreter API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, nil))
}
