package telegram

import "encoding/json"

// MeterSnapshot is the reduced view of one P1 telegram: the meter clock and
// the cumulative standings for both directions. The day and night tariff
// registers are summed into one figure per direction; the ledger does not
// track tariffs.
type MeterSnapshot struct {
	TimestampMs    int64   `json:"timestamp_ms"`
	ConsumptionKWh float64 `json:"consumption_kwh"`
	FeedKWh        float64 `json:"feed_kwh"`
}

func (s *MeterSnapshot) ToJsonBytes() []byte {
	data, _ := json.Marshal(s)
	return data
}

// SnapshotFromJsonBytes decodes a snapshot from the wire, or nil if the
// payload is not one.
func SnapshotFromJsonBytes(data []byte) *MeterSnapshot {
	var snap MeterSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}
