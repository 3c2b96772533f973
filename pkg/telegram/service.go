package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sigurn/crc16"
)

// OBIS registers for the cumulative totals. 1.8.x is consumption, 2.8.x is
// production (feed-in); x=1 is the day tariff, x=2 the night tariff.
var (
	consumptionDayPattern   = regexp.MustCompile(`1-0:1\.8\.1\((\d+\.\d+)\*kWh\)`)
	consumptionNightPattern = regexp.MustCompile(`1-0:1\.8\.2\((\d+\.\d+)\*kWh\)`)
	productionDayPattern    = regexp.MustCompile(`1-0:2\.8\.1\((\d+\.\d+)\*kWh\)`)
	productionNightPattern  = regexp.MustCompile(`1-0:2\.8\.2\((\d+\.\d+)\*kWh\)`)
	timestampPattern        = regexp.MustCompile(`0-0:1\.0\.0\((\d{12})[WS]\)`)
)

// CRC16_ARC matches the Belgian DSMR specification
var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// ValidateCRC checks the telegram frame checksum. Everything up to and
// including '!' is covered by the four hex digits that follow it.
func ValidateCRC(telegram string) bool {
	parts := strings.Split(telegram, "!")
	if len(parts) != 2 || len(parts[1]) < 4 {
		return false
	}

	data := parts[0] + "!"
	givenCRC := parts[1][:4]

	calcCRC := crc16.Checksum([]byte(data), crcTable)
	calcCRCHex := fmt.Sprintf("%04X", calcCRC)

	return strings.ToUpper(givenCRC) == calcCRCHex
}

// Parse extracts the cumulative standings from a raw telegram. Returns nil
// when the CRC check fails or when no total register is present at all; a
// telegram without totals has nothing for the ledger.
func Parse(raw string) *MeterSnapshot {
	if !ValidateCRC(raw) {
		return nil
	}

	snap := &MeterSnapshot{
		TimestampMs: time.Now().UTC().UnixMilli(),
	}

	// Prefer the meter's own clock when present.
	if match := timestampPattern.FindStringSubmatch(raw); match != nil {
		if t, err := time.Parse("060102150405", match[1]); err == nil {
			snap.TimestampMs = t.UTC().UnixMilli()
		}
	}

	consumptionDay, okCD := registerValue(consumptionDayPattern, raw)
	consumptionNight, okCN := registerValue(consumptionNightPattern, raw)
	productionDay, okPD := registerValue(productionDayPattern, raw)
	productionNight, okPN := registerValue(productionNightPattern, raw)
	if !okCD && !okCN && !okPD && !okPN {
		return nil
	}

	snap.ConsumptionKWh = consumptionDay + consumptionNight
	snap.FeedKWh = productionDay + productionNight
	return snap
}

func registerValue(pattern *regexp.Regexp, raw string) (float64, bool) {
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
