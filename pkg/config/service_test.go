package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pvdberg/net-energy-ledger/pkg/pathing"
)

// First run on a fresh machine: the config dir itself does not exist yet,
// and loading must create both the dir and the default file.
func TestLoadMeterCollectorConfigFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "etc", "net_energy_ledger")
	t.Setenv(pathing.ConfigDirEnvVar, dir)

	if err := LoadMeterCollectorConfig(); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if ActiveMeterCollectorConfig == nil {
		t.Fatal("ActiveMeterCollectorConfig not set")
	}
	if ActiveMeterCollectorConfig.InterpreterAPIHost != "localhost:9039" {
		t.Errorf("default host = %q", ActiveMeterCollectorConfig.InterpreterAPIHost)
	}
	if _, err := os.Stat(filepath.Join(dir, "meter_collector.toml")); err != nil {
		t.Errorf("default config file not written: %v", err)
	}

	// Second load reads the file written on the first run.
	ActiveMeterCollectorConfig = nil
	if err := LoadMeterCollectorConfig(); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if ActiveMeterCollectorConfig == nil || ActiveMeterCollectorConfig.InterpreterAPIHost != "localhost:9039" {
		t.Errorf("reload gave %+v", ActiveMeterCollectorConfig)
	}
}

func TestLoadInterpreterAPIConfigFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "etc", "net_energy_ledger")
	t.Setenv(pathing.ConfigDirEnvVar, dir)

	if err := LoadInterpreterAPIConfig(); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if ActiveInterpreterAPIConfig == nil {
		t.Fatal("ActiveInterpreterAPIConfig not set")
	}
	if ActiveInterpreterAPIConfig.SerialDevice != "/dev/ttyUSB0" || ActiveInterpreterAPIConfig.ListenPort != 9039 {
		t.Errorf("defaults = %+v", ActiveInterpreterAPIConfig)
	}
}
