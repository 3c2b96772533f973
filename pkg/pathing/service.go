package pathing

import (
	"os"
	"path/filepath"
)

// Env overrides for the fixed directories, mainly so tests can point the
// SQLite singleton and the config loader at throwaway locations.
const (
	DataDirEnvVar   = "NET_ENERGY_LEDGER_DATA_DIR"
	ConfigDirEnvVar = "NET_ENERGY_LEDGER_CONFIG_DIR"
)

// EnsureDataDir creates the data directory if needed. Entry points call
// this once on startup before touching the database.
func EnsureDataDir() error {
	return os.MkdirAll(GetDataDir(), 0755)
}

func GetLedgerDbPath() string {
	return filepath.Join(GetDataDir(), "net-energy-ledger.db")
}

func GetDataDir() string {
	if dir := os.Getenv(DataDirEnvVar); dir != "" {
		return dir
	}
	return "/var/lib/net_energy_ledger"
}

func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return dir
	}
	return "/etc/net_energy_ledger"
}
