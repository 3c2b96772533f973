package portreader

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/pvdberg/net-energy-ledger/pkg/telegram"
)

type P1Reader struct {
	port           string
	baudrate       uint
	serialPort     io.ReadWriteCloser
	latestSnapshot *telegram.MeterSnapshot
	snapshotMutex  sync.RWMutex

	// Written by StopReading, polled by the reader goroutine.
	stopSignal atomic.Bool
}
