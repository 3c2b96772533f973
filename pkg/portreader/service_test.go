package portreader

import (
	"sync"
	"testing"
	"time"

	"github.com/pvdberg/net-energy-ledger/pkg/telegram"
)

func TestStopSignalConcurrentAccess(t *testing.T) {
	// StopReading races against the reader goroutine's poll; exercise both
	// sides so the race detector can vouch for the flag.
	p := NewP1Reader("/dev/null", 115200)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.StopReading()
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.stopSignal.Load()
			}
		}()
	}
	wg.Wait()

	if !p.stopSignal.Load() {
		t.Error("StopReading did not set the stop signal")
	}
}

func TestStartReadingReportsConnectError(t *testing.T) {
	p := NewP1Reader("/nonexistent-p1-port", 115200)

	errCh := make(chan error, 1)
	p.StartReading(
		func(snap *telegram.MeterSnapshot) {}, // never called
		func(err error) { errCh <- err },
	)

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected a connect error, got nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported for a missing serial device")
	}
}
