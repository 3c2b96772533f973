package portreader

import (
	"bufio"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pvdberg/net-energy-ledger/pkg/telegram"
)

// Initialize a new P1Reader client.
func NewP1Reader(port string, baudrate uint) *P1Reader {
	return &P1Reader{
		port:     port,
		baudrate: baudrate,
	}
}

// StartReading listens for meter snapshots. The meter pushes a telegram
// every second; handleSnapshot runs in its own goroutine per snapshot.
func (p *P1Reader) StartReading(
	handleSnapshot func(snap *telegram.MeterSnapshot),
	handleError func(error),
) {
	p.stopSignal.Store(false)

	go func() {
		// Tolerance before we report error.
		consecutiveErrors := 0
		maxErrors := 10
		var lastError error

		// Initialize the connection
		openConnError := p.connect()
		if openConnError != nil {
			handleError(openConnError)
			return
		}

		for consecutiveErrors < maxErrors {
			// Check for Stop command
			if p.stopSignal.Load() {
				log.Println("Stop signal received, disconnecting")
				p.disconnect()
				return
			}

			raw, err := p.readTelegram()
			if err != nil {
				consecutiveErrors++
				lastError = err
				log.Printf("Error reading telegram (%d/%d): %v", consecutiveErrors, maxErrors, err)
				time.Sleep(time.Second)
				continue
			}

			if snap := telegram.Parse(raw); snap != nil {
				p.snapshotMutex.Lock()
				p.latestSnapshot = snap
				p.snapshotMutex.Unlock()

				go handleSnapshot(snap)
				consecutiveErrors = 0
			}
		}

		log.Printf("Too many consecutive errors (%d), stopping reader: %v", maxErrors, lastError)
		handleError(lastError)
		p.disconnect()
	}()
}

func (p *P1Reader) StopReading() {
	p.stopSignal.Store(true)
	p.disconnect()
}

func (p *P1Reader) GetLatestSnapshot() *telegram.MeterSnapshot {
	p.snapshotMutex.RLock()
	defer p.snapshotMutex.RUnlock()
	return p.latestSnapshot
}

// Open the connection to the P1 port.
func (p *P1Reader) connect() error {
	options := serial.OpenOptions{
		PortName:        p.port,
		BaudRate:        p.baudrate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	p.serialPort = port
	log.Printf("Connected to P1 port on %s", p.port)
	return nil
}

func (p *P1Reader) disconnect() {
	if p.serialPort != nil {
		p.serialPort.Close()
		log.Println("Disconnected from P1 port")
	}
}

// readTelegram assembles one frame: everything from a line starting with
// '/' through the line starting with '!'.
func (p *P1Reader) readTelegram() (string, error) {
	if p.serialPort == nil {
		return "", fmt.Errorf("serial port not connected")
	}

	var buffer strings.Builder
	var inTelegram bool
	reader := bufio.NewReader(p.serialPort)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		if strings.HasPrefix(line, "/") {
			buffer.Reset()
			buffer.WriteString(line)
			inTelegram = true
		} else if inTelegram {
			buffer.WriteString(line)
			if strings.HasPrefix(strings.TrimSpace(line), "!") {
				return buffer.String(), nil
			}
		}
	}
}
