// Command keypad prints keys pressed on a 4x3 keypad wired to an MCP23017.
// Each key is written to stdout as it is decoded; '#' also ends the line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/switchpi/internal/expander"
	"github.com/sweeney/switchpi/internal/keypad"
)

func main() {
	i2cBus := flag.String("i2c-bus", "1", "I2C bus name (periph driver)")
	addr := flag.Uint("addr", expander.DefaultAddress, "MCP23017 I2C address")
	driver := flag.String("driver", expander.DriverPeriph, `I2C driver ("periph" or "reefpi")`)
	poll := flag.Duration("poll", 15*time.Millisecond, "Keypad polling interval")

	flag.Parse()

	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *driver, *i2cBus, uint16(*addr), *poll); err != nil {
		fmt.Fprintf(os.Stderr, "keypad: %v\n", err)
		os.Exit(1)
	}
}

// errPollInterval is returned by run for a zero or negative -poll.
var errPollInterval = errors.New("poll interval must be positive")

func run(ctx context.Context, driver, i2cBus string, addr uint16, poll time.Duration) error {
	if poll <= 0 {
		return fmt.Errorf("%w, got %v", errPollInterval, poll)
	}

	bus, err := expander.Open(driver, i2cBus, addr)
	if err != nil {
		return fmt.Errorf("init expander: %w", err)
	}
	dev := expander.New(bus, expander.DirKeypad)
	defer dev.Close()

	if err := dev.Configure(); err != nil {
		return fmt.Errorf("init expander: %w", err)
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	return scan(ctx, keypad.NewScanner(dev), os.Stdout, ticker.C)
}

// scan polls on every tick and prints decoded keys until ctx is done.
func scan(ctx context.Context, s *keypad.Scanner, out io.Writer, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}

		ev, changed, err := s.Poll()
		if err != nil {
			log.Printf("scan error: %v", err)
			continue
		}
		if changed && ev.HasKey() {
			if err := emit(out, ev.Key); err != nil {
				return fmt.Errorf("write key: %w", err)
			}
		}
	}
}

func emit(out io.Writer, key byte) error {
	s := string(key)
	if key == '#' {
		s += "\n"
	}
	_, err := io.WriteString(out, s)
	return err
}
