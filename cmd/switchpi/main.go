// Command switchpi scans a 4x3 keypad and hook switch on an MCP23017 and
// drives a call-control backend: dial on '#', DTMF in call, hang up on-hook.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/switchpi/internal/callctl"
	"github.com/sweeney/switchpi/internal/dial"
	"github.com/sweeney/switchpi/internal/expander"
	"github.com/sweeney/switchpi/internal/gpio"
	"github.com/sweeney/switchpi/internal/keypad"
	"github.com/sweeney/switchpi/internal/mqtt"
	"github.com/sweeney/switchpi/internal/status"
	"github.com/sweeney/switchpi/internal/web"
	"github.com/sweeney/switchpi/internal/worker"
)

type config struct {
	i2cBus       string
	addr         uint
	driver       string
	poll         time.Duration
	irqChip      string
	irqLine      int
	broker       string
	clientID     string
	httpAddr     string
	exec         string
	api          string
	execTimeout  time.Duration
	dialCapacity int
	heartbeat    time.Duration
	logLevel     string
	printState   bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.i2cBus, "i2c-bus", "1", "I2C bus name (periph driver)")
	flag.UintVar(&cfg.addr, "addr", expander.DefaultAddress, "MCP23017 I2C address")
	flag.StringVar(&cfg.driver, "driver", expander.DriverPeriph, `I2C driver ("periph" or "reefpi")`)
	flag.DurationVar(&cfg.poll, "poll", worker.DefaultPoll, "Keypad polling interval")
	flag.StringVar(&cfg.irqChip, "irq-chip", gpio.DefaultChip, "GPIO chip carrying the expander interrupt line")
	flag.IntVar(&cfg.irqLine, "irq-line", gpio.DefaultLine, "GPIO line wired to INTA (-1 to poll only)")
	flag.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.StringVar(&cfg.clientID, "client-id", "switchpi", "MQTT client ID")
	flag.StringVar(&cfg.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&cfg.exec, "exec", callctl.DefaultCommand, "Command line that runs a call-control command")
	flag.StringVar(&cfg.api, "api", callctl.DefaultAPI, "Call-control API prefix")
	flag.DurationVar(&cfg.execTimeout, "exec-timeout", 5*time.Second, "Timeout per call-control command")
	flag.IntVar(&cfg.dialCapacity, "dial-capacity", dial.DefaultCapacity, "Maximum number of digits in the dial buffer")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print hook state and port value and exit")

	flag.Parse()

	if err := setupLogging(cfg.logLevel); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

func run(cfg config) error {
	bus, err := expander.Open(cfg.driver, cfg.i2cBus, uint16(cfg.addr))
	if err != nil {
		return fmt.Errorf("init expander: %w", err)
	}
	dev := expander.New(bus, expander.DirPhone)
	defer dev.Close()

	if err := dev.Configure(); err != nil {
		return fmt.Errorf("init expander: %w", err)
	}

	if cfg.printState {
		return printState(os.Stdout, dev)
	}

	executor, err := callctl.NewCommandExecutor(cfg.exec, cfg.execTimeout)
	if err != nil {
		return fmt.Errorf("init call control: %w", err)
	}
	machine := dial.NewMachine(callctl.NewClient(executor, cfg.api), cfg.dialCapacity)

	publisher, err := mqtt.NewRealPublisher(cfg.broker, cfg.clientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Driver:      cfg.driver,
		I2CBus:      cfg.i2cBus,
		Address:     uint16(cfg.addr),
		IRQLine:     cfg.irqLine,
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		API:         cfg.api,
	})
	tracker.SetMQTTConnected(publisher.IsConnected())

	publishStartup(publisher, tracker)

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	var wake <-chan struct{}
	if cfg.irqLine >= 0 {
		watcher, err := gpio.NewLineWatcher(cfg.irqChip, cfg.irqLine)
		if err != nil {
			log.Warnf("interrupt line unavailable, polling only: %v", err)
		} else {
			defer watcher.Close()
			wake = watcher.Edges()
		}
	}

	w := worker.New(worker.Config{
		Scanner:    keypad.NewScanner(dev, keypad.WithRowGate(keypad.OffHook)),
		Machine:    machine,
		Publisher:  publisher,
		MQTTStatus: publisher,
		Tracker:    tracker,
		Wake:       wake,
		Poll:       cfg.poll,
		Heartbeat:  cfg.heartbeat,
	})

	log.Printf("started: driver=%s addr=0x%02x poll=%v irq-line=%d broker=%s exec=%q api=%s",
		cfg.driver, cfg.addr, cfg.poll, cfg.irqLine, cfg.broker, cfg.exec, cfg.api)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return serve(context.Background(), w, publisher, publisher, tracker, sigCh, time.Now)
}

// printState reads the port once and reports the hook state.
func printState(out io.Writer, dev keypad.Device) error {
	v, err := dev.ReadGPIO()
	if err != nil {
		return fmt.Errorf("read port: %w", err)
	}
	hook := "ON_HOOK"
	if keypad.OffHook(v) {
		hook = "OFF_HOOK"
	}
	fmt.Fprintf(out, "hook: %s, port: 0x%02X\n", hook, v)
	return nil
}

func publishStartup(publisher mqtt.Publisher, tracker *status.Tracker) {
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}
}

// serve runs the worker until a signal arrives or the worker exits, then
// publishes the shutdown event.
func serve(ctx context.Context, w *worker.Worker, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, sig <-chan os.Signal, now func() time.Time) error {
	w.Start(ctx)

	reason := "UNKNOWN"
	select {
	case s := <-sig:
		log.Printf("received %v, shutting down", s)
		reason = signalName(s)
	case <-w.Done():
	}

	err := w.Stop()
	if err != nil {
		reason = "ERROR"
	}

	event := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if perr := publisher.PublishSystem(event); perr != nil {
		log.Printf("failed to publish shutdown event: %v", perr)
	} else {
		log.Printf("published shutdown event")
	}

	if err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	return nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
