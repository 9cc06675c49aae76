// Package worker runs the keypad polling loop. A single goroutine owns the
// scanner and the dial machine; the status tracker is the only state it
// shares with other goroutines.
package worker

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/switchpi/internal/dial"
	"github.com/sweeney/switchpi/internal/keypad"
	"github.com/sweeney/switchpi/internal/mqtt"
	"github.com/sweeney/switchpi/internal/status"
)

// DefaultPoll is the interval between port reads.
const DefaultPoll = 15 * time.Millisecond

// ErrNoInterval is returned by Run when neither a poll interval nor a tick
// source is configured.
var ErrNoInterval = errors.New("worker: poll interval must be positive")

// Config wires a Worker. Scanner, Machine and Publisher are required.
type Config struct {
	Scanner   *keypad.Scanner
	Machine   *dial.Machine
	Publisher mqtt.Publisher

	// MQTTStatus and Tracker are optional.
	MQTTStatus mqtt.ConnectionStatus
	Tracker    *status.Tracker

	// Wake triggers an immediate poll, typically the expander interrupt
	// line. The ticker keeps running regardless.
	Wake <-chan struct{}

	Poll      time.Duration
	Heartbeat time.Duration // 0 disables

	// Now and Tick replace the wall clock and ticker in tests.
	Now  func() time.Time
	Tick <-chan time.Time
}

// Worker polls the keypad and drives the dial machine.
type Worker struct {
	cfg           Config
	now           func() time.Time
	lastHeartbeat time.Time

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// New creates a Worker.
func New(cfg Config) *Worker {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Worker{cfg: cfg, now: now}
}

// Run polls until ctx is cancelled. It returns nil on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	tick := w.cfg.Tick
	if tick == nil {
		if w.cfg.Poll <= 0 {
			return ErrNoInterval
		}
		ticker := time.NewTicker(w.cfg.Poll)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.lastHeartbeat = w.now()
	for {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		case <-w.cfg.Wake:
		}
		w.Step(ctx)
	}
}

// Step performs a single poll and handles its result.
func (w *Worker) Step(ctx context.Context) {
	t := w.now()

	ev, changed, err := w.cfg.Scanner.Poll()
	if err != nil {
		log.Printf("scan error: %v", err)
		if w.cfg.Tracker != nil {
			w.cfg.Tracker.AddScanError()
		}
	}

	if changed {
		log.Debugf("port 0x%02X row %d col %d", ev.Snapshot, ev.Row, ev.Col)
		events := w.cfg.Machine.Process(ctx, dial.Input{
			OffHook: keypad.OffHook(ev.Snapshot),
			Key:     ev.Key,
			Time:    t,
		})
		for _, e := range events {
			log.Printf("event: %s (state=%s)", e.Type, e.State)
			if err := w.cfg.Publisher.Publish(e); err != nil {
				log.Printf("publish error: %v", err)
			}
		}
		if w.cfg.Tracker != nil {
			w.cfg.Tracker.SetPort(ev.Snapshot, ev.Key)
		}
	}

	w.updateTracker()
	w.checkHeartbeat(t)
}

func (w *Worker) updateTracker() {
	if w.cfg.Tracker == nil {
		return
	}
	m := w.cfg.Machine
	w.cfg.Tracker.Update(m.State(), m.Digits(), m.ActiveCall(), m.CountsSnapshot())
	if w.cfg.MQTTStatus != nil {
		w.cfg.Tracker.SetMQTTConnected(w.cfg.MQTTStatus.IsConnected())
	}
}

func (w *Worker) checkHeartbeat(t time.Time) {
	if w.cfg.Heartbeat <= 0 {
		return
	}
	if w.lastHeartbeat.IsZero() {
		w.lastHeartbeat = t
		return
	}
	if t.Sub(w.lastHeartbeat) < w.cfg.Heartbeat {
		return
	}
	w.lastHeartbeat = t

	c := w.cfg.Machine.CountsSnapshot()
	log.Printf("heartbeat: state=%s calls=%d failed=%d dtmf=%d",
		w.cfg.Machine.State(), c.CallsPlaced, c.CallsFailed, c.DTMF)

	hb := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "HEARTBEAT",
	}
	if w.cfg.Tracker != nil {
		hb.RawPayload = status.FormatStatusEvent(w.cfg.Tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := w.cfg.Publisher.PublishSystem(hb); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// Start runs the worker on a new goroutine.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go func() {
		defer close(w.done)
		w.err = w.Run(ctx)
	}()
}

// Stop cancels a started worker and waits for Run to return.
func (w *Worker) Stop() error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	<-w.done
	return w.err
}

// Done is closed when a started worker's Run returns.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
