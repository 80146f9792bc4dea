package poller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dicklesworthstone/osmonitor/internal/battery"
	"github.com/Dicklesworthstone/osmonitor/internal/model"
	"github.com/Dicklesworthstone/osmonitor/internal/ranking"
	"github.com/Dicklesworthstone/osmonitor/internal/wire"
)

var ErrClosed = errors.New("poller closed")

const fallbackInterval = 2 * time.Second

// Provider is the stats source. Request must not call deliver synchronously.
type Provider interface {
	Request(req model.PollRequest, deliver func(model.Delivery)) error
	Cancel(listener string)
	Disconnect() error
	KillProcess(pid int) error
}

// Settings is read at wake and at every reschedule.
type Settings interface {
	Interval() time.Duration
	Root() bool
}

type State int

const (
	Asleep State = iota
	Awake
)

func (s State) String() string {
	if s == Awake {
		return "awake"
	}
	return "asleep"
}

// Config wires a Controller to its collaborators.
type Config struct {
	Provider Provider
	Settings Settings
	Codec    wire.Codec
	Labeler  ranking.Labeler
	Battery  battery.Source
	Store    *Store
	// Kill terminates a process directly when the root setting is off.
	Kill func(pid int) error
}

// Controller drives the request/decode/reschedule cycle. All state changes run
// on the Run loop, so no two cycles ever overlap.
type Controller struct {
	provider Provider
	settings Settings
	decoder  *wire.Decoder
	board    *ranking.Board
	observer *battery.Observer
	store    *Store
	kill     func(int) error
	listener string
	now      func() time.Time

	events    chan func()
	quit      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once

	// owned by the Run loop
	state    State
	pending  string
	interval time.Duration
	batt     model.BatteryState
	misses   uint64
}

// New builds a controller. Provider is required.
func New(cfg Config) *Controller {
	if cfg.Provider == nil {
		panic("poller: nil Provider")
	}
	store := cfg.Store
	if store == nil {
		store = NewStore()
	}
	c := &Controller{
		provider: cfg.Provider,
		settings: cfg.Settings,
		decoder:  wire.NewDecoder(cfg.Codec),
		board:    ranking.NewBoard(cfg.Labeler),
		store:    store,
		kill:     cfg.Kill,
		listener: uuid.NewString(),
		now:      time.Now,
		events:   make(chan func(), 64),
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
		batt:     model.UnknownBattery(),
	}
	c.observer = battery.NewObserver(cfg.Battery, c.onBattery)
	return c
}

// Run processes controller events until ctx is done or Close is called. It
// must be running for Wake, Sleep and the accessors to return.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.exited)
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.quit:
			return nil
		case <-ctx.Done():
			c.sleep()
			return ctx.Err()
		}
	}
}

// do runs fn on the loop and waits for it.
func (c *Controller) do(fn func()) error {
	done := make(chan struct{})
	select {
	case c.events <- func() { fn(); close(done) }:
	case <-c.quit:
		return ErrClosed
	case <-c.exited:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-c.quit:
		return ErrClosed
	case <-c.exited:
		return ErrClosed
	}
}

// post queues fn on the loop without waiting.
func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.quit:
	case <-c.exited:
	}
}

// Wake supersedes any scheduled request with an immediate one and starts the
// battery subscription.
func (c *Controller) Wake() error { return c.do(c.wake) }

// Sleep cancels the scheduled request and stops the battery subscription.
func (c *Controller) Sleep() error { return c.do(c.sleep) }

// Close sleeps, stops the loop and disconnects the provider.
func (c *Controller) Close() error {
	closed := false
	c.closeOnce.Do(func() {
		_ = c.do(c.sleep)
		close(c.quit)
		closed = true
	})
	if !closed {
		return ErrClosed
	}
	if err := c.provider.Disconnect(); err != nil {
		return fmt.Errorf("disconnect provider: %w", err)
	}
	return nil
}

// State reports the lifecycle state.
func (c *Controller) State() State {
	var s State
	if err := c.do(func() { s = c.state }); err != nil {
		return Asleep
	}
	return s
}

// Pending is the ID of the outstanding request, empty when none.
func (c *Controller) Pending() string {
	var id string
	_ = c.do(func() { id = c.pending })
	return id
}

// Listener is this controller's identity towards the provider.
func (c *Controller) Listener() string { return c.listener }

// Snapshot returns the current read model.
func (c *Controller) Snapshot() model.Snapshot { return c.store.Load() }

// Store exposes the read model for renderers.
func (c *Controller) Store() *Store { return c.store }

// KillProcess terminates pid, through the provider when running as root.
func (c *Controller) KillProcess(pid int) error {
	if c.settings != nil && c.settings.Root() {
		if err := c.provider.KillProcess(pid); err != nil {
			return fmt.Errorf("provider kill %d: %w", pid, err)
		}
		return nil
	}
	if c.kill == nil {
		return fmt.Errorf("kill %d: no direct kill available", pid)
	}
	return c.kill(pid)
}

func (c *Controller) wake() {
	c.interval = c.currentInterval()
	c.provider.Cancel(c.listener)
	c.pending = ""
	c.state = Awake
	c.issue(0)
	if err := c.observer.Start(); err != nil {
		log.Printf("warning: battery subscribe: %v", err)
	}
}

func (c *Controller) sleep() {
	c.provider.Cancel(c.listener)
	c.pending = ""
	c.observer.Stop()
	c.state = Asleep
}

func (c *Controller) currentInterval() time.Duration {
	if c.settings == nil {
		return fallbackInterval
	}
	if d := c.settings.Interval(); d > 0 {
		return d
	}
	return fallbackInterval
}

func (c *Controller) issue(delay time.Duration) {
	req := model.PollRequest{
		ID:         uuid.NewString(),
		Listener:   c.listener,
		Categories: model.AllCategories,
		Delay:      delay,
	}
	if err := c.provider.Request(req, c.onDelivery); err != nil {
		log.Printf("warning: poll request: %v", err)
		return
	}
	c.pending = req.ID
}

func (c *Controller) onDelivery(d model.Delivery) {
	c.post(func() { c.complete(d) })
}

// complete handles one finished request. Late deliveries for cancelled or
// superseded requests are dropped without rescheduling.
func (c *Controller) complete(d model.Delivery) {
	if c.state != Awake || d.RequestID == "" || d.RequestID != c.pending {
		return
	}
	c.pending = ""

	if d.Records != nil {
		c.aggregate(d.Records)
	} else {
		c.misses++
		log.Printf("warning: provider returned no data (%d misses)", c.misses)
	}

	c.interval = c.currentInterval()
	c.issue(c.interval)
}

func (c *Controller) aggregate(records []model.RawRecord) {
	res := c.decoder.Decode(records)
	for _, s := range res.Skipped {
		log.Printf("warning: skipped payload: %s", s)
	}

	top, total := c.board.Rank(res.Processes)
	cycle := model.Cycle{
		Top:      top,
		TotalCPU: total,
		Skipped:  len(res.Skipped),
	}
	if res.OS != nil {
		cycle.HasOS = true
		cycle.Memory = model.Memory{
			TotalBytes:     res.OS.Total,
			AvailableBytes: res.OS.Available(),
		}
	}
	c.store.PublishCycle(cycle, c.now())
}

func (c *Controller) onBattery(gen uint64, ev model.BatteryEvent) {
	c.post(func() {
		if c.state != Awake || !c.observer.Current(gen) {
			return
		}
		c.batt = battery.Apply(c.batt, ev)
		c.store.PublishBattery(c.batt)
	})
}
