package battery

import (
	"math"
	"sync"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

// Source is an external battery-change event stream.
type Source interface {
	// Subscribe starts delivering events to fn until the returned stop func
	// is called.
	Subscribe(fn func(model.BatteryEvent)) (stop func(), err error)
}

// Apply folds one event into the previous state. The level only moves when
// the event carries a usable level and scale. The temperature is always
// overwritten, with UnknownTemperature when the event has none.
func Apply(prev model.BatteryState, ev model.BatteryEvent) model.BatteryState {
	next := prev
	if ev.RawLevel >= 0 && ev.Scale > 0 {
		next.Level = int(math.Round(float64(ev.RawLevel) * 100 / float64(ev.Scale)))
	}
	next.TemperatureTenths = model.UnknownTemperature
	if ev.HasTemperature {
		next.TemperatureTenths = ev.Temperature
	}
	return next
}

// Observer binds a Source subscription to the awake/asleep lifecycle. Each
// subscription gets a generation number that is passed to deliver, so events
// from a stopped subscription can be told apart with Current.
type Observer struct {
	src     Source
	deliver func(gen uint64, ev model.BatteryEvent)

	mu   sync.Mutex
	stop func()
	gen  uint64
}

func NewObserver(src Source, deliver func(gen uint64, ev model.BatteryEvent)) *Observer {
	return &Observer{src: src, deliver: deliver}
}

// Start subscribes if not already subscribed.
func (o *Observer) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stop != nil || o.src == nil {
		return nil
	}
	o.gen++
	gen := o.gen
	stop, err := o.src.Subscribe(func(ev model.BatteryEvent) { o.deliver(gen, ev) })
	if err != nil {
		return err
	}
	o.stop = stop
	return nil
}

// Current reports whether gen is the live subscription.
func (o *Observer) Current(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stop != nil && gen == o.gen
}

// Stop unsubscribes if subscribed.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stop == nil {
		return
	}
	o.stop()
	o.stop = nil
}

// Active reports whether a subscription is live.
func (o *Observer) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stop != nil
}
