package battery

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

const DefaultSysfsRoot = "/sys/class/power_supply"

// SysfsSource emits battery events from the kernel power_supply class. The
// first event fires on subscribe; after that only changes are emitted. Stop
// does not wait for an in-flight callback, so one event may still land after
// it returns. Observer generations filter those out.
type SysfsSource struct {
	Root     string
	Interval time.Duration
}

func NewSysfsSource(interval time.Duration) *SysfsSource {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &SysfsSource{Root: DefaultSysfsRoot, Interval: interval}
}

func (s *SysfsSource) Subscribe(fn func(model.BatteryEvent)) (func(), error) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		last := s.Read()
		fn(last)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ev := s.Read()
				if ev == last {
					continue
				}
				last = ev
				select {
				case <-done:
					return
				default:
					fn(ev)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}, nil
}

// Read samples the first BAT* supply. A missing capacity yields -1 level and
// scale; a missing temp leaves HasTemperature unset.
func (s *SysfsSource) Read() model.BatteryEvent {
	ev := model.BatteryEvent{RawLevel: -1, Scale: -1}
	paths, err := filepath.Glob(filepath.Join(s.Root, "BAT*", "capacity"))
	if err != nil {
		log.Printf("warning: battery glob: %v", err)
		return ev
	}
	for _, capPath := range paths {
		base := filepath.Dir(capPath)
		level, ok := readInt(capPath)
		if !ok {
			continue
		}
		ev.RawLevel = level
		ev.Scale = 100
		if temp, ok := readInt(filepath.Join(base, "temp")); ok {
			ev.Temperature = temp
			ev.HasTemperature = true
		}
		return ev
	}
	return ev
}

func readInt(path string) (int, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, false
	}
	return v, true
}
