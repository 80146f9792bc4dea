package model

import "time"

// Category is a class of metric the provider can be asked for.
type Category int

const (
	CategoryOS Category = iota
	CategoryProcess
)

func (c Category) String() string {
	switch c {
	case CategoryOS:
		return "os"
	case CategoryProcess:
		return "process"
	default:
		return "unknown"
	}
}

// AllCategories is what every poll asks for.
var AllCategories = []Category{CategoryProcess, CategoryOS}

// PollRequest is one scheduled ask against the provider. A listener owns at
// most one outstanding request at a time.
type PollRequest struct {
	ID         string
	Listener   string
	Categories []Category
	Delay      time.Duration
}

// RawRecord is a category-tagged group of opaque payloads.
type RawRecord struct {
	Category Category
	Payloads [][]byte
}

// Delivery is what the provider hands back for a request. Nil Records means
// the provider had nothing for this cycle.
type Delivery struct {
	RequestID string
	Records   []RawRecord
}

// OsSample captures system memory in bytes.
type OsSample struct {
	Total    uint64 `json:"total"`
	Free     uint64 `json:"free"`
	Buffered uint64 `json:"buffered"`
	Cached   uint64 `json:"cached"`
}

// Available is free + buffered + cached.
func (o OsSample) Available() uint64 {
	return o.Free + o.Buffered + o.Cached
}

// ProcessSample is a single process reading.
type ProcessSample struct {
	Name     string  `json:"name"`
	PID      int     `json:"pid"`
	UID      int     `json:"uid"`
	Owner    string  `json:"owner"`
	CPUUsage float64 `json:"cpu"` // percent
}

// TopEntry is one ranked slot.
type TopEntry struct {
	CPUUsage float64 `json:"cpu"`
	Label    string  `json:"label"`
}

// TopSlots is the fixed width of the ranking.
const TopSlots = 3

// BatteryEvent mirrors a battery-changed broadcast. A negative RawLevel or
// Scale is absent. Temperature is only meaningful with HasTemperature set,
// since readings below zero are valid.
type BatteryEvent struct {
	RawLevel       int
	Scale          int
	Temperature    int // tenths of a degree Celsius
	HasTemperature bool
}

// UnknownTemperature marks a BatteryState with no temperature reading.
const UnknownTemperature = -1

// BatteryState is the folded battery view. Level is -1 when unknown and
// TemperatureTenths is UnknownTemperature when unavailable.
type BatteryState struct {
	Level             int `json:"level"`
	TemperatureTenths int `json:"temperature_tenths"`
}

// UnknownBattery is the state before any event arrives.
func UnknownBattery() BatteryState {
	return BatteryState{Level: -1, TemperatureTenths: UnknownTemperature}
}

// Memory is the poll-derived memory view.
type Memory struct {
	TotalBytes     uint64 `json:"total_bytes"`
	AvailableBytes uint64 `json:"available_bytes"`
}

// Cycle is everything a single decode pass produces.
type Cycle struct {
	Memory   Memory
	HasOS    bool
	Top      [TopSlots]TopEntry
	TotalCPU float64
	Skipped  int
}

// Snapshot is the read model handed to renderers.
type Snapshot struct {
	UpdatedAt time.Time          `json:"updated_at"`
	Cycles    uint64             `json:"cycles"`
	Memory    Memory             `json:"memory"`
	Top       [TopSlots]TopEntry `json:"top"`
	TotalCPU  float64            `json:"total_cpu"`
	Skipped   int                `json:"skipped"`
	Battery   BatteryState       `json:"battery"`
}

// Zero returns an empty snapshot for initialization.
func Zero() Snapshot { return Snapshot{Battery: UnknownBattery()} }
