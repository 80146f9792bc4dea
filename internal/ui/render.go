package ui

import (
	"fmt"
	"math"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

// Prefs are the display preferences read from settings.
type Prefs struct {
	UseCelsius bool
	FontColor  string
	IconColor  int
	OnTop      bool
}

// View is a fully formatted snapshot, ready to draw.
type View struct {
	Battery   string
	Memory    string
	CPU       string
	Top       [model.TopSlots]string
	CPUBar    float64 // 0..1
	MemBar    float64 // 0..1, used share
	BattBar   float64 // 0..1
	IconLevel int     // 1..6
}

// Render formats a snapshot. It has no side effects.
func Render(s model.Snapshot, p Prefs) View {
	v := View{
		Battery:   batteryText(s.Battery, p.UseCelsius),
		Memory:    "MEM: " + ConvertToSize(s.Memory.AvailableBytes, true),
		CPU:       "CPU: " + ConvertToUsage(s.TotalCPU) + "%",
		CPUBar:    clamp01(s.TotalCPU / 100),
		IconLevel: IconLevel(s.TotalCPU),
	}
	for i, e := range s.Top {
		v.Top[i] = ConvertToUsage(e.CPUUsage) + "% " + e.Label
	}
	if s.Memory.TotalBytes > 0 && s.Memory.AvailableBytes <= s.Memory.TotalBytes {
		v.MemBar = float64(s.Memory.TotalBytes-s.Memory.AvailableBytes) / float64(s.Memory.TotalBytes)
	}
	if s.Battery.Level >= 0 {
		v.BattBar = clamp01(float64(s.Battery.Level) / 100)
	}
	return v
}

func batteryText(b model.BatteryState, celsius bool) string {
	level := "--"
	if b.Level >= 0 {
		level = fmt.Sprintf("%d", b.Level)
	}
	if b.TemperatureTenths == model.UnknownTemperature {
		return fmt.Sprintf("BAT: %s%%", level)
	}
	if celsius {
		return fmt.Sprintf("BAT: %s%% (%d℃)", level, Celsius(b.TemperatureTenths))
	}
	return fmt.Sprintf("BAT: %s%% (%d℉)", level, Fahrenheit(b.TemperatureTenths))
}

// Celsius converts tenths of a degree to whole degrees.
func Celsius(tenths int) int { return tenths / 10 }

// Fahrenheit converts tenths of a degree Celsius to whole degrees Fahrenheit.
func Fahrenheit(tenths int) int { return tenths/10*9/5 + 32 }

// IconLevel buckets total CPU usage into six meter levels.
func IconLevel(cpu float64) int {
	switch {
	case cpu < 20:
		return 1
	case cpu < 40:
		return 2
	case cpu < 60:
		return 3
	case cpu < 80:
		return 4
	case cpu < 100:
		return 5
	default:
		return 6
	}
}

// ConvertToSize formats a byte count, SI (1000) or binary (1024).
func ConvertToSize(data uint64, si bool) string {
	unit := uint64(1024)
	if si {
		unit = 1000
	}
	if data < unit {
		return fmt.Sprintf("%d B", data)
	}
	exp := int(math.Log(float64(data)) / math.Log(float64(unit)))
	if exp < 1 {
		exp = 1
	}
	if exp > 6 {
		exp = 6
	}
	pre := string("KMGTPE"[exp-1]) + "i"
	if si {
		pre = string("kMGTPE"[exp-1])
	}
	return fmt.Sprintf("%.1f %sB", float64(data)/math.Pow(float64(unit), float64(exp)), pre)
}

// ConvertToUsage formats a CPU percentage with one decimal.
func ConvertToUsage(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
