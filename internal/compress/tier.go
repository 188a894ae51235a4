package compress

import "smartconv/internal/port"

const (
	MinLevel = 1
	MaxLevel = 100
)

var (
	Aggressive   = port.CompressionTier{Name: "aggressive", GSPreset: "/screen", DPI: 72, JPEGQuality: 40}
	Balanced     = port.CompressionTier{Name: "balanced", GSPreset: "/ebook", DPI: 110, JPEGQuality: 60}
	HighFidelity = port.CompressionTier{Name: "high_fidelity", GSPreset: "/printer", DPI: 150, JPEGQuality: 80}
)

// ClampLevel forces level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// TierFor clamps level and maps it to a quality tier.
func TierFor(level int) port.CompressionTier {
	switch l := ClampLevel(level); {
	case l > 80:
		return Aggressive
	case l > 50:
		return Balanced
	default:
		return HighFidelity
	}
}
