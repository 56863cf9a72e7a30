package tts

import (
	"fmt"
	"math"
)

const (
	// BaseRate is the offline engine's speech rate at speed 1.0, in words per minute.
	BaseRate = 175

	// MinSpeed and MaxSpeed bound the speed multiplier.
	MinSpeed = 0.5
	MaxSpeed = 2.0

	// SlowThreshold is the speed below which discrete-speed backends switch to slow speech.
	SlowThreshold = 0.8

	// DefaultSpeed and DefaultVolume match the shipped configuration file.
	DefaultSpeed  = 1.0
	DefaultVolume = 0.8
)

// RateForSpeed converts a speed multiplier to words per minute.
func RateForSpeed(speed float64) int {
	return int(math.Round(BaseRate * speed))
}

// SlowForSpeed reports whether a backend with only normal and slow speech
// should use slow speech for the given multiplier.
func SlowForSpeed(speed float64) bool {
	return speed < SlowThreshold
}

// ClampSpeed limits speed to [MinSpeed, MaxSpeed].
func ClampSpeed(speed float64) float64 {
	return math.Max(MinSpeed, math.Min(MaxSpeed, speed))
}

// ClampVolume limits volume to [0.0, 1.0].
func ClampVolume(volume float64) float64 {
	return math.Max(0, math.Min(1, volume))
}

// SpeedDisplay returns a human-readable speed description.
func SpeedDisplay(speed float64) string {
	switch speed {
	case 0.5:
		return "0.5x (Half Speed)"
	case 0.75:
		return "0.75x (Slow)"
	case 1.0:
		return "1.0x (Normal)"
	case 1.25:
		return "1.25x (Fast)"
	case 1.5:
		return "1.5x (Faster)"
	case 2.0:
		return "2.0x (Double Speed)"
	default:
		return fmt.Sprintf("%.2fx", speed)
	}
}
