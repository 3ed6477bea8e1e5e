package simulator

import (
	"math"
	"math/rand/v2"
	"time"
)

// Pattern drives the motor load factor over time. 0 is idle, 1 is rated load.
type Pattern interface {
	Load(elapsed time.Duration, rng *rand.Rand) float64
	Name() string
}

var (
	PatternSteady    Pattern = &SteadyPattern{Level: 0.5}
	PatternDutyCycle Pattern = &DutyCyclePattern{}
	PatternRandom    Pattern = &RandomPattern{}
	PatternRamp      Pattern = &RampPattern{}
	PatternSine      Pattern = &SineWavePattern{}
)

// ParsePattern resolves a pattern by name, falling back to steady.
func ParsePattern(name string) Pattern {
	switch name {
	case "duty_cycle":
		return PatternDutyCycle
	case "random":
		return PatternRandom
	case "ramp":
		return PatternRamp
	case "sine_wave":
		return PatternSine
	default:
		return PatternSteady
	}
}

func PatternNames() []string {
	return []string{"steady", "duty_cycle", "random", "ramp", "sine_wave"}
}

// SteadyPattern - constant load
type SteadyPattern struct {
	Level float64
}

func (p *SteadyPattern) Load(time.Duration, *rand.Rand) float64 {
	return p.Level
}

func (p *SteadyPattern) Name() string {
	return "steady"
}

// DutyCyclePattern alternates between a high and a low phase
type DutyCyclePattern struct {
	Period time.Duration
	High   float64
	Low    float64
}

func (p *DutyCyclePattern) Load(elapsed time.Duration, _ *rand.Rand) float64 {
	period, high, low := p.Period, p.High, p.Low
	if period == 0 {
		period = 2 * time.Minute
	}
	if high == 0 {
		high = 0.9
	}
	if low == 0 {
		low = 0.3
	}

	if elapsed%period < period/2 {
		return high
	}
	return low
}

func (p *DutyCyclePattern) Name() string {
	return "duty_cycle"
}

// RandomPattern - unpredictable load between 0.2 and 1.0
type RandomPattern struct{}

func (p *RandomPattern) Load(_ time.Duration, rng *rand.Rand) float64 {
	return 0.2 + 0.8*rng.Float64()
}

func (p *RandomPattern) Name() string {
	return "random"
}

// RampPattern - slowly increasing load
type RampPattern struct {
	Start     float64
	PerMinute float64
}

func (p *RampPattern) Load(elapsed time.Duration, _ *rand.Rand) float64 {
	start, step := p.Start, p.PerMinute
	if start == 0 {
		start = 0.2
	}
	if step == 0 {
		step = 0.1
	}
	return math.Min(start+elapsed.Minutes()*step, 1)
}

func (p *RampPattern) Name() string {
	return "ramp"
}

// SineWavePattern - smooth oscillation around half load
type SineWavePattern struct {
	Period    time.Duration
	Amplitude float64
}

func (p *SineWavePattern) Load(elapsed time.Duration, _ *rand.Rand) float64 {
	period, amplitude := p.Period, p.Amplitude
	if period == 0 {
		period = 10 * time.Minute
	}
	if amplitude == 0 {
		amplitude = 0.4
	}

	phase := float64(elapsed) / float64(period) * 2 * math.Pi
	return 0.5 + amplitude*math.Sin(phase)
}

func (p *SineWavePattern) Name() string {
	return "sine_wave"
}
