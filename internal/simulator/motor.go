package simulator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/OldStager01/motortemp/pkg/models"
)

const maxLoad = 1.5

type MotorConfig struct {
	AmbientBase float64
	MaxSpeed    float64
	Seed        uint64
	Pattern     Pattern

	// Clock overrides time.Now
	Clock func() time.Time
}

// MotorSim produces telemetry for one simulated motor. Readings stay
// non-negative so they fall inside the range the model was trained on.
type MotorSim struct {
	ambientBase float64
	maxSpeed    float64
	pattern     Pattern
	overload    *Overload
	rng         *rand.Rand
	ambient     distuv.Normal
	cooling     distuv.Uniform
	clock       func() time.Time
	start       time.Time
	mu          sync.Mutex
}

// Overload temporarily multiplies the pattern load, ramping up linearly.
type Overload struct {
	Factor    float64
	StartTime time.Time
	Duration  time.Duration
	RampUp    time.Duration
}

func NewMotorSim(cfg MotorConfig) *MotorSim {
	if cfg.AmbientBase == 0 {
		cfg.AmbientBase = 25
	}
	if cfg.MaxSpeed == 0 {
		cfg.MaxSpeed = 3000
	}
	if cfg.Pattern == nil {
		cfg.Pattern = PatternSteady
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	return &MotorSim{
		ambientBase: cfg.AmbientBase,
		maxSpeed:    cfg.MaxSpeed,
		pattern:     cfg.Pattern,
		rng:         rand.New(src),
		ambient:     distuv.Normal{Mu: cfg.AmbientBase, Sigma: 0.5, Src: src},
		cooling:     distuv.Uniform{Min: 2, Max: 8, Src: src},
		clock:       cfg.Clock,
		start:       cfg.Clock(),
	}
}

func (m *MotorSim) SetPattern(p Pattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pattern = p
}

func (m *MotorSim) PatternName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pattern.Name()
}

func (m *MotorSim) TriggerOverload(factor float64, duration, rampUp time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.overload = &Overload{
		Factor:    factor,
		StartTime: m.clock(),
		Duration:  duration,
		RampUp:    rampUp,
	}
}

// Load returns the current load factor including any active overload.
func (m *MotorSim) Load() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(m.clock())
}

func (m *MotorSim) load(now time.Time) float64 {
	base := m.pattern.Load(now.Sub(m.start), m.rng)

	if o := m.overload; o != nil {
		since := now.Sub(o.StartTime)
		switch {
		case since >= o.Duration:
			m.overload = nil
		case o.RampUp > 0 && since < o.RampUp:
			base *= 1 + (o.Factor-1)*float64(since)/float64(o.RampUp)
		default:
			base *= o.Factor
		}
	}

	return math.Max(0, math.Min(maxLoad, base))
}

// Sample draws one telemetry reading at the current load.
func (m *MotorSim) Sample() models.FeatureRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	load := m.load(m.clock())
	ambient := math.Max(0, m.ambient.Rand())
	coolant := math.Max(0, ambient-m.cooling.Rand())

	jitter := func(scale float64) float64 {
		return scale * load * (0.8 + 0.4*m.rng.Float64())
	}

	return models.FeatureRecord{
		Ambient:    ambient,
		Coolant:    coolant,
		UD:         jitter(30),
		UQ:         jitter(30),
		MotorSpeed: math.Min(m.maxSpeed, load*m.maxSpeed),
		ID:         jitter(40),
		IQ:         jitter(40),
	}
}
