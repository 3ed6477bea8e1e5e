package training

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultSyntheticRows = 10000
	DefaultSeed          = 42

	maxMotorSpeed = 3000.0
)

// GenerateSynthetic builds a motor dataset whose target rises with ambient temperature,
// speed and electrical load and falls with coolant temperature. The target is
// min-max normalized into [0,1].
func GenerateSynthetic(n int, seed uint64) []*Row {
	if n <= 0 {
		return nil
	}

	src := rand.NewPCG(seed, seed)
	uniform := func(min, max float64) distuv.Uniform {
		return distuv.Uniform{Min: min, Max: max, Src: src}
	}

	ambientDist := uniform(15, 35)
	coolingDist := uniform(2, 8)
	speedDist := uniform(0, maxMotorSpeed)
	electricalDist := uniform(-50, 50)
	noise := distuv.Normal{Mu: 0, Sigma: 2, Src: src}

	rows := make([]*Row, n)
	pm := make([]float64, n)
	for i := range rows {
		ambient := ambientDist.Rand()
		coolant := ambient - coolingDist.Rand()
		speed := speedDist.Rand()

		load := 0.5 + 0.5*speed/maxMotorSpeed
		ud := electricalDist.Rand() * load
		uq := electricalDist.Rand() * load
		id := electricalDist.Rand() * load
		iq := electricalDist.Rand() * load

		pm[i] = 20 +
			0.4*ambient -
			0.3*coolant +
			0.008*speed +
			0.2*(math.Abs(id)+math.Abs(iq)) +
			0.05*(math.Abs(ud)+math.Abs(uq)) +
			noise.Rand()

		rows[i] = &Row{
			Ambient:    Reading(ambient),
			Coolant:    Reading(coolant),
			UD:         Reading(ud),
			UQ:         Reading(uq),
			MotorSpeed: Reading(speed),
			ID:         Reading(id),
			IQ:         Reading(iq),
		}
	}

	lo, hi := floats.Min(pm), floats.Max(pm)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, row := range rows {
		row.PM = Reading((pm[i] - lo) / span)
	}

	return rows
}
