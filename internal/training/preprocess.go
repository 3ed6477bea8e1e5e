package training

import (
	"math"
	"math/rand/v2"
	"sort"
)

const iqrFactor = 1.5

// Clean drops rows holding a NaN or a negative value in any column.
func Clean(rows []*Row) []*Row {
	kept := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if validRow(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

func validRow(row *Row) bool {
	if row == nil {
		return false
	}
	for _, v := range row.values() {
		if math.IsNaN(v) || v < 0 {
			return false
		}
	}
	return true
}

// Bounds is the inclusive capping range of one feature column.
type Bounds struct {
	Lower float64
	Upper float64
}

// OutlierBounds computes [Q1-1.5*IQR, Q3+1.5*IQR] per feature column.
func OutlierBounds(features [][]float64) []Bounds {
	if len(features) == 0 {
		return nil
	}

	width := len(features[0])
	bounds := make([]Bounds, width)
	column := make([]float64, len(features))
	for j := 0; j < width; j++ {
		for i, row := range features {
			column[i] = row[j]
		}
		sort.Float64s(column)

		q1 := quantile(0.25, column)
		q3 := quantile(0.75, column)
		iqr := q3 - q1
		bounds[j] = Bounds{Lower: q1 - iqrFactor*iqr, Upper: q3 + iqrFactor*iqr}
	}
	return bounds
}

// quantile interpolates linearly between the order statistics that bracket
// position p*(n-1) of sorted data.
func quantile(p float64, sorted []float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// CapOutliers clips every feature into its bounds in place.
func CapOutliers(features [][]float64, bounds []Bounds) {
	for _, row := range features {
		for j := range row {
			row[j] = math.Max(bounds[j].Lower, math.Min(bounds[j].Upper, row[j]))
		}
	}
}

// Split is a shuffled train/test partition.
type Split struct {
	TrainX [][]float64
	TrainY []float64
	TestX  [][]float64
	TestY  []float64
}

// TrainTestSplit shuffles with seed and holds out testFraction of the rows, at least one.
func TrainTestSplit(x [][]float64, y []float64, testFraction float64, seed uint64) Split {
	n := len(x)
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)

	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 && n > 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	var split Split
	for k, i := range perm {
		if k < nTest {
			split.TestX = append(split.TestX, x[i])
			split.TestY = append(split.TestY, y[i])
			continue
		}
		split.TrainX = append(split.TrainX, x[i])
		split.TrainY = append(split.TrainY, y[i])
	}
	return split
}
