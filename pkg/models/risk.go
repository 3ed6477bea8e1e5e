package models

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskNormal   RiskLevel = "normal"
	RiskWarning  RiskLevel = "warning"
	RiskCritical RiskLevel = "critical"
)

const (
	riskNormalThreshold   = 0.3
	riskWarningThreshold  = 0.6
	riskCriticalThreshold = 0.8
)

// ClassifyRisk maps a normalized temperature to a risk level.
// Each threshold belongs to the upper level. NaN is treated as critical.
func ClassifyRisk(t float64) RiskLevel {
	switch {
	case t < riskNormalThreshold:
		return RiskLow
	case t < riskWarningThreshold:
		return RiskNormal
	case t < riskCriticalThreshold:
		return RiskWarning
	default:
		return RiskCritical
	}
}

// RiskLevels returns every level in ascending order
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskNormal, RiskWarning, RiskCritical}
}

// Level returns the ordinal position of the level, or -1 if unknown.
func (r RiskLevel) Level() int {
	for i, l := range RiskLevels() {
		if l == r {
			return i
		}
	}
	return -1
}

func (r RiskLevel) IsValid() bool {
	return r.Level() >= 0
}

// AtLeast reports whether r is as severe as other or more.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Level() >= other.Level()
}
