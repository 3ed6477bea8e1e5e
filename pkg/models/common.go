package models

import (
	"math"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID string
func NewUUID() string {
	return uuid.New().String()
}

// Round4 rounds a value to 4 decimal digits
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
