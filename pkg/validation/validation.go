package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/OldStager01/motortemp/pkg/models"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSamples is returned for an empty batch
	ErrNoSamples = errors.New("no samples provided")
)

// FieldError describes a single value that could not be parsed as a number
type FieldError struct {
	Field string
	Value interface{}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("could not convert %s value %s to float", e.Field, describe(e.Value))
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// MissingFieldsError lists required fields absent from a sample
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrInvalidInput
}

// MissingFields returns the required feature names absent from raw, in model input order.
func MissingFields(raw map[string]interface{}) []string {
	var missing []string
	for _, name := range models.FeatureNames() {
		if _, ok := raw[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ParseFeatures validates a raw sample and assembles the ordered feature record.
// Presence of every field is checked before any value is parsed.
func ParseFeatures(raw map[string]interface{}) (models.FeatureRecord, error) {
	if missing := MissingFields(raw); len(missing) > 0 {
		return models.FeatureRecord{}, &MissingFieldsError{Fields: missing}
	}

	vector := make([]float64, 0, models.FeatureCount)
	for _, name := range models.FeatureNames() {
		v, err := ParseFloat(raw[name])
		if err != nil {
			return models.FeatureRecord{}, &FieldError{Field: name, Value: raw[name]}
		}
		vector = append(vector, v)
	}

	return models.NewFeatureRecord(vector), nil
}

// ParseFloat coerces a decoded JSON value to a finite float64.
// Numbers and numeric strings are accepted; booleans, null and containers are not.
func ParseFloat(value interface{}) (float64, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, ErrInvalidInput
		}
		f = parsed
	case string:
		parsed, err := parseNumericString(v)
		if err != nil {
			return 0, ErrInvalidInput
		}
		f = parsed
	default:
		return 0, ErrInvalidInput
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidInput
	}
	return f, nil
}

// parseNumericString accepts plain decimal notation with optional exponent.
// Only surrounding whitespace is trimmed; embedded control characters,
// digit separators and hex literals fail.
func parseNumericString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsRune(s, '_') {
		return 0, ErrInvalidInput
	}
	body := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(body, "0x") {
		return 0, ErrInvalidInput
	}
	return strconv.ParseFloat(s, 64)
}

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateLimit clamps a requested page size into [1, max], falling back to def when unset.
func ValidateLimit(requested, def, max int) int {
	if requested <= 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}

func describe(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
