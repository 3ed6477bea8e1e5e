package models

const (
	FieldAmbient    = "ambient"
	FieldCoolant    = "coolant"
	FieldUD         = "u_d"
	FieldUQ         = "u_q"
	FieldMotorSpeed = "motor_speed"
	FieldID         = "i_d"
	FieldIQ         = "i_q"

	// TargetName is the quantity the regressor estimates
	TargetName = "permanent_magnet_temperature"
)

// FeatureCount is the width of every feature vector
const FeatureCount = 7

// FeatureNames lists the model inputs in the order the scaler and regressor were fit with.
func FeatureNames() []string {
	return []string{
		FieldAmbient,
		FieldCoolant,
		FieldUD,
		FieldUQ,
		FieldMotorSpeed,
		FieldID,
		FieldIQ,
	}
}

// FeatureRecord is one motor telemetry sample. Field order matches FeatureNames.
type FeatureRecord struct {
	Ambient    float64 `json:"ambient" example:"25.5"`
	Coolant    float64 `json:"coolant" example:"22.3"`
	UD         float64 `json:"u_d" example:"0.45"`
	UQ         float64 `json:"u_q" example:"0.38"`
	MotorSpeed float64 `json:"motor_speed" example:"1500"`
	ID         float64 `json:"i_d" example:"12.5"`
	IQ         float64 `json:"i_q" example:"15.2"`
}

// NewFeatureRecord builds a record from a vector ordered like FeatureNames.
// The vector must hold FeatureCount values.
func NewFeatureRecord(v []float64) FeatureRecord {
	return FeatureRecord{
		Ambient:    v[0],
		Coolant:    v[1],
		UD:         v[2],
		UQ:         v[3],
		MotorSpeed: v[4],
		ID:         v[5],
		IQ:         v[6],
	}
}

// Vector returns the record values in model input order.
func (f FeatureRecord) Vector() []float64 {
	return []float64{f.Ambient, f.Coolant, f.UD, f.UQ, f.MotorSpeed, f.ID, f.IQ}
}
