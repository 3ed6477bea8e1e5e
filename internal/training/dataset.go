package training

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Reading is a numeric CSV cell. Blank cells decode as NaN so preprocessing can drop them.
type Reading float64

func (r *Reading) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*r = Reading(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*r = Reading(v)
	return nil
}

func (r Reading) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(r), 'f', -1, 64), nil
}

// Row is one dataset line. Columns not listed here are ignored on load.
type Row struct {
	Ambient    Reading `csv:"ambient"`
	Coolant    Reading `csv:"coolant"`
	UD         Reading `csv:"u_d"`
	UQ         Reading `csv:"u_q"`
	MotorSpeed Reading `csv:"motor_speed"`
	ID         Reading `csv:"i_d"`
	IQ         Reading `csv:"i_q"`
	PM         Reading `csv:"pm"`
}

// Features returns the model inputs in training order.
func (r *Row) Features() []float64 {
	return []float64{
		float64(r.Ambient),
		float64(r.Coolant),
		float64(r.UD),
		float64(r.UQ),
		float64(r.MotorSpeed),
		float64(r.ID),
		float64(r.IQ),
	}
}

func (r *Row) Target() float64 {
	return float64(r.PM)
}

func (r *Row) values() []float64 {
	return append(r.Features(), r.Target())
}

func LoadDataset(path string) ([]*Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []*Row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func SaveDataset(path string, rows []*Row) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", filepath.Base(path), err)
	}
	return nil
}
