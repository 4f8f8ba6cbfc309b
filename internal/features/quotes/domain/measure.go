package domain

import (
	"errors"
	"fmt"
)

// Measurement units accepted by CBM.
const (
	UnitM  = "m"
	UnitCm = "cm"
	UnitMm = "mm"
	UnitIn = "in"
)

var metersPerUnit = map[string]float64{
	UnitM:  1,
	UnitCm: 0.01,
	UnitMm: 0.001,
	UnitIn: 0.0254,
}

// ErrInvalidDimensions is returned when a dimension or quantity is not positive.
var ErrInvalidDimensions = errors.New("dimensions and quantity must be positive")

// CBM returns the volume in cubic meters of qty identical packages with the
// given dimensions, converting from the given unit. This is the single CBM
// implementation; forms must not compute their own.
func CBM(length, width, height float64, qty int, unit string) (float64, error) {
	factor, ok := metersPerUnit[unit]
	if !ok {
		return 0, fmt.Errorf("unknown measurement unit: %q", unit)
	}
	if length <= 0 || width <= 0 || height <= 0 || qty <= 0 {
		return 0, ErrInvalidDimensions
	}

	return (length * factor) * (width * factor) * (height * factor) * float64(qty), nil
}
