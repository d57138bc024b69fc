package pot

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("invalid pot config")
	// ErrDegenerateGeometry matches every *DegenerateError.
	ErrDegenerateGeometry = errors.New("degenerate pot geometry")
)

// ConfigError reports a parameter rejected before any piece is built.
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pot: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// DegenerateError reports a floor too narrow to hold any interior plank.
type DegenerateError struct {
	FloorDistance float64
	WallThickness float64
	PlankCount    int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("pot: floor span %.4g with %.4g mm planks gives %d plank slots, need at least %d",
		e.FloorDistance, e.WallThickness, e.PlankCount, minPlankSlots)
}

func (e *DegenerateError) Unwrap() error {
	return ErrDegenerateGeometry
}
