// Package plot turns engine plot data into backend-independent drawing
// primitives: composed graphs made of lines, symbols, patches and
// annotations in data coordinates, ready for any rendering surface.
package plot

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLayout means the lattice has no elements with layout shapes.
	ErrNoLayout = errors.New("plot: no layout elements")

	// ErrNoCurveData means a curve has neither line nor symbol points.
	ErrNoCurveData = errors.New("plot: no curve data")

	// ErrAllRegionsInUse means placement found no free display region.
	ErrAllRegionsInUse = errors.New("plot: all display regions in use")
)

// GraphInvalidError reports a graph the engine marked invalid, carrying the
// engine's reason.
type GraphInvalidError struct {
	Name   string
	Reason string
}

func (e *GraphInvalidError) Error() string {
	return fmt.Sprintf("plot: graph %s is invalid: %s", e.Name, e.Reason)
}

// UnsupportedGraphError reports a graph type this package cannot compose,
// such as key tables.
type UnsupportedGraphError struct {
	Name string
	Type string
}

func (e *UnsupportedGraphError) Error() string {
	return fmt.Sprintf("plot: graph %s has unsupported type %q", e.Name, e.Type)
}

// UnknownShapeError reports an element shape name outside the closed set of
// drawable shapes. Assemblers log and skip the element.
type UnknownShapeError struct {
	Shape string
}

func (e *UnknownShapeError) Error() string {
	return fmt.Sprintf("plot: unknown element shape %q", e.Shape)
}
