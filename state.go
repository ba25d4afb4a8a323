/*
Copyright © 2026 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package aerosol

import "gonum.org/v1/gonum/mat"

// Standard conditions used to initialize a new State.
const (
	StandardTemperature = 298.15   // [K]
	StandardPressure    = 101325.0 // [Pa]
)

// State is a row-major store of state variables and parameters, one row
// per grid cell, addressed through name-to-column tables. It stands in
// for the state container of an external chemistry solver.
//
// Different grid cells may be read and written concurrently; the maps
// must not be modified once the state is in use.
type State struct {
	// VariableMap and ParameterMap give the column of each
	// qualified name in Variables and Parameters.
	VariableMap  map[string]int
	ParameterMap map[string]int

	// Variables holds the solver-integrated quantities and Parameters
	// the per-run constants, each with one row per grid cell. Either
	// is nil if the layout has no names of that kind.
	Variables  *mat.Dense
	Parameters *mat.Dense

	// Conditions holds the ambient conditions of each grid cell.
	Conditions []Conditions

	layout *Layout
}

// NewState allocates a zeroed state with the given number of grid cells
// from layout l. All cells start at standard conditions.
func NewState(l *Layout, cells int) (*State, error) {
	if cells < 1 {
		return nil, ConfigErrorf("", "a state needs at least one grid cell; got %d", cells)
	}
	s := &State{
		VariableMap:  make(map[string]int, len(l.Variables)),
		ParameterMap: make(map[string]int, len(l.Parameters)),
		Variables:    newDense(cells, len(l.Variables)),
		Parameters:   newDense(cells, len(l.Parameters)),
		Conditions:   make([]Conditions, cells),
		layout:       l,
	}
	for i, n := range l.Variables {
		s.VariableMap[n] = i
	}
	for i, n := range l.Parameters {
		s.ParameterMap[n] = i
	}
	c := NewConditions(StandardTemperature, StandardPressure)
	for i := range s.Conditions {
		s.Conditions[i] = c
	}
	return s, nil
}

// newDense returns nil instead of panicking when there are no columns.
func newDense(r, c int) *mat.Dense {
	if c == 0 {
		return nil
	}
	return mat.NewDense(r, c, nil)
}

// Layout returns the layout the state was allocated from.
func (s *State) Layout() *Layout { return s.layout }

// NumCells returns the number of grid cells in the state.
func (s *State) NumCells() int { return len(s.Conditions) }

// VariableIndex returns the column of the named state variable. If it
// is missing, the returned *LookupError names owner as the entity that
// needed it.
func (s *State) VariableIndex(name, owner string) (int, error) {
	i, ok := s.VariableMap[name]
	if !ok {
		return 0, &LookupError{Kind: "variable", Key: name, Owner: owner}
	}
	return i, nil
}

// ParameterIndex is like VariableIndex but for state parameters.
func (s *State) ParameterIndex(name, owner string) (int, error) {
	i, ok := s.ParameterMap[name]
	if !ok {
		return 0, &LookupError{Kind: "parameter", Key: name, Owner: owner}
	}
	return i, nil
}

// Variable returns the value of variable column i in the given cell.
func (s *State) Variable(cell, i int) float64 { return s.Variables.At(cell, i) }

// SetVariable sets the value of variable column i in the given cell.
func (s *State) SetVariable(cell, i int, v float64) { s.Variables.Set(cell, i, v) }

// Parameter returns the value of parameter column i in the given cell.
func (s *State) Parameter(cell, i int) float64 { return s.Parameters.At(cell, i) }

// SetParameter sets the value of parameter column i in the given cell.
func (s *State) SetParameter(cell, i int, v float64) { s.Parameters.Set(cell, i, v) }

// SetConditions sets the ambient conditions of every grid cell to c.
func (s *State) SetConditions(c Conditions) {
	for i := range s.Conditions {
		s.Conditions[i] = c
	}
}
