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

// Package scheme holds modal and sectional aerosol schemes: named
// particle populations with explicit physical parameters that read and
// write their moments directly in a State.
package scheme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spatialmodel/aerosol"
	"gonum.org/v1/gonum/floats"
)

// Numerical stability limits for effective radius calculations.
const (
	MinMass   = 1e-18 // [kg m-3]
	MinNumber = 1e-10 // [# m-3]
)

// Moments are the scalar state variables every scheme carries in
// addition to the mass of each of its species.
var Moments = []string{aerosol.NumberConcentration, aerosol.Density, aerosol.Radius}

// DistributionType selects which moments of a scheme are tracked.
type DistributionType int

const (
	// SingleMoment schemes track mass only. The radius is fixed and the
	// number concentration follows from mass and radius.
	SingleMoment DistributionType = iota

	// TwoMoment schemes track mass and number concentration, and the
	// radius is calculated from them.
	TwoMoment
)

func (t DistributionType) String() string {
	switch t {
	case SingleMoment:
		return "single_moment"
	case TwoMoment:
		return "two_moment"
	default:
		return fmt.Sprintf("DistributionType(%d)", int(t))
	}
}

// ParseDistributionType returns the DistributionType named s, which
// can be "single_moment", "two_moment", or their short forms "single"
// and "two".
func ParseDistributionType(s string) (DistributionType, error) {
	switch strings.ToLower(s) {
	case "single_moment", "single":
		return SingleMoment, nil
	case "two_moment", "two":
		return TwoMoment, nil
	default:
		return 0, aerosol.ConfigErrorf("", "invalid distribution type '%s'", s)
	}
}

// Indices holds the State columns of a resolved scheme.
type Indices struct {
	// Species maps each qualified species name to its column.
	Species map[string]int

	// species holds the columns in the order of the scheme's phases
	// and their species.
	species []int

	Number, Density, Radius int

	// layout is the layout of the State the indices were resolved in.
	layout *aerosol.Layout
}

func (idx *Indices) clone() *Indices {
	c := *idx
	c.Species = make(map[string]int, len(idx.Species))
	for k, v := range idx.Species {
		c.Species[k] = v
	}
	c.species = append([]int(nil), idx.species...)
	return &c
}

// Scheme is the part common to modes and sections. Its indices are
// unresolved until InitializeStateIndices succeeds, and are then bound
// to the layout of the State they were resolved in. Accessors called
// with a State of any other layout return a *UsageError.
type Scheme struct {
	name   string
	scope  string
	phases []aerosol.Phase
	typ    DistributionType

	idx *Indices
}

func newScheme(name string, phases []aerosol.Phase, typ DistributionType) (Scheme, error) {
	if name == "" {
		return Scheme{}, aerosol.ConfigErrorf("", "scheme name must not be empty")
	}
	if typ != SingleMoment && typ != TwoMoment {
		return Scheme{}, aerosol.ConfigErrorf(name, "invalid distribution type %v", typ)
	}
	return Scheme{name: name, phases: phases, typ: typ}, nil
}

// Name returns the name of the scheme, e.g. "aitken" or "large_drop".
func (s *Scheme) Name() string { return s.name }

// Phases returns the phases the scheme's particles are made of.
func (s *Scheme) Phases() []aerosol.Phase { return s.phases }

// Type returns the distribution type of the scheme.
func (s *Scheme) Type() DistributionType { return s.typ }

// Scope returns the name of the aerosol model that owns the scheme, if any.
func (s *Scheme) Scope() string { return s.scope }

// SetScope places the scheme's state names under scope. It must be
// called before the state indices are resolved.
func (s *Scheme) SetScope(scope string) error {
	if s.idx != nil {
		return aerosol.ConfigErrorf(s.name, "cannot change the scope of a scheme with resolved state indices")
	}
	s.scope = scope
	return nil
}

// Species returns the qualified state variable name of species in phase.
func (s *Scheme) Species(phase aerosol.Phase, species aerosol.Species) string {
	return aerosol.Join(s.scope, s.name, phase.Name, species.Name)
}

// NumberConcentration returns the qualified state variable name of the
// number concentration.
func (s *Scheme) NumberConcentration() string {
	return aerosol.Join(s.scope, s.name, aerosol.NumberConcentration)
}

// Density returns the qualified state variable name of the particle density.
func (s *Scheme) Density() string { return aerosol.Join(s.scope, s.name, aerosol.Density) }

// Radius returns the qualified state variable name of the effective radius.
func (s *Scheme) Radius() string { return aerosol.Join(s.scope, s.name, aerosol.Radius) }

// StateVariableNames returns the sorted names of the state variables the
// scheme needs.
func (s *Scheme) StateVariableNames() []string {
	var names []string
	for _, p := range s.phases {
		for _, sp := range p.Species {
			names = append(names, s.Species(p, sp))
		}
	}
	names = append(names, s.NumberConcentration(), s.Density(), s.Radius())
	return sortStrings(names)
}

// Resolved returns whether the state indices have been initialized.
func (s *Scheme) Resolved() bool { return s.idx != nil }

// BoundTo returns whether the state indices have been initialized
// against the layout of state.
func (s *Scheme) BoundTo(state *aerosol.State) bool {
	return s.idx != nil && s.idx.layout == state.Layout()
}

// Indices returns a copy of the resolved state indices, or a
// *UsageError if they have not been initialized.
func (s *Scheme) Indices() (*Indices, error) {
	if s.idx == nil {
		return nil, &aerosol.UsageError{Owner: s.name, Op: "Indices"}
	}
	return s.idx.clone(), nil
}

// InitializeStateIndices binds the scheme's state names to their
// columns in state. A *LookupError naming the first missing key is
// returned if any name is absent, and the previous binding, if any, is
// kept. Calls with a State of the layout already bound do nothing; a
// State of another layout rebinds the scheme to it.
func (s *Scheme) InitializeStateIndices(state *aerosol.State) error {
	if s.BoundTo(state) {
		return nil
	}
	idx := &Indices{Species: make(map[string]int), layout: state.Layout()}
	for _, p := range s.phases {
		for _, sp := range p.Species {
			key := s.Species(p, sp)
			i, err := state.VariableIndex(key, s.name)
			if err != nil {
				return err
			}
			idx.Species[key] = i
			idx.species = append(idx.species, i)
		}
	}
	var err error
	if idx.Number, err = state.VariableIndex(s.NumberConcentration(), s.name); err != nil {
		return err
	}
	if idx.Density, err = state.VariableIndex(s.Density(), s.name); err != nil {
		return err
	}
	if idx.Radius, err = state.VariableIndex(s.Radius(), s.name); err != nil {
		return err
	}
	s.idx = idx
	return nil
}

func (s *Scheme) resolved(op string, state *aerosol.State) (*Indices, error) {
	if s.idx == nil {
		return nil, &aerosol.UsageError{Owner: s.name, Op: op}
	}
	if s.idx.layout != state.Layout() {
		return nil, &aerosol.UsageError{Owner: s.name, Op: op, Stale: true}
	}
	return s.idx, nil
}

func (s *Scheme) speciesIndex(op string, state *aerosol.State, phase aerosol.Phase, species aerosol.Species) (int, error) {
	idx, err := s.resolved(op, state)
	if err != nil {
		return 0, err
	}
	key := s.Species(phase, species)
	i, ok := idx.Species[key]
	if !ok {
		return 0, &aerosol.LookupError{Kind: "species", Key: key, Owner: s.name}
	}
	return i, nil
}

// Concentration returns the concentration [mol m-3] of species in
// phase in grid cell cell.
func (s *Scheme) Concentration(state *aerosol.State, phase aerosol.Phase, species aerosol.Species, cell int) (float64, error) {
	i, err := s.speciesIndex("Concentration", state, phase, species)
	if err != nil {
		return 0, err
	}
	return state.Variable(cell, i), nil
}

// SetConcentration sets the concentration [mol m-3] of species in phase
// in grid cell cell.
func (s *Scheme) SetConcentration(state *aerosol.State, phase aerosol.Phase, species aerosol.Species, value float64, cell int) error {
	i, err := s.speciesIndex("SetConcentration", state, phase, species)
	if err != nil {
		return err
	}
	state.SetVariable(cell, i, value)
	return nil
}

// Number returns the number concentration [# m-3] in grid cell cell.
func (s *Scheme) Number(state *aerosol.State, cell int) (float64, error) {
	idx, err := s.resolved("Number", state)
	if err != nil {
		return 0, err
	}
	return state.Variable(cell, idx.Number), nil
}

// SetNumber sets the number concentration [# m-3] in grid cell cell.
func (s *Scheme) SetNumber(state *aerosol.State, value float64, cell int) error {
	idx, err := s.resolved("SetNumber", state)
	if err != nil {
		return err
	}
	state.SetVariable(cell, idx.Number, value)
	return nil
}

// ParticleDensity returns the particle density [kg m-3] in grid cell cell.
func (s *Scheme) ParticleDensity(state *aerosol.State, cell int) (float64, error) {
	idx, err := s.resolved("ParticleDensity", state)
	if err != nil {
		return 0, err
	}
	return state.Variable(cell, idx.Density), nil
}

// SetParticleDensity sets the particle density [kg m-3] in grid cell cell.
func (s *Scheme) SetParticleDensity(state *aerosol.State, value float64, cell int) error {
	idx, err := s.resolved("SetParticleDensity", state)
	if err != nil {
		return err
	}
	state.SetVariable(cell, idx.Density, value)
	return nil
}

// TotalMass returns the sum of the concentrations of all of the
// scheme's species in grid cell cell.
func (s *Scheme) TotalMass(state *aerosol.State, cell int) (float64, error) {
	idx, err := s.resolved("TotalMass", state)
	if err != nil {
		return 0, err
	}
	return s.totalMass(state, idx, cell), nil
}

func (s *Scheme) totalMass(state *aerosol.State, idx *Indices, cell int) float64 {
	m := make([]float64, len(idx.species))
	for j, i := range idx.species {
		m[j] = state.Variable(cell, i)
	}
	return floats.Sum(m)
}

// moments reads the mass, number concentration, and density of grid
// cell cell for an effective radius calculation.
func (s *Scheme) moments(op string, state *aerosol.State, cell int) (mass, number, density float64, err error) {
	idx, err := s.resolved(op, state)
	if err != nil {
		return 0, 0, 0, err
	}
	return s.totalMass(state, idx, cell), state.Variable(cell, idx.Number), state.Variable(cell, idx.Density), nil
}

// setRadius writes r into the radius variable of grid cell cell.
func (s *Scheme) setRadius(state *aerosol.State, r float64, cell int) error {
	idx, err := s.resolved("UpdateRadius", state)
	if err != nil {
		return err
	}
	state.SetVariable(cell, idx.Radius, r)
	return nil
}

// checkMoments returns a *DomainError if the moments are too small for
// a stable radius calculation. NaN moments fail every comparison.
func checkMoments(owner string, mass, number, density float64) error {
	if !(mass >= MinMass) || !(number >= MinNumber) || !(density > 0) {
		return &aerosol.DomainError{Owner: owner, Mass: mass, Number: number, Density: density}
	}
	return nil
}

func sortStrings(s []string) []string {
	sort.Strings(s)
	return s
}
