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

// Moment labels. The first label of every shape is always Volume.
const (
	Volume                     = "VOLUME"
	NumberConcentration        = "NUMBER_CONCENTRATION"
	Radius                     = "RADIUS"
	GeometricMeanRadius        = "GEOMETRIC_MEAN_RADIUS"
	GeometricStandardDeviation = "GEOMETRIC_STANDARD_DEVIATION"
	MinRadius                  = "MIN_RADIUS"
	MaxRadius                  = "MAX_RADIUS"
	Density                    = "DENSITY"
)

// Shape is the assumed functional form of a particle size distribution.
type Shape interface {
	// PossibleMoments returns the ordered labels of the moments the
	// shape can express. The first label must be Volume.
	PossibleMoments() []string
}

// Moment is a moment scheme: it decides which of a shape's possible
// moments are tracked as state variables and which are fixed state
// parameters.
type Moment interface {
	// StateSize returns the number of state variables and state
	// parameters needed for a distribution over phases whose shape can
	// express moments.
	StateSize(phases []Phase, moments []string) (variables, parameters int, err error)

	// StateVariableNames returns the sorted, unique names of the state
	// variables, each beginning with prefix.
	StateVariableNames(prefix string, phases []Phase, moments []string) ([]string, error)

	// StateParameterNames returns the sorted, unique names of the state
	// parameters, each beginning with prefix.
	StateParameterNames(prefix string, phases []Phase, moments []string) ([]string, error)

	// Species returns the state variable name of species in phase.
	Species(prefix string, phase Phase, species Species) string
}

// Distribution is a homogeneous population of particles: particles of
// the same composition and physical properties that differ only in size.
// The shape S determines how average properties such as effective radius
// are derived, and the moment scheme M determines which properties are
// tracked in the state and which are fixed.
//
// Distributions can represent any suspension of particles in a gas,
// including cloud, rain, or ice droplets as well as dry or aqueous
// aerosol particles.
type Distribution[S Shape, M Moment] struct {
	name   string
	phases []Phase
	shape  S
	moment M

	nVariables, nParameters int
	variables, parameters   []string
}

// NewDistribution returns a distribution called name over phases. Its
// state names are computed once here; a *ConfigError is returned if the
// shape's moments do not suit the moment scheme.
//
// The name must be unique among the populations sharing a state.
func NewDistribution[S Shape, M Moment](name string, phases []Phase, shape S, moment M) (*Distribution[S, M], error) {
	d := &Distribution[S, M]{
		name:   name,
		phases: phases,
		shape:  shape,
		moment: moment,
	}
	moments := shape.PossibleMoments()
	var err error
	if d.nVariables, d.nParameters, err = moment.StateSize(phases, moments); err != nil {
		return nil, d.wrap(err)
	}
	if d.variables, err = moment.StateVariableNames(name, phases, moments); err != nil {
		return nil, d.wrap(err)
	}
	if d.parameters, err = moment.StateParameterNames(name, phases, moments); err != nil {
		return nil, d.wrap(err)
	}
	return d, nil
}

func (d *Distribution[S, M]) wrap(err error) error {
	if ce, ok := err.(*ConfigError); ok && ce.Owner == "" {
		return &ConfigError{Owner: d.name, Msg: ce.Msg}
	}
	return err
}

// Name returns the name of the distribution.
func (d *Distribution[S, M]) Name() string { return d.name }

// Phases returns the phases the distribution's particles are made of.
func (d *Distribution[S, M]) Phases() []Phase { return d.phases }

// Shape returns the shape of the distribution.
func (d *Distribution[S, M]) Shape() S { return d.shape }

// Moment returns the moment scheme of the distribution.
func (d *Distribution[S, M]) Moment() M { return d.moment }

// StateSize returns the number of state variables and parameters
// needed to describe the distribution.
func (d *Distribution[S, M]) StateSize() (variables, parameters int) {
	return d.nVariables, d.nParameters
}

// StateVariableNames returns the sorted names of the distribution's
// state variables.
func (d *Distribution[S, M]) StateVariableNames() []string {
	return append([]string(nil), d.variables...)
}

// StateParameterNames returns the sorted names of the distribution's
// state parameters.
func (d *Distribution[S, M]) StateParameterNames() []string {
	return append([]string(nil), d.parameters...)
}

// Species returns the state variable name for species in phase.
func (d *Distribution[S, M]) Species(phase Phase, species Species) string {
	return d.moment.Species(d.name, phase, species)
}

// SetParameter sets the state parameter called name to value. The state
// must have exactly one grid cell; use SetParameterValues otherwise.
func (d *Distribution[S, M]) SetParameter(s *State, name string, value float64) error {
	i, err := s.ParameterIndex(name, d.name)
	if err != nil {
		return err
	}
	if s.NumCells() != 1 {
		return ConfigErrorf(d.name, "cannot apply scalar value for parameter '%s' to %d grid cells", name, s.NumCells())
	}
	s.SetParameter(0, i, value)
	return nil
}

// SetParameterValues sets the state parameter called name in each grid
// cell to the corresponding element of values.
func (d *Distribution[S, M]) SetParameterValues(s *State, name string, values []float64) error {
	i, err := s.ParameterIndex(name, d.name)
	if err != nil {
		return err
	}
	if len(values) != s.NumCells() {
		return ConfigErrorf(d.name, "got %d values for parameter '%s' but the state has %d grid cells",
			len(values), name, s.NumCells())
	}
	for cell, v := range values {
		s.SetParameter(cell, i, v)
	}
	return nil
}
