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

// Package representation holds ready-made particle population
// representations: distributions with a fixed shape and moment scheme
// plus default values for their state parameters.
package representation

import (
	"sort"

	"github.com/spatialmodel/aerosol"
	"github.com/spatialmodel/aerosol/moment"
	"github.com/spatialmodel/aerosol/shape"
)

// SingleMomentMode is a single-moment log-normal distribution: the mass
// of each species is tracked, and the geometric mean radius and geometric
// standard deviation are state parameters.
type SingleMomentMode struct {
	*aerosol.Distribution[shape.LogNormal, moment.Single]

	// Default parameter values.
	GeometricMeanRadiusDefault        float64 // [m]
	GeometricStandardDeviationDefault float64 // [unitless]
}

// NewSingleMomentMode returns a single-moment mode called prefix over
// phases with the given default geometric mean radius [m] and geometric
// standard deviation.
func NewSingleMomentMode(prefix string, phases []aerosol.Phase, geometricMeanRadius, geometricStandardDeviation float64) (*SingleMomentMode, error) {
	d, err := aerosol.NewDistribution(prefix, phases, shape.NewLogNormal(prefix), moment.Single{})
	if err != nil {
		return nil, err
	}
	return &SingleMomentMode{
		Distribution:                      d,
		GeometricMeanRadiusDefault:        geometricMeanRadius,
		GeometricStandardDeviationDefault: geometricStandardDeviation,
	}, nil
}

// GeometricMeanRadius returns the state parameter name of the geometric mean radius.
func (m *SingleMomentMode) GeometricMeanRadius() string { return m.Shape().GeometricMeanRadius() }

// GeometricStandardDeviation returns the state parameter name of the
// geometric standard deviation.
func (m *SingleMomentMode) GeometricStandardDeviation() string {
	return m.Shape().GeometricStandardDeviation()
}

// DefaultParameters returns the default value of each state parameter.
func (m *SingleMomentMode) DefaultParameters() map[string]float64 {
	return map[string]float64{
		m.GeometricMeanRadius():        m.GeometricMeanRadiusDefault,
		m.GeometricStandardDeviation(): m.GeometricStandardDeviationDefault,
	}
}

// SetDefaultParameters sets the default parameter values in every grid cell of s.
func (m *SingleMomentMode) SetDefaultParameters(s *aerosol.State) error {
	return setDefaults(s, m.Name(), m.DefaultParameters())
}

// TwoMomentMode is a two-moment log-normal distribution: the mass of
// each species and the number concentration are tracked, and the
// geometric standard deviation is a state parameter.
type TwoMomentMode struct {
	*aerosol.Distribution[shape.LogNormal, moment.Two]

	GeometricStandardDeviationDefault float64 // [unitless]
}

// NewTwoMomentMode returns a two-moment mode called prefix over phases
// with the given default geometric standard deviation.
func NewTwoMomentMode(prefix string, phases []aerosol.Phase, geometricStandardDeviation float64) (*TwoMomentMode, error) {
	d, err := aerosol.NewDistribution(prefix, phases, shape.NewLogNormal(prefix), moment.Two{})
	if err != nil {
		return nil, err
	}
	return &TwoMomentMode{
		Distribution:                      d,
		GeometricStandardDeviationDefault: geometricStandardDeviation,
	}, nil
}

// NumberConcentration returns the state variable name of the number concentration.
func (m *TwoMomentMode) NumberConcentration() string { return m.Shape().NumberConcentration() }

// GeometricStandardDeviation returns the state parameter name of the
// geometric standard deviation.
func (m *TwoMomentMode) GeometricStandardDeviation() string {
	return m.Shape().GeometricStandardDeviation()
}

// DefaultParameters returns the default value of each state parameter.
func (m *TwoMomentMode) DefaultParameters() map[string]float64 {
	return map[string]float64{
		m.GeometricStandardDeviation(): m.GeometricStandardDeviationDefault,
	}
}

// SetDefaultParameters sets the default parameter values in every grid cell of s.
func (m *TwoMomentMode) SetDefaultParameters(s *aerosol.State) error {
	return setDefaults(s, m.Name(), m.DefaultParameters())
}

// UniformSection is a sectional distribution with a fixed size range
// and a variable total volume. Number concentration is derived from
// the volume and the section size.
type UniformSection struct {
	*aerosol.Distribution[shape.Uniform, moment.Single]

	MinRadiusDefault float64 // [m]
	MaxRadiusDefault float64 // [m]
}

// NewUniformSection returns a uniform section called prefix over phases
// spanning the given default minimum and maximum radius [m].
func NewUniformSection(prefix string, phases []aerosol.Phase, minRadius, maxRadius float64) (*UniformSection, error) {
	if minRadius > maxRadius {
		return nil, aerosol.ConfigErrorf(prefix, "minimum radius (%g) is larger than maximum radius (%g)", minRadius, maxRadius)
	}
	d, err := aerosol.NewDistribution(prefix, phases, shape.NewUniform(prefix), moment.Single{})
	if err != nil {
		return nil, err
	}
	return &UniformSection{
		Distribution:     d,
		MinRadiusDefault: minRadius,
		MaxRadiusDefault: maxRadius,
	}, nil
}

// MinRadius returns the state parameter name of the minimum radius.
func (m *UniformSection) MinRadius() string { return m.Shape().MinRadius() }

// MaxRadius returns the state parameter name of the maximum radius.
func (m *UniformSection) MaxRadius() string { return m.Shape().MaxRadius() }

// DefaultParameters returns the default value of each state parameter.
func (m *UniformSection) DefaultParameters() map[string]float64 {
	return map[string]float64{
		m.MinRadius(): m.MinRadiusDefault,
		m.MaxRadius(): m.MaxRadiusDefault,
	}
}

// SetDefaultParameters sets the default parameter values in every grid cell of s.
func (m *UniformSection) SetDefaultParameters(s *aerosol.State) error {
	return setDefaults(s, m.Name(), m.DefaultParameters())
}

// setDefaults writes params into every grid cell of s. All names are
// looked up before anything is written.
func setDefaults(s *aerosol.State, owner string, params map[string]float64) error {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	idx := make([]int, len(names))
	for i, n := range names {
		j, err := s.ParameterIndex(n, owner)
		if err != nil {
			return err
		}
		idx[i] = j
	}
	for cell := 0; cell < s.NumCells(); cell++ {
		for i, n := range names {
			s.SetParameter(cell, idx[i], params[n])
		}
	}
	return nil
}
