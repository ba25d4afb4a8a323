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

package scheme

import (
	"math"

	"github.com/spatialmodel/aerosol"
)

// Section is a particle population in a fixed size bin with uniform
// properties.
type Section struct {
	Scheme

	MinDiameter float64 // [m]
	MaxDiameter float64 // [m]

	fixedRadius float64
}

// NewSection returns a section called name made of phases spanning
// diameters between minDiameter and maxDiameter.
func NewSection(name string, phases []aerosol.Phase, typ DistributionType, minDiameter, maxDiameter float64) (*Section, error) {
	s, err := newScheme(name, phases, typ)
	if err != nil {
		return nil, err
	}
	if !(minDiameter > 0) || minDiameter > maxDiameter {
		return nil, aerosol.ConfigErrorf(name, "invalid diameter range [%g, %g]", minDiameter, maxDiameter)
	}
	return &Section{
		Scheme:      s,
		MinDiameter: minDiameter,
		MaxDiameter: maxDiameter,
		fixedRadius: UniformEffectiveRadius(minDiameter/2, maxDiameter/2),
	}, nil
}

// EffectiveRadius returns the effective radius [m] of the section in
// grid cell cell. Single-moment sections return the fixed radius of
// their bin. Two-moment sections return the mean-volume radius
// calculated from the state.
func (s *Section) EffectiveRadius(state *aerosol.State, cell int) (float64, error) {
	if s.typ == SingleMoment {
		return s.fixedRadius, nil
	}
	mass, n, rho, err := s.moments("EffectiveRadius", state, cell)
	if err != nil {
		return 0, err
	}
	return MeanVolumeRadius(s.name, mass, n, rho)
}

// UpdateRadius writes the effective radius of grid cell cell into the
// section's radius state variable.
func (s *Section) UpdateRadius(state *aerosol.State, cell int) error {
	if _, err := s.resolved("UpdateRadius", state); err != nil {
		return err
	}
	r, err := s.EffectiveRadius(state, cell)
	if err != nil {
		return err
	}
	return s.setRadius(state, r, cell)
}

// UniformEffectiveRadius returns the effective radius of particles
// distributed uniformly in radius between r1 and r2: the ratio of the
// third to the second moment of the distribution.
func UniformEffectiveRadius(r1, r2 float64) float64 {
	if r1 == r2 {
		return r1
	}
	return 0.75 * (math.Pow(r2, 4) - math.Pow(r1, 4)) / (math.Pow(r2, 3) - math.Pow(r1, 3))
}

// MeanVolumeRadius returns the radius [m] of a particle with the mean
// volume of a population with total mass concentration mass [kg m-3],
// number concentration number [# m-3], and particle density density
// [kg m-3].
func MeanVolumeRadius(owner string, mass, number, density float64) (float64, error) {
	if err := checkMoments(owner, mass, number, density); err != nil {
		return 0, err
	}
	return math.Cbrt(3 * mass / density / (4 * math.Pi * number)), nil
}
