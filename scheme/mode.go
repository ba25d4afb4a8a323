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

// Mode is a log-normally distributed particle population.
type Mode struct {
	Scheme

	// GeometricMeanDiameter is the center of the size distribution [m].
	GeometricMeanDiameter float64

	// GeometricStandardDeviation is the width of the size
	// distribution [unitless].
	GeometricStandardDeviation float64

	fixedRadius float64
}

// NewMode returns a mode called name made of phases. The effective
// radius of a single-moment mode is fixed here from the geometric mean
// diameter and geometric standard deviation.
func NewMode(name string, phases []aerosol.Phase, typ DistributionType, geometricMeanDiameter, geometricStandardDeviation float64) (*Mode, error) {
	s, err := newScheme(name, phases, typ)
	if err != nil {
		return nil, err
	}
	if geometricStandardDeviation < 1 {
		return nil, aerosol.ConfigErrorf(name, "geometric standard deviation must be at least 1; got %g", geometricStandardDeviation)
	}
	if typ == SingleMoment && !(geometricMeanDiameter > 0) {
		return nil, aerosol.ConfigErrorf(name, "geometric mean diameter must be positive; got %g", geometricMeanDiameter)
	}
	m := &Mode{
		Scheme:                     s,
		GeometricMeanDiameter:      geometricMeanDiameter,
		GeometricStandardDeviation: geometricStandardDeviation,
	}
	if typ == SingleMoment {
		lnSig := math.Log(geometricStandardDeviation)
		m.fixedRadius = 0.5 * geometricMeanDiameter * math.Exp(2.5*lnSig*lnSig)
	}
	return m, nil
}

// EffectiveRadius returns the effective radius [m] of the mode in grid
// cell cell. Single-moment modes return their fixed radius without
// reading state. Two-moment modes calculate it from the state, so
// their indices must be resolved.
func (m *Mode) EffectiveRadius(state *aerosol.State, cell int) (float64, error) {
	if m.typ == SingleMoment {
		return m.fixedRadius, nil
	}
	mass, n, rho, err := m.moments("EffectiveRadius", state, cell)
	if err != nil {
		return 0, err
	}
	return LogNormalEffectiveRadius(m.name, mass, n, rho, m.GeometricStandardDeviation)
}

// UpdateRadius writes the effective radius of grid cell cell into the
// mode's radius state variable.
func (m *Mode) UpdateRadius(state *aerosol.State, cell int) error {
	if _, err := m.resolved("UpdateRadius", state); err != nil {
		return err
	}
	r, err := m.EffectiveRadius(state, cell)
	if err != nil {
		return err
	}
	return m.setRadius(state, r, cell)
}

// LogNormalEffectiveRadius returns the effective radius [m] of a
// log-normal distribution with total mass concentration mass [kg m-3],
// number concentration number [# m-3], particle density density
// [kg m-3], and geometric standard deviation sigma. owner names the
// population in the returned *DomainError when the inputs are below
// the numerical stability limit.
func LogNormalEffectiveRadius(owner string, mass, number, density, sigma float64) (float64, error) {
	if err := checkMoments(owner, mass, number, density); err != nil {
		return 0, err
	}
	v := mass / density
	lnSig := math.Log(sigma)
	// V = N 4/3 π r_g³ exp(9/2 ln²σ)
	rg := math.Cbrt(3 * v / (4 * math.Pi * number * math.Exp(4.5*lnSig*lnSig)))
	return rg * math.Exp(2.5*lnSig*lnSig), nil
}
