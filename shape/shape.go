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

// Package shape holds the size-distribution shapes that a
// Distribution can take. Each shape lists the moments it can express
// and generates their state names under a prefix.
package shape

import "github.com/spatialmodel/aerosol"

// DeltaFunction is a size distribution in which all particles have
// the same size.
type DeltaFunction struct {
	prefix string
}

// NewDeltaFunction returns a delta-function shape whose state names
// begin with prefix.
func NewDeltaFunction(prefix string) DeltaFunction { return DeltaFunction{prefix: prefix} }

// PossibleMoments returns VOLUME, NUMBER_CONCENTRATION, and RADIUS.
func (DeltaFunction) PossibleMoments() []string {
	return []string{aerosol.Volume, aerosol.NumberConcentration, aerosol.Radius}
}

// NumberConcentration returns the state name of the number concentration.
func (s DeltaFunction) NumberConcentration() string {
	return aerosol.Join(s.prefix, aerosol.NumberConcentration)
}

// Radius returns the state name of the particle radius.
func (s DeltaFunction) Radius() string { return aerosol.Join(s.prefix, aerosol.Radius) }

// LogNormal is a log-normal size distribution characterized by a
// geometric mean radius and a geometric standard deviation.
type LogNormal struct {
	prefix string
}

// NewLogNormal returns a log-normal shape whose state names begin
// with prefix.
func NewLogNormal(prefix string) LogNormal { return LogNormal{prefix: prefix} }

// PossibleMoments returns VOLUME, NUMBER_CONCENTRATION,
// GEOMETRIC_MEAN_RADIUS, and GEOMETRIC_STANDARD_DEVIATION.
func (LogNormal) PossibleMoments() []string {
	return []string{
		aerosol.Volume,
		aerosol.NumberConcentration,
		aerosol.GeometricMeanRadius,
		aerosol.GeometricStandardDeviation,
	}
}

// NumberConcentration returns the state name of the number concentration.
func (s LogNormal) NumberConcentration() string {
	return aerosol.Join(s.prefix, aerosol.NumberConcentration)
}

// GeometricMeanRadius returns the state name of the geometric mean radius.
func (s LogNormal) GeometricMeanRadius() string {
	return aerosol.Join(s.prefix, aerosol.GeometricMeanRadius)
}

// GeometricStandardDeviation returns the state name of the geometric
// standard deviation.
func (s LogNormal) GeometricStandardDeviation() string {
	return aerosol.Join(s.prefix, aerosol.GeometricStandardDeviation)
}

// Uniform is a sectional size distribution: particles are spread
// uniformly between a minimum and a maximum radius.
type Uniform struct {
	prefix string
}

// NewUniform returns a uniform shape whose state names begin with prefix.
func NewUniform(prefix string) Uniform { return Uniform{prefix: prefix} }

// PossibleMoments returns VOLUME, NUMBER_CONCENTRATION, MIN_RADIUS,
// and MAX_RADIUS.
func (Uniform) PossibleMoments() []string {
	return []string{aerosol.Volume, aerosol.NumberConcentration, aerosol.MinRadius, aerosol.MaxRadius}
}

// NumberConcentration returns the state name of the number concentration.
func (s Uniform) NumberConcentration() string {
	return aerosol.Join(s.prefix, aerosol.NumberConcentration)
}

// MinRadius returns the state name of the lower section edge.
func (s Uniform) MinRadius() string { return aerosol.Join(s.prefix, aerosol.MinRadius) }

// MaxRadius returns the state name of the upper section edge.
func (s Uniform) MaxRadius() string { return aerosol.Join(s.prefix, aerosol.MaxRadius) }
