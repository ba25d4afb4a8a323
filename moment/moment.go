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

// Package moment holds the moment schemes that decide which moments of
// a particle size distribution are carried as state variables and which
// are fixed state parameters.
//
// Every scheme handles the first moments of a shape structurally: the
// VOLUME moment is represented by the per-species mass of each phase,
// and a two-moment scheme also tracks the total number concentration.
// The remaining moments of the shape become state parameters.
package moment

import (
	"sort"

	"github.com/spatialmodel/aerosol"
)

// Single is a single-moment scheme: only the mass of each species is
// tracked. All other properties are derived from the mass and fixed
// distribution parameters.
type Single struct{}

// Two is a two-moment scheme: the mass of each species and the total
// number concentration are tracked. All other properties are derived
// from these and fixed distribution parameters.
type Two struct{}

// Number of leading moments each scheme handles structurally.
const (
	singleConsumed = 2
	twoConsumed    = 3
)

// StateSize returns the number of species in phases as the number of
// variables, and the number of moments after the first two as the
// number of parameters.
func (Single) StateSize(phases []aerosol.Phase, moments []string) (variables, parameters int, err error) {
	if err = check("single", moments, singleConsumed); err != nil {
		return 0, 0, err
	}
	return speciesCount(phases), len(moments) - singleConsumed, nil
}

// StateVariableNames returns prefix.phase.species for each species.
func (Single) StateVariableNames(prefix string, phases []aerosol.Phase, moments []string) ([]string, error) {
	if err := check("single", moments, singleConsumed); err != nil {
		return nil, err
	}
	return unique(speciesNames(prefix, phases))
}

// StateParameterNames returns prefix.moment for each moment after the
// first two.
func (Single) StateParameterNames(prefix string, phases []aerosol.Phase, moments []string) ([]string, error) {
	if err := check("single", moments, singleConsumed); err != nil {
		return nil, err
	}
	return unique(parameterNames(prefix, moments, singleConsumed))
}

// Species returns prefix.phase.species.
func (Single) Species(prefix string, phase aerosol.Phase, species aerosol.Species) string {
	return aerosol.Join(prefix, phase.Name, species.Name)
}

// StateSize returns the number of species in phases plus one for the
// number concentration as the number of variables, and the number of
// moments after the first three as the number of parameters.
func (Two) StateSize(phases []aerosol.Phase, moments []string) (variables, parameters int, err error) {
	if err = check("two", moments, twoConsumed); err != nil {
		return 0, 0, err
	}
	return speciesCount(phases) + 1, len(moments) - twoConsumed, nil
}

// StateVariableNames returns prefix.phase.species for each species and
// prefix.moment for the second moment (the number concentration).
func (Two) StateVariableNames(prefix string, phases []aerosol.Phase, moments []string) ([]string, error) {
	if err := check("two", moments, twoConsumed); err != nil {
		return nil, err
	}
	names := append(speciesNames(prefix, phases), aerosol.Join(prefix, moments[1]))
	return unique(names)
}

// StateParameterNames returns prefix.moment for each moment after the
// first three.
func (Two) StateParameterNames(prefix string, phases []aerosol.Phase, moments []string) ([]string, error) {
	if err := check("two", moments, twoConsumed); err != nil {
		return nil, err
	}
	return unique(parameterNames(prefix, moments, twoConsumed))
}

// Species returns prefix.phase.species.
func (Two) Species(prefix string, phase aerosol.Phase, species aerosol.Species) string {
	return aerosol.Join(prefix, phase.Name, species.Name)
}

// check makes sure moments has at least min labels and begins with VOLUME.
func check(scheme string, moments []string, min int) error {
	if len(moments) < min {
		return aerosol.ConfigErrorf("", "at least %d possible moments must be specified for a %s-moment scheme; got %d",
			min, scheme, len(moments))
	}
	if moments[0] != aerosol.Volume {
		return aerosol.ConfigErrorf("", "the first moment must be '%s' for a %s-moment scheme; got '%s'",
			aerosol.Volume, scheme, moments[0])
	}
	return nil
}

func speciesCount(phases []aerosol.Phase) int {
	n := 0
	for _, p := range phases {
		n += p.StateSize()
	}
	return n
}

func speciesNames(prefix string, phases []aerosol.Phase) []string {
	var o []string
	for _, p := range phases {
		for _, n := range p.UniqueNames() {
			o = append(o, aerosol.Join(prefix, n))
		}
	}
	return o
}

func parameterNames(prefix string, moments []string, consumed int) []string {
	o := make([]string, 0, len(moments)-consumed)
	for _, m := range moments[consumed:] {
		o = append(o, aerosol.Join(prefix, m))
	}
	return o
}

// unique sorts names and returns an error if any name repeats, which
// happens when two phases share a name or a phase lists a species twice.
func unique(names []string) ([]string, error) {
	sort.Strings(names)
	for i := 1; i < len(names); i++ {
		if names[i] == names[i-1] {
			return nil, aerosol.ConfigErrorf("", "state name '%s' is generated more than once", names[i])
		}
	}
	return names, nil
}
