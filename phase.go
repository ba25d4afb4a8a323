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

// Package aerosol describes particle populations (aerosol modes, cloud
// droplets, dust sections) that share a state vector with a gas-phase
// chemistry solver. It derives the names and sizes of the state variables
// and parameters each population needs, and provides a minimal state
// container that the populations read and write through resolved indices.
//
// Science-specific pieces live in sub-packages: distribution shapes in
// package shape, moment schemes in package moment, explicit modes and
// sections in package scheme, and reaction rate constants in package process.
package aerosol

import "strings"

// Species is a chemical species that can be carried in a Phase.
type Species struct {
	Name string

	// MolecularWeight is the molar mass of the species [kg mol-1].
	// It is zero when not known.
	MolecularWeight float64
}

// Phase is an ordered, named collection of chemical species,
// for example the gas phase or the aqueous phase of a droplet.
type Phase struct {
	Name    string
	Species []Species
}

// NewPhase returns a phase with the given name holding the given species.
func NewPhase(name string, species ...Species) Phase {
	return Phase{Name: name, Species: species}
}

// StateSize returns the number of state variables needed to track
// the species in p.
func (p Phase) StateSize() int { return len(p.Species) }

// UniqueNames returns the phase-qualified name of each species in p,
// in the order the species were added.
func (p Phase) UniqueNames() []string {
	o := make([]string, len(p.Species))
	for i, s := range p.Species {
		o[i] = Join(p.Name, s.Name)
	}
	return o
}

// Has returns whether p contains a species called name.
func (p Phase) Has(name string) bool {
	for _, s := range p.Species {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Join joins name segments with ".", skipping empty segments,
// e.g. Join("AEROSOL", "", "AITKEN", "NUMBER_CONCENTRATION") returns
// "AEROSOL.AITKEN.NUMBER_CONCENTRATION".
func Join(names ...string) string {
	var b strings.Builder
	for _, n := range names {
		if n == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(n)
	}
	return b.String()
}
